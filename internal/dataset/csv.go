// Package dataset reads the iodine reference dataset.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"iodine-tracker/internal/models"
)

// ReadRows parses a CSV dataset with a header line into source rows keyed
// by header name. Every column in models.RequiredColumns must be present.
func ReadRows(r io.Reader) ([]models.SourceRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: dataset is empty", models.ErrIngestionFailure)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", models.ErrIngestionFailure, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	for _, name := range models.RequiredColumns {
		if !present[name] {
			return nil, fmt.Errorf("%w: dataset is missing column %q", models.ErrIngestionFailure, name)
		}
	}

	var rows []models.SourceRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrIngestionFailure, err)
		}

		row := make(models.SourceRow, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadFile reads the dataset at path.
func LoadFile(path string) ([]models.SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

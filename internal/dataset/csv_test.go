package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iodine-tracker/internal/models"
)

const header = "Description,Category,Serving Size,Serving Measure,Iodine (mcg/serving),Min,Max\n"

func TestReadRows(t *testing.T) {
	input := "\ufeff" + header +
		"Milk,Dairy,1,cup,56,45,65\n" +
		"\"Egg, hard boiled\",Protein,1,large,26,,\n"

	rows, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][models.ColumnDescription] != "Milk" || rows[0][models.ColumnIodine] != "56" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1][models.ColumnDescription] != "Egg, hard boiled" || rows[1][models.ColumnMin] != "" {
		t.Fatalf("unexpected second row: %v", rows[1])
	}
}

func TestReadRowsMissingColumn(t *testing.T) {
	input := "Description,Category,Serving Size,Serving Measure,Min,Max\nMilk,Dairy,1,cup,45,65\n"
	if _, err := ReadRows(strings.NewReader(input)); !errors.Is(err, models.ErrIngestionFailure) {
		t.Fatalf("expected ingestion failure, got %v", err)
	}
}

func TestReadRowsRaggedRecord(t *testing.T) {
	input := header + "Milk,Dairy,1,cup\n"
	if _, err := ReadRows(strings.NewReader(input)); !errors.Is(err, models.ErrIngestionFailure) {
		t.Fatalf("expected ingestion failure, got %v", err)
	}
}

func TestReadRowsEmpty(t *testing.T) {
	if _, err := ReadRows(strings.NewReader("")); !errors.Is(err, models.ErrIngestionFailure) {
		t.Fatalf("expected ingestion failure, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iodine.csv")
	if err := os.WriteFile(path, []byte(header+"Milk,Dairy,1,cup,56,45,65\n"), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	rows, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

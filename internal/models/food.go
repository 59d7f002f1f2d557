package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"iodine-tracker/internal/measure"
)

// Source dataset column headers.
const (
	ColumnDescription    = "Description"
	ColumnCategory       = "Category"
	ColumnServingSize    = "Serving Size"
	ColumnServingMeasure = "Serving Measure"
	ColumnIodine         = "Iodine (mcg/serving)"
	ColumnMin            = "Min"
	ColumnMax            = "Max"
)

// RequiredColumns lists the headers every source dataset must carry.
var RequiredColumns = []string{
	ColumnDescription,
	ColumnCategory,
	ColumnServingSize,
	ColumnServingMeasure,
	ColumnIodine,
	ColumnMin,
	ColumnMax,
}

// SourceRow is one raw dataset row keyed by column header.
type SourceRow map[string]string

// FoodRecord describes the iodine content of one food.
type FoodRecord struct {
	ID                   int64         `json:"id"`
	Description          string        `json:"description"`
	Category             string        `json:"category"`
	ServingSize          string        `json:"serving_size"`
	ServingMeasure       string        `json:"serving_measure"`
	IodineMcg            float64       `json:"iodine_mcg"`
	Min                  *float64      `json:"min"`
	Max                  *float64      `json:"max"`
	StandardizedQuantity *float64      `json:"standardized_quantity"`
	StandardizedUnit     *measure.Unit `json:"standardized_unit"`
}

// FoodFromSourceRow maps a raw dataset row into a FoodRecord. The iodine
// value is required and must be a non-negative number; Min and Max are dropped when empty or malformed.
// Standardized fields are filled from the serving text. ID stays zero until
// the catalog assigns one.
func FoodFromSourceRow(row SourceRow) (FoodRecord, error) {
	for _, column := range RequiredColumns {
		if _, ok := row[column]; !ok {
			return FoodRecord{}, fmt.Errorf("%w: missing column %q", ErrIngestionFailure, column)
		}
	}

	raw := strings.TrimSpace(row[ColumnIodine])
	iodine, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(iodine) || math.IsInf(iodine, 0) {
		return FoodRecord{}, fmt.Errorf("%w: %s %q for %q is not a number", ErrIngestionFailure, ColumnIodine, raw, row[ColumnDescription])
	}
	if iodine < 0 {
		return FoodRecord{}, fmt.Errorf("%w: %s %q for %q is negative", ErrIngestionFailure, ColumnIodine, raw, row[ColumnDescription])
	}

	food := FoodRecord{
		Description:    row[ColumnDescription],
		Category:       row[ColumnCategory],
		ServingSize:    row[ColumnServingSize],
		ServingMeasure: row[ColumnServingMeasure],
		IodineMcg:      iodine,
		Min:            optionalFloat(row[ColumnMin]),
		Max:            optionalFloat(row[ColumnMax]),
	}
	food.StandardizedQuantity, food.StandardizedUnit = measure.Normalize(food.ServingSize, food.ServingMeasure)
	return food, nil
}

func optionalFloat(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

package models

import (
	"errors"
	"testing"

	"iodine-tracker/internal/measure"
)

func milkRow() SourceRow {
	return SourceRow{
		ColumnDescription:    "Milk",
		ColumnCategory:       "Dairy",
		ColumnServingSize:    "1",
		ColumnServingMeasure: "cup",
		ColumnIodine:         "56",
		ColumnMin:            "45",
		ColumnMax:            "65",
	}
}

func TestFoodFromSourceRow(t *testing.T) {
	food, err := FoodFromSourceRow(milkRow())
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if food.Description != "Milk" || food.Category != "Dairy" {
		t.Fatalf("unexpected text fields: %+v", food)
	}
	if food.IodineMcg != 56 {
		t.Fatalf("iodine = %v, want 56", food.IodineMcg)
	}
	if food.Min == nil || *food.Min != 45 || food.Max == nil || *food.Max != 65 {
		t.Fatalf("unexpected range: min=%v max=%v", food.Min, food.Max)
	}
	if food.StandardizedQuantity == nil || *food.StandardizedQuantity != 1 {
		t.Fatalf("unexpected standardized quantity: %v", food.StandardizedQuantity)
	}
	if food.StandardizedUnit == nil || *food.StandardizedUnit != measure.Cup {
		t.Fatalf("unexpected standardized unit: %v", food.StandardizedUnit)
	}
	if food.ID != 0 {
		t.Fatalf("expected unassigned id, got %d", food.ID)
	}
}

func TestFoodFromSourceRowOptionalRange(t *testing.T) {
	row := milkRow()
	row[ColumnMin] = ""
	row[ColumnMax] = "n/a"

	food, err := FoodFromSourceRow(row)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if food.Min != nil || food.Max != nil {
		t.Fatalf("expected absent range, got min=%v max=%v", food.Min, food.Max)
	}
}

func TestFoodFromSourceRowRangeIsNotValidated(t *testing.T) {
	row := milkRow()
	row[ColumnMin] = "80"
	row[ColumnMax] = "10"

	food, err := FoodFromSourceRow(row)
	if err != nil {
		t.Fatalf("expected out-of-order range to be kept, got %v", err)
	}
	if *food.Min != 80 || *food.Max != 10 {
		t.Fatalf("unexpected range: min=%v max=%v", *food.Min, *food.Max)
	}
}

func TestFoodFromSourceRowUnparsedServing(t *testing.T) {
	row := milkRow()
	row[ColumnServingMeasure] = "medium"

	food, err := FoodFromSourceRow(row)
	if err != nil {
		t.Fatalf("map row: %v", err)
	}
	if food.StandardizedQuantity != nil || food.StandardizedUnit != nil {
		t.Fatalf("expected no standardized pair, got %v %v", food.StandardizedQuantity, food.StandardizedUnit)
	}
}

func TestFoodFromSourceRowRejectsBadIodine(t *testing.T) {
	for _, value := range []string{"", "lots", "-3", "NaN"} {
		row := milkRow()
		row[ColumnIodine] = value
		if _, err := FoodFromSourceRow(row); !errors.Is(err, ErrIngestionFailure) {
			t.Fatalf("iodine %q: expected ingestion failure, got %v", value, err)
		}
	}
}

func TestFoodFromSourceRowRejectsMissingColumn(t *testing.T) {
	row := milkRow()
	delete(row, ColumnCategory)
	if _, err := FoodFromSourceRow(row); !errors.Is(err, ErrIngestionFailure) {
		t.Fatalf("expected ingestion failure, got %v", err)
	}
}

func TestTrackerCloneIsIndependent(t *testing.T) {
	original := Tracker{Entries: []TrackerEntry{{FoodID: 1, Quantity: 2}}, Date: "2026-02-07"}
	clone := original.Clone()
	clone.Entries[0].Quantity = 9

	if original.Entries[0].Quantity != 2 {
		t.Fatalf("clone shares storage with original")
	}
	if clone.Index(1) != 0 || clone.Index(2) != -1 {
		t.Fatalf("unexpected index results")
	}
}

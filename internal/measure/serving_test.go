package measure

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		size     string
		measure  string
		wantQty  float64
		wantUnit Unit
		wantNil  bool
	}{
		{name: "whole cup", size: "1", measure: "cup", wantQty: 1, wantUnit: Cup},
		{name: "mixed number plural", size: "1 1/2", measure: "cups", wantQty: 1.5, wantUnit: Cup},
		{name: "fraction", size: "3/4", measure: "tsp", wantQty: 0.75, wantUnit: Teaspoon},
		{name: "decimal with padding", size: "  2.5 ", measure: "Ounces", wantQty: 2.5, wantUnit: Ounce},
		{name: "tablespoon spelled out", size: "2", measure: "tablespoons", wantQty: 2, wantUnit: Tablespoon},
		{name: "grams", size: "100", measure: "g", wantQty: 100, wantUnit: Gram},
		{name: "kilogram", size: "1", measure: "kilogram", wantQty: 1, wantUnit: Kilogram},
		{name: "milliliters", size: "250", measure: "ml", wantQty: 250, wantUnit: Milliliter},
		{name: "liter", size: "1", measure: "L", wantQty: 1, wantUnit: Liter},
		{name: "pounds", size: "1/4", measure: "lbs", wantQty: 0.25, wantUnit: Pound},
		{name: "unit inside phrase", size: "1", measure: "large slice, about 3 oz", wantQty: 1, wantUnit: Ounce},
		{name: "empty size", size: "", measure: "cup", wantNil: true},
		{name: "unknown unit", size: "2", measure: "smidgen", wantNil: true},
		{name: "empty measure", size: "2", measure: "", wantNil: true},
		{name: "zero denominator", size: "1/0", measure: "cup", wantNil: true},
		{name: "non numeric fraction", size: "a/2", measure: "cup", wantNil: true},
		{name: "three tokens", size: "1 1/2 3", measure: "cup", wantNil: true},
		{name: "word quantity", size: "one", measure: "cup", wantNil: true},
		{name: "not a number", size: "NaN", measure: "cup", wantNil: true},
		{name: "unit is not a whole word", size: "1", measure: "glass", wantNil: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			qty, unit := Normalize(tc.size, tc.measure)
			if tc.wantNil {
				if qty != nil || unit != nil {
					t.Fatalf("expected (nil, nil), got (%v, %v)", qty, unit)
				}
				return
			}
			if qty == nil || unit == nil {
				t.Fatalf("expected (%v, %q), got (%v, %v)", tc.wantQty, tc.wantUnit, qty, unit)
			}
			if *qty != tc.wantQty {
				t.Fatalf("quantity = %v, want %v", *qty, tc.wantQty)
			}
			if *unit != tc.wantUnit {
				t.Fatalf("unit = %q, want %q", *unit, tc.wantUnit)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	q1, u1 := Normalize("1 1/2", "cups")
	q2, u2 := Normalize("1 1/2", "cups")
	if *q1 != *q2 || *u1 != *u2 {
		t.Fatalf("expected identical results, got (%v, %v) and (%v, %v)", *q1, *u1, *q2, *u2)
	}
}

func TestParseQuantityFractionForms(t *testing.T) {
	if got, ok := ParseQuantity("1/2/3"); ok {
		t.Fatalf("expected nested fraction to fail, got %v", got)
	}
	if got, ok := ParseQuantity("2 1/4"); !ok || got != 2.25 {
		t.Fatalf("expected 2.25, got %v (ok=%v)", got, ok)
	}
	if got, ok := ParseQuantity("2 abc"); ok {
		t.Fatalf("expected mixed number with bad fraction to fail, got %v", got)
	}
}

func TestUnitPriority(t *testing.T) {
	unit, ok := ParseUnit("1 cup (8 oz)")
	if !ok || unit != Cup {
		t.Fatalf("expected cup to win over oz, got %q (ok=%v)", unit, ok)
	}
}

func TestUnitValid(t *testing.T) {
	if !Gram.Valid() {
		t.Fatal("expected g to be valid")
	}
	if Unit("pinch").Valid() {
		t.Fatal("expected pinch to be invalid")
	}
}

// Package measure normalizes free-text serving sizes into a numeric
// quantity and a canonical unit.
package measure

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit is a canonical serving unit.
type Unit string

const (
	Cup        Unit = "cup"
	Tablespoon Unit = "tbsp"
	Teaspoon   Unit = "tsp"
	Ounce      Unit = "oz"
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Pound      Unit = "lb"
)

type unitPattern struct {
	unit    Unit
	pattern *regexp.Regexp
}

// Checked in order; the first match wins.
var unitPatterns = []unitPattern{
	{Cup, regexp.MustCompile(`\b(cup|cups)\b`)},
	{Tablespoon, regexp.MustCompile(`\b(tbsp|tablespoon|tablespoons)\b`)},
	{Teaspoon, regexp.MustCompile(`\b(tsp|teaspoon|teaspoons)\b`)},
	{Ounce, regexp.MustCompile(`\b(oz|ounce|ounces)\b`)},
	{Gram, regexp.MustCompile(`\b(g|gram|grams)\b`)},
	{Kilogram, regexp.MustCompile(`\b(kg|kilogram|kilograms)\b`)},
	{Milliliter, regexp.MustCompile(`\b(ml|milliliter|milliliters)\b`)},
	{Liter, regexp.MustCompile(`\b(l|liter|liters)\b`)},
	{Pound, regexp.MustCompile(`\b(lb|lbs|pound|pounds)\b`)},
}

// Valid reports whether u is one of the canonical units.
func (u Unit) Valid() bool {
	for _, p := range unitPatterns {
		if p.unit == u {
			return true
		}
	}
	return false
}

// Normalize converts a serving size and measure into a standardized pair.
// Both values are nil unless the quantity and the unit resolve.
func Normalize(servingSize, servingMeasure string) (*float64, *Unit) {
	quantity, ok := ParseQuantity(servingSize)
	if !ok {
		return nil, nil
	}
	unit, ok := ParseUnit(servingMeasure)
	if !ok {
		return nil, nil
	}
	return &quantity, &unit
}

// ParseQuantity reads decimals ("1.5"), fractions ("3/4") and mixed
// numbers ("1 1/2").
func ParseQuantity(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if strings.Contains(value, " ") {
		parts := strings.Fields(value)
		if len(parts) == 2 {
			whole, wholeOK := ParseQuantity(parts[0])
			frac, fracOK := parseFraction(parts[1])
			if wholeOK && fracOK {
				return whole + frac, true
			}
		}
	}

	if frac, ok := parseFraction(value); ok {
		return frac, true
	}
	return parseDecimal(value)
}

// ParseUnit matches the measure text against the known unit spellings.
func ParseUnit(measure string) (Unit, bool) {
	if measure == "" {
		return "", false
	}
	measure = strings.ToLower(measure)
	for _, p := range unitPatterns {
		if p.pattern.MatchString(measure) {
			return p.unit, true
		}
	}
	return "", false
}

func parseFraction(value string) (float64, bool) {
	numerator, denominator, found := strings.Cut(value, "/")
	if !found {
		return 0, false
	}
	n, ok := parseDecimal(numerator)
	if !ok {
		return 0, false
	}
	d, ok := parseDecimal(denominator)
	if !ok || d == 0 {
		return 0, false
	}
	return n / d, true
}

func parseDecimal(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

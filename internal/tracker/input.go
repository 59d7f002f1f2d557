package tracker

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"iodine-tracker/internal/models"
)

const dateLayout = "2006-01-02"

// ParseFoodID accepts a positive integer given as a JSON number or a
// string.
func ParseFoodID(value interface{}) (int64, error) {
	var id int64
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("%w: food_id is required", models.ErrInvalidInput)
	case float64:
		if v != math.Trunc(v) || math.Abs(v) >= 1<<63 {
			return 0, fmt.Errorf("%w: food_id must be an integer", models.ErrInvalidInput)
		}
		id = int64(v)
	case int:
		id = int64(v)
	case int64:
		id = v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: food_id must be an integer", models.ErrInvalidInput)
		}
		id = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: food_id must be an integer", models.ErrInvalidInput)
		}
		id = n
	default:
		return 0, fmt.Errorf("%w: food_id must be an integer", models.ErrInvalidInput)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: food_id is required", models.ErrInvalidInput)
	}
	return id, nil
}

// ParseQuantity accepts a finite number given as a JSON number or a string.
func ParseQuantity(value interface{}) (float64, error) {
	var q float64
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("%w: quantity is required", models.ErrInvalidInput)
	case float64:
		q = v
	case int:
		q = float64(v)
	case int64:
		q = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput)
		}
		q = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput)
		}
		q = f
	default:
		return 0, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput)
	}
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput)
	}
	return q, nil
}

// ValidateDate checks that localDate is a YYYY-MM-DD calendar date.
func ValidateDate(localDate string) error {
	if strings.TrimSpace(localDate) == "" {
		return fmt.Errorf("%w: local_date is required", models.ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, localDate); err != nil {
		return fmt.Errorf("%w: local_date must be YYYY-MM-DD", models.ErrInvalidInput)
	}
	return nil
}

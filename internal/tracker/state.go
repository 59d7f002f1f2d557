// Package tracker keeps the per-session daily tally of foods eaten and
// computes iodine totals from it.
package tracker

import (
	"fmt"

	"iodine-tracker/internal/models"
)

// rollover returns t unchanged when it already belongs to localDate and an
// empty tracker for localDate otherwise.
func rollover(t models.Tracker, localDate string) models.Tracker {
	if t.Date == localDate {
		return t.Clone()
	}
	return models.Tracker{Entries: []models.TrackerEntry{}, Date: localDate}
}

// Get returns the tracker as seen on localDate. A tracker from another day
// comes back empty.
func Get(t models.Tracker, localDate string) models.Tracker {
	return rollover(t, localDate)
}

// Add records one more serving of foodID. A food not yet tracked is
// rejected with ErrLimitReached once MaxTrackerItems foods are tracked; t
// is not modified either way.
func Add(t models.Tracker, foodID int64, localDate string) (models.Tracker, error) {
	next := rollover(t, localDate)
	if i := next.Index(foodID); i >= 0 {
		next.Entries[i].Quantity++
		return next, nil
	}
	if len(next.Entries) >= models.MaxTrackerItems {
		return t, fmt.Errorf("%w: at most %d foods per day", models.ErrLimitReached, models.MaxTrackerItems)
	}
	next.Entries = append(next.Entries, models.TrackerEntry{FoodID: foodID, Quantity: 1})
	return next, nil
}

// Update sets the servings of foodID. A quantity of zero or less removes the
// entry. Setting a food that is not tracked yet adds it, subject to the same
// limit as Add.
func Update(t models.Tracker, foodID int64, quantity float64, localDate string) (models.Tracker, error) {
	if quantity <= 0 {
		return Remove(t, foodID, localDate), nil
	}
	next := rollover(t, localDate)
	if i := next.Index(foodID); i >= 0 {
		next.Entries[i].Quantity = quantity
		return next, nil
	}
	if len(next.Entries) >= models.MaxTrackerItems {
		return t, fmt.Errorf("%w: at most %d foods per day", models.ErrLimitReached, models.MaxTrackerItems)
	}
	next.Entries = append(next.Entries, models.TrackerEntry{FoodID: foodID, Quantity: quantity})
	return next, nil
}

// Remove drops foodID from the tracker if present.
func Remove(t models.Tracker, foodID int64, localDate string) models.Tracker {
	next := rollover(t, localDate)
	if i := next.Index(foodID); i >= 0 {
		next.Entries = append(next.Entries[:i], next.Entries[i+1:]...)
	}
	return next
}

// Clear empties the tracker and moves it to localDate.
func Clear(localDate string) models.Tracker {
	return models.Tracker{Entries: []models.TrackerEntry{}, Date: localDate}
}

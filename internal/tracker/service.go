package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"iodine-tracker/internal/models"
)

// SessionStore persists one tracker per session.
type SessionStore interface {
	LoadTracker(ctx context.Context, sessionID string) (models.Tracker, error)
	SaveTracker(ctx context.Context, sessionID string, t models.Tracker) error
}

// Service runs tracker operations as read-modify-write cycles against a
// session store and answers with a fresh summary.
type Service struct {
	store  SessionStore
	lookup FoodLookup

	// Serializes the load/apply/save cycle.
	mu sync.Mutex
}

func NewService(store SessionStore, lookup FoodLookup) *Service {
	return &Service{store: store, lookup: lookup}
}

// Get returns the summary for localDate, discarding a previous day's
// entries.
func (s *Service) Get(ctx context.Context, sessionID, localDate string) (models.TrackerSummary, error) {
	if err := validateRequest(sessionID, localDate); err != nil {
		return models.TrackerSummary{}, err
	}
	return s.apply(ctx, sessionID, func(t models.Tracker) (models.Tracker, error) {
		return Get(t, localDate), nil
	})
}

// Add records one serving of foodID.
func (s *Service) Add(ctx context.Context, sessionID string, foodID int64, localDate string) (models.TrackerSummary, error) {
	if err := validateItemRequest(sessionID, foodID, localDate); err != nil {
		return models.TrackerSummary{}, err
	}
	return s.apply(ctx, sessionID, func(t models.Tracker) (models.Tracker, error) {
		return Add(t, foodID, localDate)
	})
}

// Update sets the servings of foodID, removing it when quantity <= 0.
func (s *Service) Update(ctx context.Context, sessionID string, foodID int64, quantity float64, localDate string) (models.TrackerSummary, error) {
	if err := validateItemRequest(sessionID, foodID, localDate); err != nil {
		return models.TrackerSummary{}, err
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return models.TrackerSummary{}, fmt.Errorf("%w: quantity must be a number", models.ErrInvalidInput)
	}
	return s.apply(ctx, sessionID, func(t models.Tracker) (models.Tracker, error) {
		return Update(t, foodID, quantity, localDate)
	})
}

// Remove drops foodID from today's tracker.
func (s *Service) Remove(ctx context.Context, sessionID string, foodID int64, localDate string) (models.TrackerSummary, error) {
	if err := validateItemRequest(sessionID, foodID, localDate); err != nil {
		return models.TrackerSummary{}, err
	}
	return s.apply(ctx, sessionID, func(t models.Tracker) (models.Tracker, error) {
		return Remove(t, foodID, localDate), nil
	})
}

// Clear empties the tracker for localDate.
func (s *Service) Clear(ctx context.Context, sessionID, localDate string) (models.TrackerSummary, error) {
	if err := validateRequest(sessionID, localDate); err != nil {
		return models.TrackerSummary{}, err
	}
	return s.apply(ctx, sessionID, func(models.Tracker) (models.Tracker, error) {
		return Clear(localDate), nil
	})
}

func (s *Service) apply(ctx context.Context, sessionID string, op func(models.Tracker) (models.Tracker, error)) (models.TrackerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.LoadTracker(ctx, sessionID)
	if err != nil {
		return models.TrackerSummary{}, err
	}
	next, err := op(current)
	if err != nil {
		return models.TrackerSummary{}, err
	}
	if !sameTracker(current, next) {
		if err := s.store.SaveTracker(ctx, sessionID, next); err != nil {
			return models.TrackerSummary{}, err
		}
	}
	return Summarize(ctx, next, s.lookup)
}

func validateRequest(sessionID, localDate string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session is required", models.ErrInvalidInput)
	}
	return ValidateDate(localDate)
}

func validateItemRequest(sessionID string, foodID int64, localDate string) error {
	if foodID <= 0 {
		return fmt.Errorf("%w: food_id is required", models.ErrInvalidInput)
	}
	return validateRequest(sessionID, localDate)
}

func sameTracker(a, b models.Tracker) bool {
	if a.Date != b.Date || len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			return false
		}
	}
	return true
}

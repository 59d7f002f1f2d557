package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"iodine-tracker/internal/models"
)

// LoadTracker returns the stored tracker for sessionID. A session with no
// stored state yields an empty tracker with no date.
func (s *SQLiteStorage) LoadTracker(ctx context.Context, sessionID string) (models.Tracker, error) {
	if err := s.ready(ctx); err != nil {
		return models.Tracker{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return models.Tracker{}, fmt.Errorf("session id is required: %w", models.ErrInvalidInput)
	}

	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM tracker_sessions WHERE session_id = ?`, sessionID,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tracker{}, nil
	}
	if err != nil {
		return models.Tracker{}, unavailable("load tracker", err)
	}

	var tracker models.Tracker
	if err := json.Unmarshal([]byte(state), &tracker); err != nil {
		return models.Tracker{}, unavailable("decode tracker", err)
	}
	return tracker, nil
}

// SaveTracker replaces the stored tracker for sessionID in one statement.
func (s *SQLiteStorage) SaveTracker(ctx context.Context, sessionID string, tracker models.Tracker) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required: %w", models.ErrInvalidInput)
	}
	if tracker.Entries == nil {
		tracker.Entries = []models.TrackerEntry{}
	}

	state, err := json.Marshal(tracker)
	if err != nil {
		return fmt.Errorf("failed to encode tracker: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO tracker_sessions (session_id, state, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            state = excluded.state,
            updated_at = excluded.updated_at
    `, sessionID, string(state), time.Now().UTC().UnixMilli())
	if err != nil {
		return unavailable("save tracker", err)
	}
	return nil
}

package models

import "errors"

// Error kinds surfaced by catalog and tracker operations.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrLimitReached       = errors.New("tracker item limit reached")
	ErrIngestionFailure   = errors.New("ingestion failure")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

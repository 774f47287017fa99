package models

import "errors"

// Sentinel errors returned by the remote store. Driver-specific errors are
// mapped onto these so callers can recover with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("unique constraint violation")
	ErrMissingReference = errors.New("foreign key violation")
	// ErrWrongState is returned when a row exists but is not in the state an update requires.
	ErrWrongState = errors.New("record is not in the required state")
)

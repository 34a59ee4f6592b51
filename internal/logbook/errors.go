package logbook

import "errors"

// ErrSessionNotFound is returned when no session matches the supplied ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrAmbiguousRef indicates an ID prefix matched more than one session.
var ErrAmbiguousRef = errors.New("session id prefix is ambiguous")

// ErrNothingToClear is returned by Clear when the collection is already empty.
var ErrNothingToClear = errors.New("no data to clear")

// Validation errors for session fields.
var (
	ErrEmptySubject    = errors.New("subject is required")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidDate     = errors.New("date must use the YYYY-MM-DD format")
)

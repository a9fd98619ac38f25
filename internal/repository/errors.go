package repository

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when an optimistic-locked write loses
	// the race: the stored version no longer matches the expected version.
	// Callers may reload and retry; the repository never retries itself.
	ErrVersionConflict = errors.New("version conflict")
)

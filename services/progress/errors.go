package progressService

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("concurrent update conflict")

	// errStale marks a lost optimistic race; the caller retries the whole write.
	errStale = errors.New("stale progress document")
)

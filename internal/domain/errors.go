package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed candidate or record.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable signals that the content index could not be read from its backend.
	ErrIndexUnavailable = errors.New("content index unavailable")
	// ErrIndexPersist signals that the content index could not be written.
	ErrIndexPersist = errors.New("content index persist failed")
)

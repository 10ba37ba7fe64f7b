package postguard

import "github.com/techlog/postguard/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput     = domain.ErrInvalidInput
	ErrNotFound         = domain.ErrNotFound
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	ErrIndexPersist     = domain.ErrIndexPersist
)

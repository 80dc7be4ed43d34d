package edgardex

import "github.com/filinglab/edgardex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidParameter   = domain.ErrInvalidParameter
	ErrStorageUnavailable = domain.ErrStorageUnavailable
	ErrNoContent          = domain.ErrNoContent
	ErrUnknownForm        = domain.ErrUnknownForm
)

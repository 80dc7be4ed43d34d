package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter signals malformed or out-of-range caller input.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrStorageUnavailable signals an unreachable backend or a timed-out
	// query. Retryable; never converted into an empty result set.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoContent signals that no extracted text is stored for a document.
	ErrNoContent = errors.New("no content stored")

	// ErrUnknownForm signals a form code outside the known SEC set.
	// It is a kind of ErrInvalidParameter.
	ErrUnknownForm = fmt.Errorf("%w: unknown form type", ErrInvalidParameter)
)

package game

import "errors"

// Recoverable outcomes. Each maps to a specific user-facing reply in the
// command layer; anything else coming out of the engine is a storage or blob
// failure and gets the generic internal-error treatment.
var (
	ErrInvalidPool     = errors.New("invalid card pool")
	ErrUnknownSet      = errors.New("unknown set")
	ErrEmptyCollection = errors.New("empty collection")
	ErrMissingArgument = errors.New("missing argument")
	ErrQuotaExceeded   = errors.New("draw quota exceeded")
)

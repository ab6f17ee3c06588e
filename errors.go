package toolstream

import "errors"

// Sentinel errors for error classification.
var (
	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates the per-turn tool call limit was reached.
	ErrLimitExceeded = errors.New("limit exceeded")
)

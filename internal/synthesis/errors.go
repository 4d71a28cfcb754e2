package synthesis

import "errors"

var (
	// ErrInvalidArguments is wrapped by every parameter validation error.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrSynthesisFailed reports a broken internal invariant during a run.
	ErrSynthesisFailed = errors.New("synthesis failed")
)

package evaluator

import "errors"

// Sentinel errors for component evaluation.
var (
	ErrMissingInput = errors.New("missing component input")
	ErrInvalidInput = errors.New("invalid component input")
)

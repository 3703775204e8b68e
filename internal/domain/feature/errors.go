package feature

import "errors"

// Sentinel errors for feature contracts.
var (
	ErrInvalidContract = errors.New("invalid feature contract")
)

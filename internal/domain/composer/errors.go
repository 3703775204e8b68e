package composer

import "errors"

// Sentinel errors for composition.
var (
	ErrInvalidSourceData = errors.New("invalid source data")
)

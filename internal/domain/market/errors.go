package market

import "errors"

// Sentinel errors for the market registry.
var (
	ErrUnknownMarket     = errors.New("unknown market")
	ErrInvalidDefinition = errors.New("invalid market definition")
	ErrLoadRegistry      = errors.New("load market registry failed")
)

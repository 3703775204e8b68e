package backtest

import "errors"

// Sentinel errors for backtest runs.
var (
	ErrInsufficientData = errors.New("insufficient historical data")
	ErrInvalidRequest   = errors.New("invalid backtest request")
	ErrHistorySource    = errors.New("history source failed")
)

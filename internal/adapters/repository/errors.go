package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("backtest result not found")
	ErrInvalidFile = errors.New("invalid history file")
	ErrInvalidID   = errors.New("invalid run id")
)

package service

import "errors"

// Sentinel errors for the service layer.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNoResultStore = errors.New("backtest result store not configured")
)

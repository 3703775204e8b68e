package scoring

import "errors"

// ErrScore is returned when a result cannot be produced for reasons other
// than an unknown market or an invalid contract.
var ErrScore = errors.New("scoring failed")

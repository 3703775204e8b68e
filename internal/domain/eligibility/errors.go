package eligibility

import "errors"

// ErrInvalidResult is returned for a nil or unusable scoring result.
var ErrInvalidResult = errors.New("invalid scoring result")

package scoring

import "errors"

// Sentinel errors returned by scorers.
var (
	ErrScorerUnavailable = errors.New("scorer unavailable")
	ErrInvalidScore      = errors.New("score out of range")
)

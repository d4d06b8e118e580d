package queue

import "errors"

// Sentinel kinds for enqueue failures, also used as metric reasons.
var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)

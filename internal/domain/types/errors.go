package types

import "errors"

// Errors shared by the service and its transports.
var (
	// ErrNotStarted is returned by operations that need the worker pool.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidRequest is returned for unusable report windows.
	ErrInvalidRequest = errors.New("invalid report request")
	// ErrBackpressure is returned when the report queue cannot take more jobs.
	ErrBackpressure = errors.New("report queue is full")
	// ErrJobNotFound is returned for unknown or evicted report job ids.
	ErrJobNotFound = errors.New("report job not found")
	// ErrSourceUnavailable wraps data source failures.
	ErrSourceUnavailable = errors.New("data source unavailable")
)

package service

import "github.com/okian/hirefunnel/internal/domain/types"

// Re-exported so callers of the service need not import types for errors.Is.
var (
	ErrNotStarted        = types.ErrNotStarted
	ErrInvalidRequest    = types.ErrInvalidRequest
	ErrBackpressure      = types.ErrBackpressure
	ErrJobNotFound       = types.ErrJobNotFound
	ErrSourceUnavailable = types.ErrSourceUnavailable
)

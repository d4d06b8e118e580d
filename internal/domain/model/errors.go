package model

import "errors"

// Sentinel kinds for record validation errors.
var (
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrUnknownStage       = errors.New("unknown stage")
	ErrUnknownCostKind    = errors.New("unknown cost kind")
	ErrUnknownTermination = errors.New("unknown termination type")
	ErrUnknownSurveyKind  = errors.New("unknown survey kind")
	ErrInvalidWindow      = errors.New("invalid window")
	ErrNonFiniteNumber    = errors.New("non-finite number")
)

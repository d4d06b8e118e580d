package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound        = errors.New("report job not found")
	ErrInvalidSnapshot = errors.New("invalid snapshot document")
	ErrSourceQuery     = errors.New("snapshot query failed")
)

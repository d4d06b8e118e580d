// Package sampledata generates deterministic synthetic recruitment records
// for demos, load tests and the file data source.
package sampledata

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
)

// ErrInvalidConfig is returned for unusable generator settings.
var ErrInvalidConfig = errors.New("invalid generator config")

// Config holds configuration for the generator.
type Config struct {
	Seed             uint64       // Same seed, same snapshot
	Window           model.Window // Jobs are posted inside this window
	Jobs             int          // Number of openings
	ApplicantsPerJob int          // Upper bound of applicants per opening
	Channels         []string     // Sourcing channels applications come from
}

// DefaultConfig returns a half-year of data across four channels.
func DefaultConfig() Config {
	return Config{
		Seed: defaultSeed,
		Window: model.Window{
			From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		Jobs:             defaultJobs,
		ApplicantsPerJob: defaultApplicantsPerJob,
		Channels:         []string{"linkedin", "referral", "indeed", "careers-site"},
	}
}

// Validate reports whether the generator can run with c.
func (c Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.Jobs < 1:
		return fmt.Errorf("%w: jobs must be positive", ErrInvalidConfig)
	case c.ApplicantsPerJob < 1:
		return fmt.Errorf("%w: applicants per job must be positive", ErrInvalidConfig)
	case len(c.Channels) == 0:
		return fmt.Errorf("%w: at least one channel is required", ErrInvalidConfig)
	}
	return nil
}

// Package smoke drives a running hirefunnel service end to end: it submits
// report jobs concurrently, polls them to completion and verifies the
// deduplication and lifecycle guarantees of the API.
package smoke

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
)

// ErrInvalidConfig is returned for unusable smoke test settings.
var ErrInvalidConfig = errors.New("invalid smoke config")

// Config holds configuration for the smoke test.
type Config struct {
	BaseURL        string        // Base URL of the service
	RunID          string        // Prefix of every request id; unique per run
	Requests       int           // Number of distinct report requests
	DuplicateEvery int           // Resubmit every Nth request; 0 disables
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	PollInterval   time.Duration // Delay between job status polls
	Window         model.Window  // Monthly windows are cut from this range
	Verbose        bool          // Log every submission
}

// Validate reports whether the smoke test can run with c.
func (c *Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.RunID == "":
		return fmt.Errorf("%w: run id is required", ErrInvalidConfig)
	case c.Requests < 1:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.DuplicateEvery < 0:
		return fmt.Errorf("%w: duplicate interval must not be negative", ErrInvalidConfig)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// Request is the body of POST /reports.
type Request struct {
	RequestID string      `json:"request_id"`
	Current   WindowParam `json:"current"`
}

// WindowParam carries window bounds as calendar dates.
type WindowParam struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AckResponse represents the response from report submission.
type AckResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// JobResponse is the subset of GET /reports/{id} the smoke test inspects.
type JobResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Report *ReportResponse `json:"report"`
}

// ReportResponse is the subset of a funnel report the smoke test inspects.
type ReportResponse struct {
	Window model.Window `json:"window"`
}

// Stats holds test statistics.
type Stats struct {
	RequestsGenerated int
	Submitted         int
	Accepted          int
	Duplicate         int
	Rejected          int // 429 backpressure
	Failed            int
	JobsDone          int
	JobsFailed        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/report"
)

// JobStatus is the lifecycle state of an asynchronous report job.
type JobStatus string

// Job statuses.
const (
	StatusPending JobStatus = "pending"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

// ReportRequest asks for a report over Current compared with Previous.
// A zero Previous means the window of equal length right before Current.
type ReportRequest struct {
	RequestID string
	Current   model.Window
	Previous  model.Window
}

// Resolve fills in a zero Previous window.
func (r ReportRequest) Resolve() ReportRequest {
	if r.Previous.From.IsZero() && r.Previous.To.IsZero() {
		r.Previous = r.Current.Previous()
	}
	return r
}

// ReportJob tracks one asynchronous report build.
type ReportJob struct {
	ID          string         `json:"id"`
	RequestID   string         `json:"request_id,omitempty"`
	Status      JobStatus      `json:"status"`
	Current     model.Window   `json:"current"`
	Previous    model.Window   `json:"previous"`
	Report      *report.Report `json:"report,omitempty"`
	Error       string         `json:"error,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	CompletedAt time.Time      `json:"completed_at,omitzero"`
}

// Request returns the report request this job was created from.
func (j ReportJob) Request() ReportRequest {
	return ReportRequest{RequestID: j.RequestID, Current: j.Current, Previous: j.Previous}
}

// Submission is the outcome of an asynchronous report request.
type Submission struct {
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// Package model contains the recruitment records consumed by the metrics
// engine. Records are read-only inputs; nothing in the engine mutates them.
// Optional timestamps are the zero time.Time when absent.
package model

import "time"

// Job is an open requisition.
type Job struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	PostedAt time.Time `json:"posted_at"`
	ClosedAt time.Time `json:"closed_at,omitzero"`
	HiredAt  time.Time `json:"hired_at,omitzero"`
}

// OpenAt reports whether the job is still unfilled at t.
func (j Job) OpenAt(t time.Time) bool {
	if j.PostedAt.IsZero() || j.PostedAt.After(t) {
		return false
	}
	if !j.ClosedAt.IsZero() && !j.ClosedAt.After(t) {
		return false
	}
	if !j.HiredAt.IsZero() && !j.HiredAt.After(t) {
		return false
	}
	return true
}

// Application is a candidate's application to a job.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CandidateID string    `json:"candidate_id"`
	Source      string    `json:"source"`
	StartedAt   time.Time `json:"started_at"`
	SubmittedAt time.Time `json:"submitted_at,omitzero"`
	AppliedAt   time.Time `json:"applied_at"`
	Stage       Stage     `json:"stage"`
}

// Submitted reports whether the application form was completed.
func (a Application) Submitted() bool { return !a.SubmittedAt.IsZero() }

// StageEvent is one entry of the append-only stage transition log.
type StageEvent struct {
	AppID string    `json:"app_id"`
	Stage Stage     `json:"stage"`
	At    time.Time `json:"at"`
}

// Offer is an offer extended to an application.
type Offer struct {
	ID         string    `json:"id"`
	AppID      string    `json:"app_id"`
	OfferedAt  time.Time `json:"offered_at"`
	AcceptedAt time.Time `json:"accepted_at,omitzero"`
	RejectedAt time.Time `json:"rejected_at,omitzero"`
}

// Accepted reports whether the candidate accepted the offer.
func (o Offer) Accepted() bool { return !o.AcceptedAt.IsZero() }

// Hire records an accepted offer turned into employment.
type Hire struct {
	ID        string    `json:"id"`
	AppID     string    `json:"app_id"`
	HiredAt   time.Time `json:"hired_at"`
	StartDate time.Time `json:"start_date,omitzero"`
}

// Started returns the employment start, falling back to the hire date.
func (h Hire) Started() time.Time {
	if !h.StartDate.IsZero() {
		return h.StartDate
	}
	return h.HiredAt
}

// Termination records the end of an employment.
type Termination struct {
	ID     string          `json:"id"`
	HireID string          `json:"hire_id"`
	Type   TerminationType `json:"type"`
	At     time.Time       `json:"at"`
}

// ChannelStat is a periodic aggregate of a sourcing channel's reach and spend.
// Channel joins to Application.Source.
type ChannelStat struct {
	Channel     string  `json:"channel"`
	Impressions int     `json:"impressions"`
	Spend       float64 `json:"spend"`
}

// CostItem is a periodic cost aggregate.
type CostItem struct {
	Kind   CostKind `json:"kind"`
	Amount float64  `json:"amount"`
	Period Window   `json:"period"`
}

// SurveyScore is an externally collected satisfaction score.
type SurveyScore struct {
	Kind  SurveyKind `json:"kind"`
	Score float64    `json:"score"`
	At    time.Time  `json:"at"`
}

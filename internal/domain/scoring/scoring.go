// Package scoring computes candidate/job fit scores.
//
// A remote scorer is tried first; on any failure the FallbackScorer answers
// with the deterministic LocalScorer and labels the result's provenance.
package scoring

import (
	"context"
)

// Provenance tells where a fit score came from.
type Provenance string

// Provenance values.
const (
	ProvenanceAI       Provenance = "ai"
	ProvenanceFallback Provenance = "fallback"
)

// FallbackNote is attached to every result computed by the local scorer
// on behalf of an unavailable remote scorer.
const FallbackNote = "computed by fallback method"

const (
	minScore = 0
	maxScore = 100
)

// CandidateProfile is the candidate side of a fit comparison.
type CandidateProfile struct {
	ID              string   `json:"id"`
	Skills          []string `json:"skills"`
	YearsExperience float64  `json:"years_experience"`
}

// JobProfile is the job side of a fit comparison.
type JobProfile struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills"`
	MinYearsExperience float64  `json:"min_years_experience"`
}

// Result is a 0-100 suitability score with its rationale.
type Result struct {
	Score      float64    `json:"score"`
	Rationale  string     `json:"rationale"`
	Provenance Provenance `json:"provenance"`
	Note       string     `json:"note,omitempty"`
}

// Scorer computes a fit score, honoring ctx for cancellation.
type Scorer interface {
	Score(ctx context.Context, candidate CandidateProfile, job JobProfile) (Result, error)
}

package scoring

import (
	"context"
	"fmt"
)

// FallbackOption configures a FallbackScorer.
type FallbackOption func(*FallbackScorer)

// WithOnFallback registers a hook called with the primary scorer's error
// each time the fallback answers.
func WithOnFallback(fn func(error)) FallbackOption {
	return func(s *FallbackScorer) {
		if fn != nil {
			s.onFallback = fn
		}
	}
}

// FallbackScorer tries primary and answers with the local scorer when it
// fails or is not configured. Only ctx cancellation is returned as an error.
type FallbackScorer struct {
	primary    Scorer
	local      *LocalScorer
	onFallback func(error)
}

var _ Scorer = (*FallbackScorer)(nil)

// NewFallbackScorer wraps primary, which may be nil.
func NewFallbackScorer(primary Scorer, local *LocalScorer, opts ...FallbackOption) *FallbackScorer {
	if local == nil {
		local = NewLocalScorer()
	}
	s := &FallbackScorer{
		primary:    primary,
		local:      local,
		onFallback: func(error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the primary score, or the local score labelled as fallback.
func (s *FallbackScorer) Score(ctx context.Context, candidate CandidateProfile, job JobProfile) (Result, error) {
	if s.primary != nil {
		res, err := s.primary.Score(ctx, candidate, job)
		if err == nil {
			res.Provenance = ProvenanceAI
			return res, nil
		}
		if ctx.Err() != nil {
			return Result{}, fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		s.onFallback(err)
	} else {
		s.onFallback(ErrScorerUnavailable)
	}

	res, err := s.local.Score(ctx, candidate, job)
	if err != nil {
		return Result{}, err
	}
	res.Provenance = ProvenanceFallback
	res.Note = FallbackNote
	return res, nil
}

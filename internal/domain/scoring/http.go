package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultHTTPTimeout = 2 * time.Second
	defaultMaxTries    = 2
	retryInterval      = 100 * time.Millisecond
)

// HTTPOption configures an HTTPScorer.
type HTTPOption func(*HTTPScorer)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) HTTPOption {
	return func(s *HTTPScorer) {
		s.apiKey = key
	}
}

// WithTimeout bounds a single scoring call.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPScorer) {
		if d > 0 {
			s.http.Timeout = d
		}
	}
}

// WithMaxTries sets how many attempts a score request gets. Client errors
// and invalid scores are never retried.
func WithMaxTries(n uint) HTTPOption {
	return func(s *HTTPScorer) {
		if n > 0 {
			s.maxTries = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPScorer) {
		if c != nil {
			s.http = c
		}
	}
}

// HTTPScorer talks to an external fit-scoring service.
type HTTPScorer struct {
	endpoint string
	apiKey   string
	maxTries uint
	http     *http.Client
}

var _ Scorer = (*HTTPScorer)(nil)

// NewHTTPScorer creates a reusable remote scorer posting to endpoint.
func NewHTTPScorer(endpoint string, opts ...HTTPOption) *HTTPScorer {
	s := &HTTPScorer{
		endpoint: endpoint,
		maxTries: defaultMaxTries,
		http:     &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type scoreRequest struct {
	Candidate CandidateProfile `json:"candidate"`
	Job       JobProfile       `json:"job"`
}

type scoreResponse struct {
	Score     *float64 `json:"score"`
	Rationale string   `json:"rationale"`
}

// Score asks the remote service for a fit score, retrying transient failures.
func (s *HTTPScorer) Score(ctx context.Context, candidate CandidateProfile, job JobProfile) (Result, error) {
	if s.endpoint == "" {
		return Result{}, ErrScorerUnavailable
	}

	body, err := json.Marshal(scoreRequest{Candidate: candidate, Job: job})
	if err != nil {
		return Result{}, fmt.Errorf("marshal payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInterval
	return backoff.Retry(ctx, func() (Result, error) {
		return s.post(ctx, body)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries))
}

func (s *HTTPScorer) post(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, backoff.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: do request: %w", ErrScorerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: unexpected status %s", ErrScorerUnavailable, resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return Result{}, backoff.Permanent(err)
		}
		return Result{}, err
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	if out.Score == nil || *out.Score < minScore || *out.Score > maxScore {
		return Result{}, backoff.Permanent(ErrInvalidScore)
	}

	return Result{
		Score:      *out.Score,
		Rationale:  out.Rationale,
		Provenance: ProvenanceAI,
	}, nil
}

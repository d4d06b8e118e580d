// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	reportqueue "github.com/okian/hirefunnel/internal/adapters/mq/queue"
	workerpool "github.com/okian/hirefunnel/internal/adapters/mq/worker"
	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/dedupe"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/report"
	"github.com/okian/hirefunnel/internal/domain/scoring"
	"github.com/okian/hirefunnel/internal/domain/types"
	"github.com/okian/hirefunnel/pkg/logger"
	"github.com/okian/hirefunnel/pkg/metrics"
)

const (
	defaultQueueSize       = 1_000
	defaultDedupeSize      = 10_000
	defaultReportCacheSize = 1_000
	defaultScorerTimeout   = 2 * time.Second

	modeSync  = "sync"
	modeAsync = "async"
)

// jobNamespace derives stable job ids from client request ids.
var jobNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hirefunnel/report-jobs"))

// asyncBuilder adapts the service to worker.Builder so queued jobs are
// recorded under the async mode.
type asyncBuilder struct {
	s *Service
}

func (a asyncBuilder) BuildReport(ctx context.Context, req types.ReportRequest) (report.Report, error) {
	return a.s.buildReport(ctx, req, modeAsync)
}

// Service implements the API dependencies for the recruitment metrics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	source  repository.Source
	store   repository.ReportStore
	deduper dedupe.Deduper
	queue   reportqueue.Queue
	scorer  scoring.Scorer
	pool    *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	reportCacheSize int
	skillWeights    map[string]float64
	defaultWeight   float64
	scorerEndpoint  string
	scorerAPIKey    string
	scorerTimeout   time.Duration
	primary         scoring.Scorer

	// State
	started bool
	now     func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of report workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the report queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered for idempotency.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithReportCacheSize sets how many report jobs are retained.
func WithReportCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.reportCacheSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets the data source snapshots are read from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSkillWeights sets the skill weights for local fit scoring.
func WithSkillWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.skillWeights = weights
	}
}

// WithDefaultSkillWeight sets the weight of skills missing from the weights map.
func WithDefaultSkillWeight(weight float64) Option {
	return func(s *Service) {
		if weight > 0 {
			s.defaultWeight = weight
		}
	}
}

// WithRemoteScorer configures the HTTP fit scorer.
func WithRemoteScorer(endpoint, apiKey string, timeout time.Duration) Option {
	return func(s *Service) {
		s.scorerEndpoint = endpoint
		s.scorerAPIKey = apiKey
		if timeout > 0 {
			s.scorerTimeout = timeout
		}
	}
}

// WithScorer sets the primary fit scorer, taking precedence over
// WithRemoteScorer. The local scorer still answers when it fails.
func WithScorer(primary scoring.Scorer) Option {
	return func(s *Service) {
		s.primary = primary
	}
}

// WithClock overrides the time source for job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration. Without
// WithSource it reads from an empty in-memory source.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		reportCacheSize: defaultReportCacheSize,
		defaultWeight:   1,
		scorerTimeout:   defaultScorerTimeout,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		s.source = repository.NewMemorySource(model.Snapshot{})
	}
	s.scorer = s.newScorer()

	return s
}

func (s *Service) newScorer() scoring.Scorer {
	primary := s.primary
	if primary == nil && s.scorerEndpoint != "" {
		primary = scoring.NewHTTPScorer(s.scorerEndpoint,
			scoring.WithAPIKey(s.scorerAPIKey),
			scoring.WithTimeout(s.scorerTimeout),
		)
	}
	local := scoring.NewLocalScorer(
		scoring.WithSkillWeightsFromConfig(s.skillWeights, s.defaultWeight),
	)

	if primary == nil {
		return scoring.NewFallbackScorer(nil, local)
	}
	return scoring.NewFallbackScorer(primary, local, scoring.WithOnFallback(func(err error) {
		metrics.RecordScorerError()
		s.logger.Warn(context.Background(), "fit scorer failed, answering with fallback",
			logger.Error(err))
	}))
}

// Start initializes the asynchronous pipeline and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting report service...")

	s.store = repository.NewMemoryReportStore(
		repository.WithMaxReports(s.reportCacheSize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = reportqueue.NewInMemoryQueue(
		reportqueue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, asyncBuilder{s: s}, s.store,
		workerpool.WithClock(s.now),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "report service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("source", s.source.Name()),
	)

	return nil
}

// Stop closes the queue and waits for the workers to drain it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping report service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "report service stopped")
}

// BuildReport computes the report for req synchronously.
func (s *Service) BuildReport(ctx context.Context, req types.ReportRequest) (report.Report, error) {
	return s.buildReport(ctx, req, modeSync)
}

func (s *Service) buildReport(ctx context.Context, req types.ReportRequest, mode string) (report.Report, error) {
	start := time.Now()

	req = req.Resolve()
	if err := validateRequest(req); err != nil {
		metrics.RecordReportFailure("validate")
		return report.Report{}, err
	}

	var cur, prev model.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.fetch(gctx, req.Current)
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = s.fetch(gctx, req.Previous)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordReportFailure("fetch")
		return report.Report{}, err
	}

	rep := report.Build(cur, prev)
	s.observe(ctx, rep, mode, time.Since(start))
	return rep, nil
}

func (s *Service) fetch(ctx context.Context, w model.Window) (model.Snapshot, error) {
	start := time.Now()
	snap, err := s.source.Snapshot(ctx, w)
	metrics.RecordSourceFetch(s.source.Name(), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.source.Name(), err)
	}
	return snap, nil
}

func (s *Service) observe(ctx context.Context, rep report.Report, mode string, took time.Duration) { //nolint:gocritic // hugeParam: report is read once after build
	metrics.RecordReportBuilt(mode, float64(took.Milliseconds()))
	for kind, n := range rep.Diagnostics.Orphans {
		metrics.RecordOrphans(kind, n)
	}
	for _, a := range rep.Diagnostics.Anomalies {
		metrics.RecordAnomaly(a.Metric)
	}

	if rep.Diagnostics.Skipped > 0 {
		s.logger.Warn(ctx, "skipped orphan records",
			logger.Int("skipped", rep.Diagnostics.Skipped),
			logger.Any("orphans", rep.Diagnostics.Orphans),
		)
	}
	if rep.Diagnostics.NonFinite > 0 {
		s.logger.Warn(ctx, "dropped records with non-finite numbers",
			logger.Int("nonFinite", rep.Diagnostics.NonFinite),
		)
	}
	s.logger.Debug(ctx, "report built",
		logger.String("mode", mode),
		logger.String("from", rep.Window.From.Format(time.RFC3339)),
		logger.String("to", rep.Window.To.Format(time.RFC3339)),
		logger.Int("anomalies", len(rep.Diagnostics.Anomalies)),
		logger.Duration("took", took),
	)
}

func validateRequest(req types.ReportRequest) error {
	if err := req.Current.Validate(); err != nil {
		return fmt.Errorf("%w: current: %w", ErrInvalidRequest, err)
	}
	if err := req.Previous.Validate(); err != nil {
		return fmt.Errorf("%w: previous: %w", ErrInvalidRequest, err)
	}
	return nil
}

// jobID is stable for a request id so retried submissions land on the
// same job.
func jobID(requestID string) string {
	if requestID == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(jobNamespace, []byte(requestID)).String()
}

// SubmitReport enqueues req for asynchronous building. A request id that was
// already accepted returns the existing job with Duplicate set. A full queue
// returns ErrBackpressure and forgets the request id so the client can retry.
func (s *Service) SubmitReport(ctx context.Context, req types.ReportRequest) (types.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.Submission{}, ErrNotStarted
	}

	req = req.Resolve()
	if err := validateRequest(req); err != nil {
		return types.Submission{}, err
	}

	id := jobID(req.RequestID)
	if req.RequestID != "" && s.deduper.SeenAndRecord(ctx, req.RequestID) {
		metrics.RecordDuplicateReport()
		s.logger.Debug(ctx, "duplicate report request",
			logger.String("requestID", req.RequestID),
			logger.String("jobID", id),
		)
		return types.Submission{JobID: id, Duplicate: true}, nil
	}

	job := types.ReportJob{
		ID:          id,
		RequestID:   req.RequestID,
		Status:      types.StatusPending,
		Current:     req.Current,
		Previous:    req.Previous,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.store.Put(ctx, job); err != nil {
		s.forget(ctx, req.RequestID)
		return types.Submission{}, fmt.Errorf("store job: %w", err)
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.forget(ctx, req.RequestID)
		job.Status = types.StatusFailed
		job.Error = err.Error()
		job.CompletedAt = s.now().UTC()
		if perr := s.store.Put(ctx, job); perr != nil {
			s.logger.Warn(ctx, "failed to store rejected job", logger.Error(perr))
		}

		switch {
		case errors.Is(err, reportqueue.ErrFull):
			s.logger.Warn(ctx, "report queue full", logger.Int("capacity", s.queue.Cap()))
			return types.Submission{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		case errors.Is(err, reportqueue.ErrClosed):
			return types.Submission{}, fmt.Errorf("%w: %w", ErrNotStarted, err)
		default:
			return types.Submission{}, fmt.Errorf("enqueue job: %w", err)
		}
	}

	s.logger.Debug(ctx, "report job queued", logger.String("jobID", id))
	return types.Submission{JobID: id}, nil
}

func (s *Service) forget(ctx context.Context, requestID string) {
	if requestID != "" {
		s.deduper.Unrecord(ctx, requestID)
	}
}

// Report returns the job with the given id.
func (s *Service) Report(ctx context.Context, id string) (types.ReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.ReportJob{}, ErrNotStarted
	}

	job, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return types.ReportJob{}, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return types.ReportJob{}, err
	}
	return job, nil
}

// FitScore scores candidate against job. Remote failures are answered by
// the local scorer; only ctx cancellation is returned as an error.
func (s *Service) FitScore(ctx context.Context, candidate scoring.CandidateProfile, job scoring.JobProfile) (scoring.Result, error) {
	start := time.Now()
	res, err := s.scorer.Score(ctx, candidate, job)
	if err != nil {
		return scoring.Result{}, err
	}
	metrics.RecordFitScore(string(res.Provenance), float64(time.Since(start).Milliseconds()))
	return res, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"reportCacheSize": s.reportCacheSize,
		"dataSource":      s.source.Name(),
		"remoteScorer":    s.primary != nil || s.scorerEndpoint != "",
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stored := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["storedReports"] = stored
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoredReports(stored)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	return stats
}

package repository

import (
	"container/list"
	"context"
	"sync"

	"github.com/okian/hirefunnel/internal/domain/types"
	"github.com/okian/hirefunnel/pkg/metrics"
)

const defaultMaxReports = 1_000

// ReportStore keeps asynchronous report jobs and their results.
type ReportStore interface {
	// Put inserts or replaces the job with job.ID.
	Put(ctx context.Context, job types.ReportJob) error
	// Get returns the job with id, or ErrNotFound.
	Get(ctx context.Context, id string) (types.ReportJob, error)
	// Count returns the number of jobs held.
	Count(ctx context.Context) int
}

// MemoryReportStore is a bounded in-memory ReportStore. When full, the
// oldest inserted job is dropped; replacing a job keeps its position.
type MemoryReportStore struct {
	mu         sync.RWMutex
	jobs       map[string]*list.Element
	order      *list.List // of types.ReportJob, front = oldest
	maxReports int
}

var _ ReportStore = (*MemoryReportStore)(nil)

// NewMemoryReportStore creates a store with configuration options.
func NewMemoryReportStore(opts ...Option) *MemoryReportStore {
	s := &MemoryReportStore{
		jobs:       make(map[string]*list.Element),
		order:      list.New(),
		maxReports: defaultMaxReports,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements ReportStore.
func (s *MemoryReportStore) Put(_ context.Context, job types.ReportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.jobs[job.ID]; ok {
		el.Value = job
		return nil
	}
	if s.maxReports > 0 && len(s.jobs) >= s.maxReports {
		if front := s.order.Front(); front != nil {
			s.order.Remove(front)
			delete(s.jobs, front.Value.(types.ReportJob).ID) //nolint:forcetypeassert // list only holds jobs
		}
	}
	s.jobs[job.ID] = s.order.PushBack(job)
	metrics.UpdateStoredReports(len(s.jobs))
	return nil
}

// Get implements ReportStore.
func (s *MemoryReportStore) Get(_ context.Context, id string) (types.ReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.jobs[id]
	if !ok {
		return types.ReportJob{}, ErrNotFound
	}
	return el.Value.(types.ReportJob), nil //nolint:forcetypeassert // list only holds jobs
}

// Count implements ReportStore.
func (s *MemoryReportStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

package repository

import (
	"context"
	"sync"

	"github.com/okian/hirefunnel/internal/domain/model"
)

// MemorySource serves snapshots from records held in memory.
type MemorySource struct {
	mu  sync.RWMutex
	all model.Snapshot
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource creates a source over all. The caller must not modify
// all afterwards; use Replace to swap the data set.
func NewMemorySource(all model.Snapshot) *MemorySource {
	return &MemorySource{all: all}
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// Replace swaps the underlying data set.
func (s *MemorySource) Replace(all model.Snapshot) {
	s.mu.Lock()
	s.all = all
	s.mu.Unlock()
}

// Snapshot implements Source.
func (s *MemorySource) Snapshot(ctx context.Context, w model.Window) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterSnapshot(s.all, w), nil
}

package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
	"github.com/okian/hirefunnel/pkg/metrics"
)

// FileSource serves snapshots from a YAML snapshot document. The document is
// re-read when its modification time changes.
type FileSource struct {
	path string
	log  logger.Logger

	mu      sync.Mutex
	modTime time.Time
	cached  *MemorySource
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, log: logger.Named("file-source")}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Snapshot implements Source.
func (s *FileSource) Snapshot(ctx context.Context, w model.Window) (model.Snapshot, error) {
	src, err := s.load()
	if err != nil {
		return model.Snapshot{}, err
	}
	return src.Snapshot(ctx, w)
}

func (s *FileSource) load() (*MemorySource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot file: %w", err)
	}
	if s.cached != nil && info.ModTime().Equal(s.modTime) {
		return s.cached, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }()

	all, issues, err := DecodeSnapshot(f)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		metrics.RecordRejectedRecords(s.Name(), len(issues))
		for _, issue := range issues {
			s.log.Warn(context.Background(), "snapshot record degraded",
				logger.String("path", s.path), logger.Error(issue))
		}
	}
	s.log.Info(context.Background(), "snapshot file loaded",
		logger.String("path", s.path),
		logger.Int("applications", len(all.Applications)),
		logger.Int("issues", len(issues)))

	s.cached = NewMemorySource(all)
	s.modTime = info.ModTime()
	return s.cached, nil
}

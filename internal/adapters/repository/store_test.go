package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/hirefunnel/internal/domain/types"
)

func TestMemoryReportStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	job := types.ReportJob{ID: "job-1", RequestID: "req-1", Status: types.StatusPending}
	if err := store.Put(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.StatusPending || got.RequestID != "req-1" {
		t.Errorf("unexpected job %+v", got)
	}

	job.Status = types.StatusDone
	if err := store.Put(ctx, job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = store.Get(ctx, "job-1")
	if got.Status != types.StatusDone {
		t.Errorf("expected status done, got %s", got.Status)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after replace, got %d", count)
	}
}

func TestMemoryReportStore_Eviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore(WithMaxReports(2))

	for i := 1; i <= 3; i++ {
		if err := store.Put(ctx, types.ReportJob{ID: fmt.Sprintf("job-%d", i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if count := store.Count(ctx); count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if _, err := store.Get(ctx, "job-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected oldest job to be evicted, got %v", err)
	}
	for _, id := range []string{"job-2", "job-3"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("expected %s to be kept: %v", id, err)
		}
	}
}

func TestMemoryReportStore_ReplaceKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore(WithMaxReports(2))

	_ = store.Put(ctx, types.ReportJob{ID: "a"})
	_ = store.Put(ctx, types.ReportJob{ID: "b"})
	_ = store.Put(ctx, types.ReportJob{ID: "a", Status: types.StatusDone})
	_ = store.Put(ctx, types.ReportJob{ID: "c"})

	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected a to be evicted as the oldest insert, got %v", err)
	}
	if _, err := store.Get(ctx, "b"); err != nil {
		t.Errorf("expected b to be kept: %v", err)
	}
}

func TestMemoryReportStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryReportStore(WithMaxReports(0))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("job-%d-%d", g, i)
				_ = store.Put(ctx, types.ReportJob{ID: id})
				if _, err := store.Get(ctx, id); err != nil {
					t.Errorf("get %s: %v", id, err)
				}
			}
		}(g)
	}
	wg.Wait()

	if count := store.Count(ctx); count != 400 {
		t.Errorf("expected 400 jobs, got %d", count)
	}
}

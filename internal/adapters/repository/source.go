// Package repository provides the snapshot data sources and the report job store.
package repository

import (
	"context"

	"github.com/okian/hirefunnel/internal/domain/model"
)

// Source provides the records of one reporting window.
//
// A snapshot holds the records that happened inside the window plus the
// records they reference (the application behind a hire, the job behind an
// application, the terminations of a hire), so that window boundaries do not
// show up as orphans.
type Source interface {
	// Name labels the source in logs and metrics.
	Name() string
	// Snapshot returns the window's records. The result is owned by the caller.
	Snapshot(ctx context.Context, w model.Window) (model.Snapshot, error)
}

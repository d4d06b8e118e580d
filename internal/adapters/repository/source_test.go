package repository_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func TestFilterSnapshot(t *testing.T) {
	Convey("Given records spanning three months", t, func() {
		all := sampleRecords()

		Convey("When filtering to March", func() {
			snap := repository.FilterSnapshot(all, march)

			Convey("Then window records and their references should be kept", func() {
				So(snap.Window, ShouldResemble, march)
				So(ids(snap.Hires, func(h model.Hire) string { return h.ID }), ShouldResemble, []string{"h-1"})
				So(snap.Offers, ShouldBeEmpty)
				So(ids(snap.Applications, func(a model.Application) string { return a.ID }),
					ShouldResemble, []string{"a-old", "a-mar"})
				So(snap.StageEvents, ShouldHaveLength, 2)
				So(ids(snap.Jobs, func(j model.Job) string { return j.ID }), ShouldResemble, []string{"j-old", "j-open"})
				So(ids(snap.Terminations, func(t model.Termination) string { return t.ID }), ShouldResemble, []string{"t-1"})
				So(snap.Costs, ShouldHaveLength, 1)
				So(snap.Costs[0].Kind, ShouldEqual, model.CostExternal)
				So(snap.Surveys, ShouldHaveLength, 1)
				So(snap.Channels, ShouldHaveLength, 1)
			})

			Convey("And the input should not be modified", func() {
				So(all, ShouldResemble, sampleRecords())
			})
		})
	})
}

func TestMemorySource(t *testing.T) {
	Convey("Given a memory source", t, func() {
		src := repository.NewMemorySource(sampleRecords())

		Convey("When a snapshot is requested", func() {
			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then it should be the filtered window", func() {
				So(err, ShouldBeNil)
				So(src.Name(), ShouldEqual, "memory")
				So(snap.Applications, ShouldHaveLength, 2)
			})
		})

		Convey("When the data set is replaced", func() {
			src.Replace(model.Snapshot{})
			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then the new data should be served", func() {
				So(err, ShouldBeNil)
				So(snap.Applications, ShouldBeEmpty)
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := src.Snapshot(ctx, march)

			Convey("Then the error should surface", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestSnapshotYAML(t *testing.T) {
	Convey("Given a snapshot encoded as YAML", t, func() {
		var buf bytes.Buffer
		So(repository.EncodeSnapshot(&buf, sampleRecords()), ShouldBeNil)

		Convey("When it is decoded", func() {
			snap, issues, err := repository.DecodeSnapshot(&buf)

			Convey("Then every record should come back unchanged", func() {
				So(err, ShouldBeNil)
				So(issues, ShouldBeEmpty)
				So(snap, ShouldResemble, sampleRecords())
			})
		})
	})

	Convey("Given a document with malformed records", t, func() {
		doc := `
jobs:
  - id: j1
    title: Engineer
    posted_at: 2024-03-01
    closed_at: not-a-date
  - id: j2
    posted_at: yesterday
applications:
  - id: a1
    job_id: j1
    applied_at: 2024-03-02T10:00:00Z
    stage: Teleported
  - id: a2
    job_id: j1
    applied_at: 2024-03-02T10:00:00+02:00
    stage: screen
costs:
  - kind: bribes
    amount: 10
    from: 2024-03-01
    to: 2024-04-01
`
		snap, issues, err := repository.DecodeSnapshot(strings.NewReader(doc))

		Convey("Then bad required fields should drop the record", func() {
			So(err, ShouldBeNil)
			So(snap.Jobs, ShouldHaveLength, 1)
			So(snap.Applications, ShouldHaveLength, 1)
			So(snap.Costs, ShouldBeEmpty)
		})

		Convey("And bad optional timestamps should be cleared", func() {
			So(snap.Jobs[0].ClosedAt.IsZero(), ShouldBeTrue)
		})

		Convey("And timestamps should be normalized to UTC", func() {
			So(snap.Applications[0].AppliedAt.Equal(day("2024-03-02").Add(8*time.Hour)), ShouldBeTrue)
			So(snap.Applications[0].Stage, ShouldEqual, model.StageScreen)
		})

		Convey("And every problem should be reported", func() {
			So(issues, ShouldHaveLength, 4)
			So(errors.Is(issues[0], model.ErrInvalidTimestamp), ShouldBeTrue)
			So(issues[0].Error(), ShouldContainSubstring, "jobs[0]")
		})
	})

	Convey("Given a document with non-finite numbers", t, func() {
		doc := `
channels:
  - channel: web
    impressions: 100
    spend: .inf
  - channel: referral
    impressions: 50
    spend: 200
costs:
  - kind: training
    amount: .nan
    from: 2024-01-01
    to: 2024-01-31
  - kind: onboarding
    amount: 300
    from: 2024-01-01
    to: 2024-01-31
surveys:
  - kind: newHire
    score: -.inf
    at: 2024-01-10
`
		snap, issues, err := repository.DecodeSnapshot(strings.NewReader(doc))

		Convey("Then those records should be dropped", func() {
			So(err, ShouldBeNil)
			So(ids(snap.Channels, func(c model.ChannelStat) string { return c.Channel }), ShouldResemble, []string{"referral"})
			So(snap.Costs, ShouldHaveLength, 1)
			So(snap.Costs[0].Kind, ShouldEqual, model.CostOnboarding)
			So(snap.Surveys, ShouldBeEmpty)
		})

		Convey("And each should be reported as an issue", func() {
			So(issues, ShouldHaveLength, 3)
			for _, issue := range issues {
				So(errors.Is(issue, model.ErrNonFiniteNumber), ShouldBeTrue)
			}
			So(issues[1].Error(), ShouldContainSubstring, "costs[0]")
		})
	})

	Convey("Given a document that is not YAML", t, func() {
		_, _, err := repository.DecodeSnapshot(strings.NewReader("jobs: [unterminated"))

		Convey("Then decoding should fail", func() {
			So(errors.Is(err, repository.ErrInvalidSnapshot), ShouldBeTrue)
		})
	})
}

func TestFileSource(t *testing.T) {
	_ = logger.Init()

	Convey("Given a snapshot file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "snapshot.yaml")
		f, err := os.Create(path)
		So(err, ShouldBeNil)
		So(repository.EncodeSnapshot(f, sampleRecords()), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		src := repository.NewFileSource(path)

		Convey("When a snapshot is requested", func() {
			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then it should be filtered like the memory source", func() {
				So(err, ShouldBeNil)
				So(src.Name(), ShouldEqual, "file")
				So(snap, ShouldResemble, repository.FilterSnapshot(sampleRecords(), march))
			})
		})
	})

	Convey("Given a missing snapshot file", t, func() {
		src := repository.NewFileSource(filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := src.Snapshot(context.Background(), march)

		Convey("Then the error should surface", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

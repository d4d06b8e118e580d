package sampledata_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/report"
	"github.com/okian/hirefunnel/internal/sampledata"
	"github.com/okian/hirefunnel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given the default generator config", t, func() {
		ctx := context.Background()
		cfg := sampledata.DefaultConfig()

		snap, err := sampledata.Generate(ctx, cfg)
		So(err, ShouldBeNil)

		Convey("Then it should produce a populated funnel", func() {
			So(len(snap.Jobs), ShouldEqual, cfg.Jobs)
			So(len(snap.Applications), ShouldBeGreaterThanOrEqualTo, cfg.Jobs)
			So(snap.StageEvents, ShouldNotBeEmpty)
			So(snap.Hires, ShouldNotBeEmpty)
			So(len(snap.Channels), ShouldEqual, len(cfg.Channels))
			So(snap.Costs, ShouldNotBeEmpty)
			So(snap.Surveys, ShouldNotBeEmpty)
		})

		Convey("Then the same seed should reproduce the same snapshot", func() {
			again, err := sampledata.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			So(again, ShouldResemble, snap)
		})

		Convey("Then a different seed should change the snapshot", func() {
			cfg.Seed++
			other, err := sampledata.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			So(other, ShouldNotResemble, snap)
		})

		Convey("Then every reference should resolve", func() {
			jobs := map[string]bool{}
			for _, j := range snap.Jobs {
				jobs[j.ID] = true
			}
			apps := map[string]bool{}
			for _, a := range snap.Applications {
				So(jobs[a.JobID], ShouldBeTrue)
				apps[a.ID] = true
			}
			hires := map[string]bool{}
			for _, h := range snap.Hires {
				So(apps[h.AppID], ShouldBeTrue)
				hires[h.ID] = true
			}
			for _, o := range snap.Offers {
				So(apps[o.AppID], ShouldBeTrue)
				So(o.Accepted() && !o.RejectedAt.IsZero(), ShouldBeFalse)
			}
			for _, tm := range snap.Terminations {
				So(hires[tm.HireID], ShouldBeTrue)
			}
		})

		Convey("Then each opening should be filled at most once", func() {
			filled := map[string]int{}
			jobOf := map[string]string{}
			for _, a := range snap.Applications {
				jobOf[a.ID] = a.JobID
			}
			for _, h := range snap.Hires {
				filled[jobOf[h.AppID]]++
			}
			for _, n := range filled {
				So(n, ShouldEqual, 1)
			}
		})

		Convey("Then a report over the whole window should have no orphans", func() {
			rep := report.Build(snap, snap)
			So(rep.Diagnostics.Skipped, ShouldEqual, 0)
			So(rep.Speed.AvgTimeToHire.Available, ShouldBeTrue)
		})

		Convey("Then the YAML encoding should load without issues", func() {
			var buf bytes.Buffer
			So(repository.EncodeSnapshot(&buf, snap), ShouldBeNil)

			decoded, issues, err := repository.DecodeSnapshot(&buf)
			So(err, ShouldBeNil)
			So(issues, ShouldBeEmpty)
			So(len(decoded.Applications), ShouldEqual, len(snap.Applications))
		})
	})

	Convey("Given invalid configs", t, func() {
		ctx := context.Background()

		Convey("Then zero jobs should be rejected", func() {
			cfg := sampledata.DefaultConfig()
			cfg.Jobs = 0
			_, err := sampledata.Generate(ctx, cfg)
			So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then an empty channel list should be rejected", func() {
			cfg := sampledata.DefaultConfig()
			cfg.Channels = nil
			_, err := sampledata.Generate(ctx, cfg)
			So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Then an inverted window should be rejected", func() {
			cfg := sampledata.DefaultConfig()
			cfg.Window.From, cfg.Window.To = cfg.Window.To, cfg.Window.From
			_, err := sampledata.Generate(ctx, cfg)
			So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then generation should stop", func() {
			_, err := sampledata.Generate(ctx, sampledata.DefaultConfig())
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

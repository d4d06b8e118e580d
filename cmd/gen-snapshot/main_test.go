package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/sampledata"
	"github.com/okian/hirefunnel/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRun(t *testing.T) {
	convey.Convey("Given a generator config and an output path", t, func() {
		ctx := context.Background()
		cfg := sampledata.DefaultConfig()
		cfg.Jobs = 5
		out := filepath.Join(t.TempDir(), "snapshot.yaml")

		convey.Convey("When the snapshot is written", func() {
			err := run(ctx, cfg, out)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the file source should load it", func() {
				snap, err := repository.NewFileSource(out).Snapshot(ctx, cfg.Window)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(snap.Jobs), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the config is invalid", func() {
			cfg.Channels = nil
			err := run(ctx, cfg, out)

			convey.Convey("Then nothing should be written", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, statErr := os.Stat(out)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSplitChannels(t *testing.T) {
	convey.Convey("Given a comma separated channel list", t, func() {
		convey.So(splitChannels(" linkedin, ,referral,"), convey.ShouldResemble, []string{"linkedin", "referral"})
		convey.So(splitChannels(""), convey.ShouldBeNil)
	})
}

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/hirefunnel/internal/adapters/http/api"
	"github.com/okian/hirefunnel/internal/adapters/repository"
	app "github.com/okian/hirefunnel/internal/app"
	"github.com/okian/hirefunnel/internal/config"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/sampledata"
	"github.com/okian/hirefunnel/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("HIREFUNNEL_ADDR", ":8080")
			_ = os.Setenv("HIREFUNNEL_QUEUE_SIZE", "1000")
			_ = os.Setenv("HIREFUNNEL_WORKER_COUNT", "4")
			defer func() {
				_ = os.Unsetenv("HIREFUNNEL_ADDR")
				_ = os.Unsetenv("HIREFUNNEL_QUEUE_SIZE")
				_ = os.Unsetenv("HIREFUNNEL_WORKER_COUNT")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When building the service from configuration", func() {
			cfg := config.New()
			cfg.WorkerCount = 3
			cfg.QueueSize = 50

			svc := newService(cfg, repository.NewMemorySource(sampledataSnapshot(t)), logger.Get())

			convey.Convey("Then the options should be applied", func() {
				stats := svc.GetStats()
				convey.So(stats["workerCount"], convey.ShouldEqual, 3)
				convey.So(stats["queueSize"], convey.ShouldEqual, 50)
				convey.So(stats["remoteScorer"], convey.ShouldBeFalse)
			})
		})

		convey.Convey("When serving the router of a started service", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			svc := app.New(app.WithWorkerCount(1))
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			router := api.NewServer(svc, svc).Router()

			convey.Convey("Then the health endpoint should respond", func() {
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestNewSource(t *testing.T) {
	convey.Convey("Given the configured data source", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When it is memory", func() {
			cfg.DataSource = config.SourceMemory
			src, closeSource, err := newSource(ctx, cfg)
			defer closeSource()

			convey.Convey("Then it should be seeded with sample data", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(src.Name(), convey.ShouldEqual, "memory")

				window := sampledata.DefaultConfig().Window
				snap, err := src.Snapshot(ctx, window)
				convey.So(err, convey.ShouldBeNil)
				convey.So(snap.Jobs, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When it is a file", func() {
			cfg.DataSource = config.SourceFile
			cfg.SnapshotPath = filepath.Join(t.TempDir(), "snapshot.yaml")
			src, closeSource, err := newSource(ctx, cfg)
			defer closeSource()

			convey.Convey("Then a file source should be returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(src.Name(), convey.ShouldEqual, "file")
			})
		})

		convey.Convey("When it is unknown", func() {
			cfg.DataSource = "ftp"
			_, closeSource, err := newSource(ctx, cfg)
			defer closeSource()

			convey.Convey("Then an error should be returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("HIREFUNNEL_ADDR", "")
			defer func() { _ = os.Unsetenv("HIREFUNNEL_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with invalid options", func() {
			convey.Convey("Then service should handle invalid options gracefully", func() {
				svc := app.New(
					app.WithWorkerCount(0),
					app.WithQueueSize(0),
					app.WithDedupeSize(0),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it should return once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update", func() {
			svc := app.New()

			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func sampledataSnapshot(t *testing.T) model.Snapshot {
	t.Helper()
	snap, err := sampledata.Generate(context.Background(), sampledata.DefaultConfig())
	if err != nil {
		t.Fatalf("generate sample data: %v", err)
	}
	return snap
}

package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	service "github.com/okian/hirefunnel/internal/app"
	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// blockingSource holds every Snapshot call until release is closed.
type blockingSource struct {
	release chan struct{}
}

func (blockingSource) Name() string { return "blocking" }

func (s blockingSource) Snapshot(ctx context.Context, w model.Window) (model.Snapshot, error) {
	select {
	case <-s.release:
		return model.Snapshot{Window: w}, nil
	case <-ctx.Done():
		return model.Snapshot{}, ctx.Err()
	}
}

func waitForJob(ctx context.Context, svc *service.Service, id string) (types.ReportJob, error) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Report(ctx, id)
		if err != nil {
			return types.ReportJob{}, err
		}
		if job.Status != types.StatusPending {
			return job, nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return types.ReportJob{}, fmt.Errorf("job %s still pending", id)
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service over an in-memory source", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(500),
			service.WithSource(repository.NewMemorySource(fixture())),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When submitting a report request", func() {
			sub, err := svc.SubmitReport(ctx, types.ReportRequest{RequestID: "req-1", Current: march})
			So(err, ShouldBeNil)
			So(sub.JobID, ShouldNotBeEmpty)
			So(sub.Duplicate, ShouldBeFalse)

			Convey("Then a worker should build and store the report", func() {
				job, err := waitForJob(ctx, svc, sub.JobID)
				So(err, ShouldBeNil)
				So(job.Status, ShouldEqual, types.StatusDone)
				So(job.RequestID, ShouldEqual, "req-1")
				So(job.Report, ShouldNotBeNil)
				So(job.Report.Speed.AvgTimeToHire.Current, ShouldEqual, 10)
				So(job.Previous, ShouldResemble, march.Previous())
				So(job.CompletedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And resubmitting the same request id should be a duplicate", func() {
				again, err := svc.SubmitReport(ctx, types.ReportRequest{RequestID: "req-1", Current: march})
				So(err, ShouldBeNil)
				So(again.Duplicate, ShouldBeTrue)
				So(again.JobID, ShouldEqual, sub.JobID)
			})
		})

		Convey("When submitting requests without request ids", func() {
			first, err := svc.SubmitReport(ctx, types.ReportRequest{Current: march})
			So(err, ShouldBeNil)
			second, err := svc.SubmitReport(ctx, types.ReportRequest{Current: march})
			So(err, ShouldBeNil)

			Convey("Then each should get its own job", func() {
				So(first.JobID, ShouldNotEqual, second.JobID)
				So(first.Duplicate, ShouldBeFalse)
				So(second.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When submitting an invalid window", func() {
			_, err := svc.SubmitReport(ctx, types.ReportRequest{RequestID: "bad", Current: model.Window{}})

			Convey("Then it should be rejected before queueing", func() {
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
				So(svc.GetStats()["storedReports"], ShouldEqual, 0)
			})
		})

		Convey("When asking for an unknown job", func() {
			_, err := svc.Report(ctx, "does-not-exist")

			Convey("Then it should not be found", func() {
				So(errors.Is(err, service.ErrJobNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service whose workers are stuck on the source", t, func() {
		src := blockingSource{release: make(chan struct{})}
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(1),
			service.WithSource(src),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When submitting more requests than the pipeline holds", func() {
			var rejected string
			var rejectErr error
			for i := 0; i < 10; i++ {
				id := fmt.Sprintf("burst-%d", i)
				if _, err := svc.SubmitReport(ctx, types.ReportRequest{RequestID: id, Current: march}); err != nil {
					rejected, rejectErr = id, err
					break
				}
			}

			Convey("Then a submission should be refused with backpressure", func() {
				So(rejected, ShouldNotBeEmpty)
				So(errors.Is(rejectErr, service.ErrBackpressure), ShouldBeTrue)
			})

			Convey("And the refused request id should be accepted once workers catch up", func() {
				close(src.release)

				var sub types.Submission
				var err error
				for i := 0; i < 100; i++ {
					sub, err = svc.SubmitReport(ctx, types.ReportRequest{RequestID: rejected, Current: march})
					if err == nil {
						break
					}
					time.Sleep(20 * time.Millisecond)
				}
				So(err, ShouldBeNil)
				So(sub.Duplicate, ShouldBeFalse)

				job, err := waitForJob(ctx, svc, sub.JobID)
				So(err, ShouldBeNil)
				So(job.Status, ShouldEqual, types.StatusDone)
			})

			Reset(func() {
				select {
				case <-src.release:
				default:
					close(src.release)
				}
			})
		})
	})
}

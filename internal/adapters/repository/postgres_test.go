package repository_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func expectEmpty(mock sqlmock.Sqlmock, table string, cols ...string) {
	mock.ExpectQuery("SELECT (.+) FROM " + table).WillReturnRows(sqlmock.NewRows(cols))
}

func TestPostgresSource_Snapshot(t *testing.T) {
	Convey("Given a postgres source over a mocked database", t, func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		defer db.Close()

		src := repository.NewPostgresSource(db)

		Convey("When every table has rows", func() {
			mock.ExpectQuery(`SELECT id, app_id, hired_at, start_date FROM hires WHERE \(hired_at >= \$1 AND hired_at < \$2\)`).
				WithArgs(march.From, march.To).
				WillReturnRows(sqlmock.NewRows([]string{"id", "app_id", "hired_at", "start_date"}).
					AddRow("h-1", "a-old", day("2024-03-02"), day("2024-03-11")))
			mock.ExpectQuery("SELECT (.+) FROM offers").
				WillReturnRows(sqlmock.NewRows([]string{"id", "app_id", "offered_at", "accepted_at", "rejected_at"}).
					AddRow("o-2", "a-mar", day("2024-03-20"), nil, day("2024-03-22")))
			mock.ExpectQuery(`SELECT (.+) FROM applications WHERE \(\(applied_at >= \$1 AND applied_at < \$2\) OR id = ANY\(\$3\)\)`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "candidate_id", "source", "started_at", "submitted_at", "applied_at", "stage"}).
					AddRow("a-old", "j-old", "c-1", "referral", nil, day("2024-02-05"), day("2024-02-05"), "Hired").
					AddRow("a-mar", "j-open", "c-2", nil, day("2024-03-03"), nil, day("2024-03-04"), "screen"))
			mock.ExpectQuery("SELECT (.+) FROM stage_events").
				WillReturnRows(sqlmock.NewRows([]string{"app_id", "stage", "at"}).
					AddRow("a-mar", "Screen", day("2024-03-06")))
			mock.ExpectQuery(`SELECT (.+) FROM jobs WHERE .*closed_at IS NULL`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "title", "posted_at", "closed_at", "hired_at"}).
					AddRow("j-old", "Analyst", day("2024-01-10"), day("2024-02-20"), nil).
					AddRow("j-open", "Engineer", day("2024-02-15"), nil, nil))
			mock.ExpectQuery("SELECT (.+) FROM terminations").
				WillReturnRows(sqlmock.NewRows([]string{"id", "hire_id", "type", "at"}).
					AddRow("t-1", "h-1", "Resign", day("2024-04-20")))
			mock.ExpectQuery("SELECT (.+) FROM channel_stats").
				WillReturnRows(sqlmock.NewRows([]string{"channel", "impressions", "spend"}).
					AddRow("linkedin", 1000, 500.0))
			mock.ExpectQuery("SELECT (.+) FROM cost_items").
				WillReturnRows(sqlmock.NewRows([]string{"kind", "amount", "period_from", "period_to"}).
					AddRow("external", 900.0, day("2024-02-15"), day("2024-03-15")))
			mock.ExpectQuery("SELECT (.+) FROM survey_scores").
				WillReturnRows(sqlmock.NewRows([]string{"kind", "score", "at"}).
					AddRow("candidate", 4.0, day("2024-03-20")))

			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then the snapshot should be assembled from every table", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
				So(src.Name(), ShouldEqual, "postgres")
				So(snap.Window, ShouldResemble, march)
				So(snap.Hires, ShouldHaveLength, 1)
				So(snap.Hires[0].StartDate, ShouldResemble, day("2024-03-11"))
				So(snap.Offers[0].Accepted(), ShouldBeFalse)
				So(snap.Offers[0].RejectedAt, ShouldResemble, day("2024-03-22"))
				So(snap.Applications, ShouldHaveLength, 2)
				So(snap.Applications[0].StartedAt.IsZero(), ShouldBeTrue)
				So(snap.Applications[1].Source, ShouldBeEmpty)
				So(snap.Applications[1].Stage, ShouldEqual, model.StageScreen)
				So(snap.StageEvents, ShouldHaveLength, 1)
				So(snap.Jobs[1].OpenAt(march.To), ShouldBeTrue)
				So(snap.Terminations[0].Type, ShouldEqual, model.TerminationResign)
				So(snap.Channels[0].Impressions, ShouldEqual, 1000)
				So(snap.Costs[0].Kind, ShouldEqual, model.CostExternal)
				So(snap.Surveys[0].Kind, ShouldEqual, model.SurveyCandidate)
			})
		})

		Convey("When every table is empty", func() {
			expectEmpty(mock, "hires", "id", "app_id", "hired_at", "start_date")
			expectEmpty(mock, "offers", "id", "app_id", "offered_at", "accepted_at", "rejected_at")
			expectEmpty(mock, "applications", "id", "job_id", "candidate_id", "source", "started_at", "submitted_at", "applied_at", "stage")
			expectEmpty(mock, "stage_events", "app_id", "stage", "at")
			expectEmpty(mock, "jobs", "id", "title", "posted_at", "closed_at", "hired_at")
			expectEmpty(mock, "terminations", "id", "hire_id", "type", "at")
			expectEmpty(mock, "channel_stats", "channel", "impressions", "spend")
			expectEmpty(mock, "cost_items", "kind", "amount", "period_from", "period_to")
			expectEmpty(mock, "survey_scores", "kind", "score", "at")

			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then an empty snapshot should be returned", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
				So(snap.Applications, ShouldBeEmpty)
			})
		})

		Convey("When a query fails", func() {
			mock.ExpectQuery("SELECT (.+) FROM hires").WillReturnError(errors.New("connection reset"))

			_, err := src.Snapshot(context.Background(), march)

			Convey("Then the failure should be wrapped", func() {
				So(errors.Is(err, repository.ErrSourceQuery), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "hires")
			})
		})

		Convey("When stored rows hold unknown enums or non-finite numbers", func() {
			expectEmpty(mock, "hires", "id", "app_id", "hired_at", "start_date")
			expectEmpty(mock, "offers", "id", "app_id", "offered_at", "accepted_at", "rejected_at")
			mock.ExpectQuery("SELECT (.+) FROM applications").
				WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "candidate_id", "source", "started_at", "submitted_at", "applied_at", "stage"}).
					AddRow("a-x", "j-1", "c-1", "web", nil, nil, day("2024-03-04"), "Teleported").
					AddRow("a-1", "j-1", "c-2", "web", nil, nil, day("2024-03-05"), "Screen"))
			mock.ExpectQuery("SELECT (.+) FROM stage_events").
				WillReturnRows(sqlmock.NewRows([]string{"app_id", "stage", "at"}).
					AddRow("a-1", "Warp", day("2024-03-05")).
					AddRow("a-1", "Screen", day("2024-03-06")))
			expectEmpty(mock, "jobs", "id", "title", "posted_at", "closed_at", "hired_at")
			mock.ExpectQuery("SELECT (.+) FROM terminations").
				WillReturnRows(sqlmock.NewRows([]string{"id", "hire_id", "type", "at"}).
					AddRow("t-1", "h-1", "Abducted", day("2024-03-20")))
			mock.ExpectQuery("SELECT (.+) FROM channel_stats").
				WillReturnRows(sqlmock.NewRows([]string{"channel", "impressions", "spend"}).
					AddRow("web", 100, math.Inf(1)).
					AddRow("referral", 50, 200.0))
			mock.ExpectQuery("SELECT (.+) FROM cost_items").
				WillReturnRows(sqlmock.NewRows([]string{"kind", "amount", "period_from", "period_to"}).
					AddRow("training", math.NaN(), march.From, march.To).
					AddRow("bribes", 10.0, march.From, march.To).
					AddRow("onboarding", 300.0, march.From, march.To))
			mock.ExpectQuery("SELECT (.+) FROM survey_scores").
				WillReturnRows(sqlmock.NewRows([]string{"kind", "score", "at"}).
					AddRow("newHire", math.NaN(), day("2024-03-10")))

			snap, err := src.Snapshot(context.Background(), march)

			Convey("Then the bad rows should be dropped and the rest kept", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
				So(len(snap.Applications), ShouldEqual, 1)
				So(snap.Applications[0].ID, ShouldEqual, "a-1")
				So(len(snap.StageEvents), ShouldEqual, 1)
				So(snap.StageEvents[0].Stage, ShouldEqual, model.StageScreen)
				So(len(snap.Channels), ShouldEqual, 1)
				So(snap.Channels[0].Channel, ShouldEqual, "referral")
				So(len(snap.Costs), ShouldEqual, 1)
				So(snap.Costs[0].Amount, ShouldEqual, 300.0)
				So(snap.Surveys, ShouldBeEmpty)
				So(snap.Terminations, ShouldBeEmpty)
			})
		})
	})
}

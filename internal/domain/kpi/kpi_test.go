package kpi_test

import (
	"testing"
	"time"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeIntervals(t *testing.T) {
	Convey("Given a job posted on 2024-01-01", t, func() {
		job := model.Job{ID: "j1", PostedAt: day(2024, 1, 1)}

		Convey("When the hire starts on 2024-01-31", func() {
			hire := model.Hire{ID: "h1", HiredAt: day(2024, 1, 20), StartDate: day(2024, 1, 31)}

			Convey("Then time-to-fill should be 30 days", func() {
				days, ok := kpi.TimeToFill(job, hire)
				So(ok, ShouldBeTrue)
				So(days, ShouldEqual, 30)
			})
		})

		Convey("When the hire has no start date", func() {
			hire := model.Hire{ID: "h1", HiredAt: day(2024, 1, 20)}

			Convey("Then time-to-fill falls back to the hire date", func() {
				days, ok := kpi.TimeToFill(job, hire)
				So(ok, ShouldBeTrue)
				So(days, ShouldEqual, 19)
			})
		})

		Convey("When the hire is missing both dates", func() {
			_, ok := kpi.TimeToFill(job, model.Hire{ID: "h1"})

			Convey("Then the metric is unavailable", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given an application and a hire", t, func() {
		app := model.Application{ID: "a1", AppliedAt: time.Date(2024, 2, 1, 18, 0, 0, 0, time.UTC)}

		Convey("When less than a full day separates the last day", func() {
			hire := model.Hire{HiredAt: time.Date(2024, 2, 11, 9, 0, 0, 0, time.UTC)}

			Convey("Then partial days are floored, never rounded up", func() {
				days, ok := kpi.TimeToHire(app, hire)
				So(ok, ShouldBeTrue)
				So(days, ShouldEqual, 9)
			})
		})

		Convey("When the hire precedes the application", func() {
			hire := model.Hire{HiredAt: time.Date(2024, 2, 1, 6, 0, 0, 0, time.UTC)}

			Convey("Then the difference floors toward negative infinity", func() {
				days, ok := kpi.TimeToHire(app, hire)
				So(ok, ShouldBeTrue)
				So(days, ShouldEqual, -1)
			})
		})
	})
}

func TestRatios(t *testing.T) {
	Convey("Given the ratio metrics", t, func() {
		ratios := []func(int, int) float64{
			kpi.VacancyRate,
			kpi.ApplicationCompletionRate,
			kpi.YieldRatio,
			kpi.SelectionRatio,
			kpi.OfferAcceptanceRate,
			kpi.HiringRate,
			kpi.TurnoverRate,
			kpi.ApplicantsPerOpening,
		}

		Convey("When the denominator is zero or negative", func() {
			Convey("Then every ratio returns 0", func() {
				for _, f := range ratios {
					So(f(3, 0), ShouldEqual, 0)
					So(f(0, 0), ShouldEqual, 0)
					So(f(3, -1), ShouldEqual, 0)
				}
			})
		})

		Convey("When computing offer acceptance", func() {
			So(kpi.OfferAcceptanceRate(3, 5), ShouldEqual, 0.6)
			So(kpi.OfferAcceptanceRate(0, 0), ShouldEqual, 0)
		})

		Convey("When following a funnel of 10 applications", func() {
			So(kpi.YieldRatio(2, 4), ShouldEqual, 0.5)
			So(kpi.SelectionRatio(1, 10), ShouldEqual, 0.1)
		})

		Convey("When inputs are inconsistent", func() {
			Convey("Then the ratio reports what the data says", func() {
				So(kpi.HiringRate(3, 2), ShouldEqual, 1.5)
			})
		})
	})
}

func TestCosts(t *testing.T) {
	Convey("Given cost items", t, func() {
		items := []model.CostItem{
			{Kind: model.CostTraining, Amount: 100},
			{Kind: model.CostInternal, Amount: 250},
		}

		Convey("When summing cost-to-OPL", func() {
			Convey("Then every item counts regardless of kind", func() {
				So(kpi.CostToOPL(items), ShouldEqual, 350)
			})

			Convey("Then the input slice is left unchanged", func() {
				first := kpi.CostToOPL(items)
				second := kpi.CostToOPL(items)
				So(first, ShouldEqual, second)
				So(len(items), ShouldEqual, 2)
				So(items[0], ShouldResemble, model.CostItem{Kind: model.CostTraining, Amount: 100})
			})
		})

		Convey("When there are no items", func() {
			So(kpi.CostToOPL(nil), ShouldEqual, 0)
			So(kpi.CostToOPL([]model.CostItem{}), ShouldEqual, 0)
		})

		Convey("When computing per-hire and per-channel costs", func() {
			So(kpi.CostPerHire(3000, 1000, 4), ShouldEqual, 1000)
			So(kpi.CostPerHire(3000, 1000, 0), ShouldEqual, 0)
			So(kpi.ChannelCPA(500, 50), ShouldEqual, 10)
			So(kpi.ChannelCPA(500, 0), ShouldEqual, 0)
			So(kpi.ChannelCPH(500, 2), ShouldEqual, 250)
			So(kpi.ChannelCPH(500, 0), ShouldEqual, 0)
		})
	})
}

func TestChannelEffectiveness(t *testing.T) {
	Convey("Given a channel with 1000 impressions and 25 applications", t, func() {
		eff := kpi.ChannelEffectiveness(25, 1000)

		Convey("Then ctr is the same ratio as a percentage", func() {
			So(eff.ApplicationsPerImpression, ShouldEqual, 0.025)
			So(eff.CTR, ShouldAlmostEqual, 2.5, 1e-9)
		})
	})

	Convey("Given a channel without impressions", t, func() {
		eff := kpi.ChannelEffectiveness(25, 0)

		Convey("Then both values are zero", func() {
			So(eff, ShouldResemble, kpi.Effectiveness{})
		})
	})
}

package report

import (
	"sort"
	"time"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/stats"
)

// Speed covers how fast requisitions are filled.
type Speed struct {
	AvgTimeToFill        Metric      `json:"avg_time_to_fill"`
	P50TimeToFill        Metric      `json:"p50_time_to_fill"`
	P90TimeToFill        Metric      `json:"p90_time_to_fill"`
	AvgTimeToHire        Metric      `json:"avg_time_to_hire"`
	P50TimeToHire        Metric      `json:"p50_time_to_hire"`
	P90TimeToHire        Metric      `json:"p90_time_to_hire"`
	ApplicantsPerOpening Metric      `json:"applicants_per_opening"`
	VacancyRate          Metric      `json:"vacancy_rate"`
	WeeklyTrend          []WeekPoint `json:"weekly_trend"`
}

// WeekPoint aggregates the hires made in one ISO week.
type WeekPoint struct {
	WeekStart     string  `json:"week_start"`
	Hires         int     `json:"hires"`
	AvgTimeToHire float64 `json:"avg_time_to_hire"`
	AvgTimeToFill float64 `json:"avg_time_to_fill"`
}

// distribution summarizes day samples.
type distribution struct {
	avg, p50, p90 value
}

func distributionOf(samples []float64) distribution {
	if len(samples) == 0 {
		return distribution{}
	}
	return distribution{
		avg: known(stats.Mean(samples)),
		p50: known(stats.Percentile(samples, 50)),
		p90: known(stats.Percentile(samples, 90)),
	}
}

type speedValues struct {
	fill, hire           distribution
	applicantsPerOpening value
	vacancyRate          value
	trend                []WeekPoint
}

func speedOf(s model.Snapshot, j joined) speedValues {
	type week struct {
		hires      int
		hire, fill []float64
	}
	weeks := make(map[time.Time]*week)

	var fill, hire []float64
	for _, hj := range j.hires {
		var w *week
		if !hj.hire.HiredAt.IsZero() {
			ws := weekStart(hj.hire.HiredAt)
			if w = weeks[ws]; w == nil {
				w = &week{}
				weeks[ws] = w
			}
			w.hires++
		}
		if d, ok := kpi.TimeToHire(hj.app, hj.hire); ok {
			hire = append(hire, float64(d))
			if w != nil {
				w.hire = append(w.hire, float64(d))
			}
		}
		if !hj.hasJob {
			continue
		}
		if d, ok := kpi.TimeToFill(hj.job, hj.hire); ok {
			fill = append(fill, float64(d))
			if w != nil {
				w.fill = append(w.fill, float64(d))
			}
		}
	}

	at := asOf(s.Window)
	open := 0
	for _, job := range s.Jobs {
		if job.OpenAt(at) {
			open++
		}
	}

	trend := make([]WeekPoint, 0, len(weeks))
	for ws, w := range weeks {
		trend = append(trend, WeekPoint{
			WeekStart:     ws.Format(model.DateLayout),
			Hires:         w.hires,
			AvgTimeToHire: stats.Mean(w.hire),
			AvgTimeToFill: stats.Mean(w.fill),
		})
	}
	sort.Slice(trend, func(a, b int) bool { return trend[a].WeekStart < trend[b].WeekStart })

	return speedValues{
		fill:                 distributionOf(fill),
		hire:                 distributionOf(hire),
		applicantsPerOpening: known(kpi.ApplicantsPerOpening(len(s.Applications), len(s.Jobs))),
		vacancyRate:          known(kpi.VacancyRate(open, len(s.Jobs))),
		trend:                trend,
	}
}

func buildSpeed(cur, prev speedValues) Speed {
	return Speed{
		AvgTimeToFill:        compare(cur.fill.avg, prev.fill.avg),
		P50TimeToFill:        compare(cur.fill.p50, prev.fill.p50),
		P90TimeToFill:        compare(cur.fill.p90, prev.fill.p90),
		AvgTimeToHire:        compare(cur.hire.avg, prev.hire.avg),
		P50TimeToHire:        compare(cur.hire.p50, prev.hire.p50),
		P90TimeToHire:        compare(cur.hire.p90, prev.hire.p90),
		ApplicantsPerOpening: compare(cur.applicantsPerOpening, prev.applicantsPerOpening),
		VacancyRate:          compare(cur.vacancyRate, prev.vacancyRate),
		WeeklyTrend:          cur.trend,
	}
}

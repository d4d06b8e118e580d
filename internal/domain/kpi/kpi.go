// Package kpi implements the recruitment metric functions. Every function is
// pure: it performs no I/O, never mutates its arguments and returns the same
// result for the same input.
//
// Ratios are num/den routed through stats.SafeDivide, so an empty or negative
// denominator yields 0. Results are never clamped to [0,1]; inconsistent
// inputs (more hires than offers) show up as ratios above 1.
package kpi

import (
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/stats"
)

const msPerDay = 86_400_000

// Days returns the whole days from start to end, flooring toward negative
// infinity. ok is false when either bound is missing.
func Days(start, end time.Time) (int, bool) {
	if start.IsZero() || end.IsZero() {
		return 0, false
	}
	ms := end.Sub(start).Milliseconds()
	days := ms / msPerDay
	if ms%msPerDay != 0 && ms < 0 {
		days--
	}
	return int(days), true
}

// TimeToFill is the days from the job posting to the hire's start date,
// falling back to the hire date when no start date is recorded.
func TimeToFill(job model.Job, hire model.Hire) (int, bool) {
	return Days(job.PostedAt, hire.Started())
}

// TimeToHire is the days from application to hire.
func TimeToHire(app model.Application, hire model.Hire) (int, bool) {
	return Days(app.AppliedAt, hire.HiredAt)
}

// VacancyRate is open positions over total positions.
func VacancyRate(open, total int) float64 { return stats.Ratio(open, total) }

// ApplicationCompletionRate is submitted applications over started ones.
func ApplicationCompletionRate(submitted, started int) float64 {
	return stats.Ratio(submitted, started)
}

// YieldRatio is the share of candidates entering a stage who advance.
func YieldRatio(passed, entered int) float64 { return stats.Ratio(passed, entered) }

// SelectionRatio is hires over applicants.
func SelectionRatio(hired, applicants int) float64 { return stats.Ratio(hired, applicants) }

// OfferAcceptanceRate is accepted offers over offers extended.
func OfferAcceptanceRate(accepted, total int) float64 { return stats.Ratio(accepted, total) }

// HiringRate is hires over openings.
func HiringRate(hired, openings int) float64 { return stats.Ratio(hired, openings) }

// TurnoverRate is terminations over hires.
func TurnoverRate(terminations, hires int) float64 { return stats.Ratio(terminations, hires) }

// ApplicantsPerOpening is applications per job.
func ApplicantsPerOpening(applications, jobs int) float64 { return stats.Ratio(applications, jobs) }

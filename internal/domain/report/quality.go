package report

import (
	"sort"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/stats"
)

// Retention windows, in days since the employment start.
const (
	firstMonthDays = 30
	firstYearDays  = 365
)

// Quality covers early attrition and satisfaction.
type Quality struct {
	FirstMonthTurnover Metric              `json:"first_month_turnover"`
	FirstYearTurnover  Metric              `json:"first_year_turnover"`
	TurnoverTrend      []TurnoverPoint     `json:"turnover_trend"`
	TerminationsByType []Count             `json:"terminations_by_type"`
	Satisfaction       []Satisfaction      `json:"satisfaction"`
	SatisfactionTrend  []SatisfactionPoint `json:"satisfaction_trend"`
}

// TurnoverPoint is the first-month turnover of one start-month cohort.
type TurnoverPoint struct {
	Month        string  `json:"month"`
	Hires        int     `json:"hires"`
	Terminations int     `json:"terminations"`
	Rate         float64 `json:"rate"`
}

// Satisfaction is the average survey score of one respondent kind.
type Satisfaction struct {
	Kind      model.SurveyKind `json:"kind"`
	Average   Metric           `json:"average"`
	Responses int              `json:"responses"`
}

// SatisfactionPoint is the average score of one kind in one month.
type SatisfactionPoint struct {
	Month     string           `json:"month"`
	Kind      model.SurveyKind `json:"kind"`
	Average   float64          `json:"average"`
	Responses int              `json:"responses"`
}

type qualityValues struct {
	firstMonth value
	firstYear  value
	trend      []TurnoverPoint
	byType     []Count
	survey     map[model.SurveyKind][]float64
	surveyPts  []SatisfactionPoint
}

func qualityOf(s model.Snapshot, j joined) qualityValues {
	earlyExit := make(map[string]bool)
	firstMonth, firstYear := 0, 0
	byType := make(map[string]int)
	for _, tj := range j.terminations {
		byType[string(tj.term.Type)]++
		d, ok := kpi.Days(tj.hire.Started(), tj.term.At)
		if !ok || d < 0 {
			continue
		}
		if d <= firstMonthDays {
			firstMonth++
			earlyExit[tj.hire.ID] = true
		}
		if d <= firstYearDays {
			firstYear++
		}
	}

	cohorts := make(map[string]*TurnoverPoint)
	for _, h := range s.Hires {
		start := h.Started()
		if start.IsZero() {
			continue
		}
		key := monthKey(start)
		c, ok := cohorts[key]
		if !ok {
			c = &TurnoverPoint{Month: key}
			cohorts[key] = c
		}
		c.Hires++
		if earlyExit[h.ID] {
			c.Terminations++
		}
	}
	trend := make([]TurnoverPoint, 0, len(cohorts))
	for _, c := range cohorts {
		c.Rate = kpi.TurnoverRate(c.Terminations, c.Hires)
		trend = append(trend, *c)
	}
	sort.Slice(trend, func(a, b int) bool { return trend[a].Month < trend[b].Month })

	survey := make(map[model.SurveyKind][]float64)
	type monthKind struct {
		month string
		kind  model.SurveyKind
	}
	monthly := make(map[monthKind][]float64)
	for _, sc := range s.Surveys {
		survey[sc.Kind] = append(survey[sc.Kind], sc.Score)
		if !sc.At.IsZero() {
			k := monthKind{month: monthKey(sc.At), kind: sc.Kind}
			monthly[k] = append(monthly[k], sc.Score)
		}
	}
	points := make([]SatisfactionPoint, 0, len(monthly))
	for k, scores := range monthly {
		points = append(points, SatisfactionPoint{
			Month:     k.month,
			Kind:      k.kind,
			Average:   stats.Mean(scores),
			Responses: len(scores),
		})
	}
	sort.Slice(points, func(a, b int) bool {
		if points[a].Month != points[b].Month {
			return points[a].Month < points[b].Month
		}
		return points[a].Kind < points[b].Kind
	})

	return qualityValues{
		firstMonth: known(kpi.TurnoverRate(firstMonth, len(s.Hires))),
		firstYear:  known(kpi.TurnoverRate(firstYear, len(s.Hires))),
		trend:      trend,
		byType:     counts(byType),
		survey:     survey,
		surveyPts:  points,
	}
}

func buildQuality(cur, prev qualityValues) Quality {
	q := Quality{
		FirstMonthTurnover: compare(cur.firstMonth, prev.firstMonth),
		FirstYearTurnover:  compare(cur.firstYear, prev.firstYear),
		TurnoverTrend:      cur.trend,
		TerminationsByType: cur.byType,
		SatisfactionTrend:  cur.surveyPts,
	}
	for _, k := range model.SurveyKinds {
		scores := cur.survey[k]
		q.Satisfaction = append(q.Satisfaction, Satisfaction{
			Kind:      k,
			Average:   compare(meanOf(scores), meanOf(prev.survey[k])),
			Responses: len(scores),
		})
	}
	return q
}

func meanOf(samples []float64) value {
	if len(samples) == 0 {
		return value{}
	}
	return known(stats.Mean(samples))
}

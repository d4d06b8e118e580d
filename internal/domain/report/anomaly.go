package report

import "fmt"

// Anomaly flags a logically inconsistent result. The metric value itself is
// reported unchanged.
type Anomaly struct {
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// detectAnomalies flags ratios above 1 and hires outnumbering accepted offers.
func detectAnomalies(r Report, cur summary) []Anomaly {
	var out []Anomaly
	check := func(name string, m Metric) {
		if m.Available && m.Current > 1 {
			out = append(out, Anomaly{Metric: name, Value: m.Current, Reason: "ratio exceeds 1"})
		}
	}

	check("funnel.completion_rate", r.Funnel.CompletionRate)
	check("funnel.selection_ratio", r.Funnel.SelectionRatio)
	for _, y := range r.Funnel.Yields {
		check(fmt.Sprintf("funnel.yield.%s_%s", y.From, y.To), y.Ratio)
	}
	check("offers.acceptance_rate", r.Offers.AcceptanceRate)
	check("speed.vacancy_rate", r.Speed.VacancyRate)
	check("quality.first_month_turnover", r.Quality.FirstMonthTurnover)
	check("quality.first_year_turnover", r.Quality.FirstYearTurnover)

	if cur.hires > cur.acceptedOffers {
		out = append(out, Anomaly{
			Metric: "offers.accepted",
			Value:  float64(cur.hires),
			Reason: fmt.Sprintf("%d hires exceed %d accepted offers", cur.hires, cur.acceptedOffers),
		})
	}
	return out
}

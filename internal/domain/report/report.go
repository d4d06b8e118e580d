// Package report composes the kpi functions into the dashboard report shapes.
//
// Build takes the snapshot of the reporting window and the snapshot of the
// comparison window and derives every section twice, pairing the values into
// month-over-month Metrics. Dangling references are skipped and counted in
// Diagnostics; time metrics without samples are marked unavailable instead
// of being reported as NaN.
package report

import (
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/stats"
)

// Metric is a headline value paired with its prior-period value.
type Metric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	// MoM is (Current-Previous)/Previous, 0 when Previous is 0 or either side
	// is unavailable.
	MoM float64 `json:"mom"`
	// Available is false when the current period had no data to derive the
	// value from.
	Available bool `json:"available"`
}

// value is a single-period result that may be unavailable.
type value struct {
	v  float64
	ok bool
}

func known(v float64) value { return value{v: v, ok: true} }

func finite(v value) value {
	if !model.Finite(v.v) {
		return value{}
	}
	return v
}

// compare pairs two period values. A non-finite side is treated as
// unavailable and reported as 0.
func compare(cur, prev value) Metric {
	cur, prev = finite(cur), finite(prev)
	m := Metric{Current: cur.v, Previous: prev.v, Available: cur.ok}
	if cur.ok && prev.ok {
		m.MoM = stats.MoM(cur.v, prev.v)
	}
	return m
}

// Count is a labelled tally.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Report is the composite output consumed by the rendering layer.
type Report struct {
	Window         model.Window `json:"window"`
	PreviousWindow model.Window `json:"previous_window"`
	Speed          Speed        `json:"speed"`
	Funnel         Funnel       `json:"funnel"`
	Offers         Offers       `json:"offers"`
	Sourcing       Sourcing     `json:"sourcing"`
	Cost           Cost         `json:"cost"`
	Quality        Quality      `json:"quality"`
	Diagnostics    Diagnostics  `json:"diagnostics"`
}

// Build derives the full report for current against previous. Neither
// snapshot is modified.
func Build(current, previous model.Snapshot) Report {
	var diag Diagnostics
	current = dropNonFinite(current, &diag)
	previous = dropNonFinite(previous, nil)
	cur := summarize(current, &diag)
	prev := summarize(previous, nil)

	r := Report{
		Window:         current.Window,
		PreviousWindow: previous.Window,
		Speed:          buildSpeed(cur.speed, prev.speed),
		Funnel:         buildFunnel(cur.funnel, prev.funnel),
		Offers:         buildOffers(cur.offers, prev.offers),
		Sourcing:       cur.sourcing,
		Cost:           buildCost(cur.cost, prev.cost),
		Quality:        buildQuality(cur.quality, prev.quality),
	}
	r.Cost.ByChannel = channelCosts(r.Sourcing)
	diag.Anomalies = detectAnomalies(r, cur)
	r.Diagnostics = diag
	return r
}

// summary holds the single-period derivations of every section.
type summary struct {
	speed    speedValues
	funnel   funnelValues
	offers   offerValues
	sourcing Sourcing
	cost     costValues
	quality  qualityValues

	hires          int
	acceptedOffers int
}

func summarize(s model.Snapshot, diag *Diagnostics) summary {
	j := join(s, diag)
	sum := summary{
		speed:    speedOf(s, j),
		funnel:   funnelOf(s, j),
		offers:   offersOf(s, j),
		sourcing: sourcingOf(s, j),
		cost:     costOf(s),
		quality:  qualityOf(s, j),
		hires:    len(s.Hires),
	}
	for _, o := range s.Offers {
		if o.Accepted() {
			sum.acceptedOffers++
		}
	}
	return sum
}

// asOf is the instant at which point-in-time states (open jobs) are taken.
func asOf(w model.Window) time.Time {
	if w.To.IsZero() {
		return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return w.To
}

// weekStart returns the Monday starting t's ISO week.
func weekStart(t time.Time) time.Time {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// monthKey labels the calendar month of t.
func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }

// dropNonFinite returns s without the channel stats, cost items and survey
// scores carrying NaN or infinite numbers. The input slices are not touched.
func dropNonFinite(s model.Snapshot, diag *Diagnostics) model.Snapshot {
	s.Channels = keepFinite(s.Channels, func(c model.ChannelStat) float64 { return c.Spend }, diag)
	s.Costs = keepFinite(s.Costs, func(c model.CostItem) float64 { return c.Amount }, diag)
	s.Surveys = keepFinite(s.Surveys, func(v model.SurveyScore) float64 { return v.Score }, diag)
	return s
}

func keepFinite[T any](items []T, num func(T) float64, diag *Diagnostics) []T {
	bad := 0
	for _, it := range items {
		if !model.Finite(num(it)) {
			bad++
		}
	}
	if bad == 0 {
		return items
	}
	out := make([]T, 0, len(items)-bad)
	for _, it := range items {
		if model.Finite(num(it)) {
			out = append(out, it)
		}
	}
	if diag != nil {
		diag.NonFinite += bad
	}
	return out
}

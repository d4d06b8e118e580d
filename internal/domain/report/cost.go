package report

import (
	"sort"
	"time"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
)

// oplKinds are the cost-to-OPL buckets in reporting order.
var oplKinds = []model.CostKind{
	model.CostOnboarding,
	model.CostTraining,
	model.CostSupervision,
	model.CostOTJ,
	model.CostLaborProportion,
}

// Cost covers recruiting spend and the cost of bringing hires to full
// productivity (OPL).
type Cost struct {
	CostPerHire Metric        `json:"cost_per_hire"`
	Trend       []CostPoint   `json:"trend"`
	ByChannel   []ChannelCost `json:"by_channel"`
	CostToOPL   Metric        `json:"cost_to_opl"`
	OPLByKind   []KindCost    `json:"opl_by_kind"`
	TimeToOPL   Metric        `json:"time_to_opl"`
}

// CostPoint is cost-per-hire for one calendar month.
type CostPoint struct {
	Month       string  `json:"month"`
	Cost        float64 `json:"cost"`
	Hires       int     `json:"hires"`
	CostPerHire float64 `json:"cost_per_hire"`
}

// ChannelCost is the spend per hire of one channel.
type ChannelCost struct {
	Channel     string  `json:"channel"`
	Spend       float64 `json:"spend"`
	Hires       int     `json:"hires"`
	CostPerHire float64 `json:"cost_per_hire"`
}

// KindCost is the total of one cost kind.
type KindCost struct {
	Kind   model.CostKind `json:"kind"`
	Amount float64        `json:"amount"`
}

type costValues struct {
	perHire   value
	opl       value
	timeToOPL value
	trend     []CostPoint
	byKind    []KindCost
}

func costOf(s model.Snapshot) costValues {
	var internal, external float64
	monthly := make(map[string]*CostPoint)
	point := func(month string) *CostPoint {
		p, ok := monthly[month]
		if !ok {
			p = &CostPoint{Month: month}
			monthly[month] = p
		}
		return p
	}

	recruiting := func(it model.CostItem) {
		if !it.Period.From.IsZero() {
			point(monthKey(it.Period.From)).Cost += it.Amount
		}
	}

	var opl []model.CostItem
	for _, it := range s.Costs {
		switch it.Kind {
		case model.CostInternal:
			internal += it.Amount
			recruiting(it)
		case model.CostExternal:
			external += it.Amount
			recruiting(it)
		case model.CostOnboarding, model.CostTraining, model.CostSupervision,
			model.CostOTJ, model.CostLaborProportion:
			opl = append(opl, it)
		}
	}
	for _, h := range s.Hires {
		if !h.HiredAt.IsZero() {
			point(monthKey(h.HiredAt)).Hires++
		}
	}

	trend := make([]CostPoint, 0, len(monthly))
	for _, p := range monthly {
		p.CostPerHire = kpi.CostPerHire(p.Cost, 0, p.Hires)
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(a, b int) bool { return trend[a].Month < trend[b].Month })

	byKind := make([]KindCost, 0, len(oplKinds))
	for _, k := range oplKinds {
		var items []model.CostItem
		for _, it := range opl {
			if it.Kind == k {
				items = append(items, it)
			}
		}
		byKind = append(byKind, KindCost{Kind: k, Amount: kpi.CostToOPL(items)})
	}

	return costValues{
		perHire:   known(kpi.CostPerHire(internal, external, len(s.Hires))),
		opl:       known(kpi.CostToOPL(opl)),
		timeToOPL: oplSpan(opl),
		trend:     trend,
		byKind:    byKind,
	}
}

// oplSpan is the whole days from the earliest OPL period start to the latest
// period end.
func oplSpan(items []model.CostItem) value {
	var first, last time.Time
	for _, it := range items {
		if it.Period.From.IsZero() || it.Period.To.IsZero() {
			continue
		}
		if first.IsZero() || it.Period.From.Before(first) {
			first = it.Period.From
		}
		if last.IsZero() || it.Period.To.After(last) {
			last = it.Period.To
		}
	}
	d, ok := kpi.Days(first, last)
	if !ok {
		return value{}
	}
	return known(float64(d))
}

func channelCosts(src Sourcing) []ChannelCost {
	out := make([]ChannelCost, 0, len(src.Channels))
	for _, c := range src.Channels {
		out = append(out, ChannelCost{
			Channel:     c.Channel,
			Spend:       c.Spend,
			Hires:       c.Hires,
			CostPerHire: c.CPH,
		})
	}
	return out
}

func buildCost(cur, prev costValues) Cost {
	return Cost{
		CostPerHire: compare(cur.perHire, prev.perHire),
		Trend:       cur.trend,
		CostToOPL:   compare(cur.opl, prev.opl),
		OPLByKind:   cur.byKind,
		TimeToOPL:   compare(cur.timeToOPL, prev.timeToOPL),
	}
}

package report

import (
	"sort"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
)

// Offers covers offer acceptance and hiring.
type Offers struct {
	AcceptanceRate Metric       `json:"acceptance_rate"`
	HiringRate     Metric       `json:"hiring_rate"`
	ByPosition     []Acceptance `json:"by_position"`
	ByChannel      []Acceptance `json:"by_channel"`
}

// Acceptance is the offer acceptance of one subset of offers.
type Acceptance struct {
	Key      string  `json:"key"`
	Accepted int     `json:"accepted"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

type offerValues struct {
	acceptance value
	hiring     value
	byPosition []Acceptance
	byChannel  []Acceptance
}

func offersOf(s model.Snapshot, j joined) offerValues {
	accepted := 0
	for _, o := range s.Offers {
		if o.Accepted() {
			accepted++
		}
	}

	byPosition := make(map[string]*Acceptance)
	byChannel := make(map[string]*Acceptance)
	for _, oj := range j.offers {
		tally(byChannel, oj.app.Source, oj.offer.Accepted())
		if oj.hasJob {
			tally(byPosition, positionOf(oj.job), oj.offer.Accepted())
		}
	}

	return offerValues{
		acceptance: known(kpi.OfferAcceptanceRate(accepted, len(s.Offers))),
		hiring:     known(kpi.HiringRate(len(s.Hires), len(s.Jobs))),
		byPosition: acceptances(byPosition),
		byChannel:  acceptances(byChannel),
	}
}

func positionOf(job model.Job) string {
	if job.Title != "" {
		return job.Title
	}
	return job.ID
}

func tally(groups map[string]*Acceptance, key string, accepted bool) {
	g, ok := groups[key]
	if !ok {
		g = &Acceptance{Key: key}
		groups[key] = g
	}
	g.Total++
	if accepted {
		g.Accepted++
	}
}

func acceptances(groups map[string]*Acceptance) []Acceptance {
	out := make([]Acceptance, 0, len(groups))
	for _, g := range groups {
		g.Rate = kpi.OfferAcceptanceRate(g.Accepted, g.Total)
		out = append(out, *g)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

func buildOffers(cur, prev offerValues) Offers {
	return Offers{
		AcceptanceRate: compare(cur.acceptance, prev.acceptance),
		HiringRate:     compare(cur.hiring, prev.hiring),
		ByPosition:     cur.byPosition,
		ByChannel:      cur.byChannel,
	}
}

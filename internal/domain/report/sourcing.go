package report

import (
	"sort"

	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
)

// Sourcing covers where applicants and hires come from.
type Sourcing struct {
	ApplicationsBySource []Count         `json:"applications_by_source"`
	SourceOfHire         []Count         `json:"source_of_hire"`
	Channels             []ChannelReport `json:"channels"`
}

// ChannelReport is the reach, conversion and cost of one sourcing channel.
type ChannelReport struct {
	Channel       string            `json:"channel"`
	Impressions   int               `json:"impressions"`
	Spend         float64           `json:"spend"`
	Applications  int               `json:"applications"`
	Hires         int               `json:"hires"`
	Effectiveness kpi.Effectiveness `json:"effectiveness"`
	CPA           float64           `json:"cpa"`
	CPH           float64           `json:"cph"`
}

func sourcingOf(s model.Snapshot, j joined) Sourcing {
	apps := make(map[string]int)
	for _, a := range s.Applications {
		apps[a.Source]++
	}
	hires := make(map[string]int)
	for _, hj := range j.hires {
		hires[hj.app.Source]++
	}

	channels := make([]ChannelReport, 0, len(s.Channels))
	for _, c := range s.Channels {
		channels = append(channels, ChannelReport{
			Channel:       c.Channel,
			Impressions:   c.Impressions,
			Spend:         c.Spend,
			Applications:  apps[c.Channel],
			Hires:         hires[c.Channel],
			Effectiveness: kpi.ChannelEffectiveness(apps[c.Channel], c.Impressions),
			CPA:           kpi.ChannelCPA(c.Spend, apps[c.Channel]),
			CPH:           kpi.ChannelCPH(c.Spend, hires[c.Channel]),
		})
	}

	return Sourcing{
		ApplicationsBySource: counts(apps),
		SourceOfHire:         counts(hires),
		Channels:             channels,
	}
}

// counts flattens a tally, largest first and by key on ties.
func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Key < out[b].Key
	})
	return out
}

package report

import (
	"github.com/okian/hirefunnel/internal/domain/kpi"
	"github.com/okian/hirefunnel/internal/domain/model"
)

// transition is one step of the yield chain.
type transition struct {
	from, to model.Stage
}

// yieldChain is the fixed sequence of stage transitions reported on the
// funnel. HM_Accept to Interview1 is not part of the chain.
var yieldChain = []transition{
	{model.StageApply, model.StageScreen},
	{model.StageScreen, model.StageSubmitHM},
	{model.StageSubmitHM, model.StageHMAccept},
	{model.StageInterview1, model.StageInterviewFinal},
	{model.StageInterviewFinal, model.StageOffer},
	{model.StageOffer, model.StageHired},
}

// Funnel covers conversion through the pipeline.
type Funnel struct {
	CompletionRate Metric  `json:"completion_rate"`
	SelectionRatio Metric  `json:"selection_ratio"`
	Yields         []Yield `json:"yields"`
	StageCounts    []Count `json:"stage_counts"`
}

// Yield is the conversion of one stage transition.
type Yield struct {
	From    model.Stage `json:"from"`
	To      model.Stage `json:"to"`
	Entered int         `json:"entered"`
	Passed  int         `json:"passed"`
	Ratio   Metric      `json:"ratio"`
}

type yieldValue struct {
	entered, passed int
	ratio           value
}

type funnelValues struct {
	completion value
	selection  value
	yields     []yieldValue
	counts     []Count
}

func funnelOf(s model.Snapshot, j joined) funnelValues {
	reached := make(map[model.Stage]map[string]struct{}, len(model.Stages))
	for _, e := range j.events {
		set, ok := reached[e.Stage]
		if !ok {
			set = make(map[string]struct{})
			reached[e.Stage] = set
		}
		set[e.AppID] = struct{}{}
	}

	yields := make([]yieldValue, 0, len(yieldChain))
	for _, t := range yieldChain {
		entered := reached[t.from]
		passed := 0
		for id := range entered {
			if _, ok := reached[t.to][id]; ok {
				passed++
			}
		}
		yields = append(yields, yieldValue{
			entered: len(entered),
			passed:  passed,
			ratio:   known(kpi.YieldRatio(passed, len(entered))),
		})
	}

	counts := make([]Count, 0, len(model.Stages))
	for _, st := range model.Stages {
		counts = append(counts, Count{Key: string(st), Count: len(reached[st])})
	}

	started, submitted := 0, 0
	for _, a := range s.Applications {
		if !a.StartedAt.IsZero() || a.Submitted() {
			started++
		}
		if a.Submitted() {
			submitted++
		}
	}

	return funnelValues{
		completion: known(kpi.ApplicationCompletionRate(submitted, started)),
		selection:  known(kpi.SelectionRatio(len(s.Hires), len(s.Applications))),
		yields:     yields,
		counts:     counts,
	}
}

func buildFunnel(cur, prev funnelValues) Funnel {
	f := Funnel{
		CompletionRate: compare(cur.completion, prev.completion),
		SelectionRatio: compare(cur.selection, prev.selection),
		Yields:         make([]Yield, len(yieldChain)),
		StageCounts:    cur.counts,
	}
	for i, t := range yieldChain {
		var p value
		if i < len(prev.yields) {
			p = prev.yields[i].ratio
		}
		f.Yields[i] = Yield{
			From:    t.from,
			To:      t.to,
			Entered: cur.yields[i].entered,
			Passed:  cur.yields[i].passed,
			Ratio:   compare(cur.yields[i].ratio, p),
		}
	}
	return f
}

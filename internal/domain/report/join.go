package report

import "github.com/okian/hirefunnel/internal/domain/model"

// Orphan kinds reported in Diagnostics.Orphans.
const (
	OrphanApplicationJob  = "application_without_job"
	OrphanStageEventApp   = "stage_event_without_application"
	OrphanOfferApp        = "offer_without_application"
	OrphanHireApp         = "hire_without_application"
	OrphanTerminationHire = "termination_without_hire"
)

// Diagnostics surfaces data-quality findings without affecting the metrics.
type Diagnostics struct {
	// Orphans counts records skipped during grouping because a reference
	// did not resolve, keyed by orphan kind.
	Orphans map[string]int `json:"orphans,omitempty"`
	// Skipped is the total of Orphans.
	Skipped int `json:"skipped"`
	// NonFinite counts records dropped for carrying a NaN or infinite number.
	NonFinite int       `json:"non_finite"`
	Anomalies []Anomaly `json:"anomalies,omitempty"`
}

func (d *Diagnostics) orphan(kind string) {
	if d == nil {
		return
	}
	if d.Orphans == nil {
		d.Orphans = make(map[string]int)
	}
	d.Orphans[kind]++
	d.Skipped++
}

type hireJoin struct {
	hire   model.Hire
	app    model.Application
	job    model.Job
	hasJob bool
}

type offerJoin struct {
	offer  model.Offer
	app    model.Application
	job    model.Job
	hasJob bool
}

type terminationJoin struct {
	term model.Termination
	hire model.Hire
}

// joined holds the records whose references resolved. Records with
// dangling references are left out and tallied once here, so every section
// sees the same view.
type joined struct {
	hires        []hireJoin
	offers       []offerJoin
	events       []model.StageEvent
	terminations []terminationJoin
}

func join(s model.Snapshot, diag *Diagnostics) joined {
	idx := model.NewIndex(s)
	var j joined

	for _, a := range s.Applications {
		if _, ok := idx.Jobs[a.JobID]; !ok {
			diag.orphan(OrphanApplicationJob)
		}
	}
	for _, e := range s.StageEvents {
		if _, ok := idx.Applications[e.AppID]; !ok {
			diag.orphan(OrphanStageEventApp)
			continue
		}
		j.events = append(j.events, e)
	}
	for _, o := range s.Offers {
		app, ok := idx.Applications[o.AppID]
		if !ok {
			diag.orphan(OrphanOfferApp)
			continue
		}
		job, hasJob := idx.Jobs[app.JobID]
		j.offers = append(j.offers, offerJoin{offer: o, app: app, job: job, hasJob: hasJob})
	}
	for _, h := range s.Hires {
		app, ok := idx.Applications[h.AppID]
		if !ok {
			diag.orphan(OrphanHireApp)
			continue
		}
		job, hasJob := idx.Jobs[app.JobID]
		j.hires = append(j.hires, hireJoin{hire: h, app: app, job: job, hasJob: hasJob})
	}
	for _, t := range s.Terminations {
		h, ok := idx.Hires[t.HireID]
		if !ok {
			diag.orphan(OrphanTerminationHire)
			continue
		}
		j.terminations = append(j.terminations, terminationJoin{term: t, hire: h})
	}
	return j
}

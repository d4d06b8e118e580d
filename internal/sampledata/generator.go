package sampledata

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
)

const day = 24 * time.Hour

// funnel is the stage order applications move through.
var funnel = []model.Stage{
	model.StageApply, model.StageScreen, model.StageSubmitHM, model.StageHMAccept,
	model.StageInterview1, model.StageInterviewFinal, model.StageOffer, model.StageHired,
}

type generator struct {
	cfg  Config
	rng  *rand.Rand
	snap model.Snapshot
}

// Generate builds a snapshot from cfg. Each opening is filled at most once;
// later candidates who reach the offer stage decline it.
func Generate(ctx context.Context, cfg Config) (model.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return model.Snapshot{}, err
	}

	g := &generator{
		cfg:  cfg,
		rng:  rand.New(rand.NewPCG(cfg.Seed, pcgStream)),
		snap: model.Snapshot{Window: cfg.Window},
	}

	for i := 0; i < cfg.Jobs; i++ {
		if err := ctx.Err(); err != nil {
			return model.Snapshot{}, fmt.Errorf("context cancelled during generation: %w", err)
		}
		g.job(i)
	}
	g.channels()
	g.costs()
	g.surveys()

	logger.Get().Info(ctx, "generated sample snapshot",
		logger.Int("jobs", len(g.snap.Jobs)),
		logger.Int("applications", len(g.snap.Applications)),
		logger.Int("hires", len(g.snap.Hires)),
		logger.Int("terminations", len(g.snap.Terminations)))

	return g.snap, nil
}

func (g *generator) days(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(g.rng.IntN(n)) * day
}

func (g *generator) chance(p float64) bool { return g.rng.Float64() < p }

func (g *generator) job(i int) {
	span := int(g.cfg.Window.To.Sub(g.cfg.Window.From)/day) * 2 / postingSpanShare
	job := model.Job{
		ID:       fmt.Sprintf("job-%03d", i),
		Title:    titles[g.rng.IntN(len(titles))],
		PostedAt: g.cfg.Window.From.Add(g.days(span)),
	}

	applicants := 1 + g.rng.IntN(g.cfg.ApplicantsPerJob)
	for k := 0; k < applicants; k++ {
		hire, ok := g.application(&job, k)
		if ok {
			job.HiredAt = hire.HiredAt
		}
	}

	if job.HiredAt.IsZero() && g.chance(closeRate) {
		job.ClosedAt = job.PostedAt.Add(closeAfterMinDays*day + g.days(closeAfterDays))
	}
	g.snap.Jobs = append(g.snap.Jobs, job)
}

// application walks one candidate down the funnel and returns the hire it
// produced, if any.
func (g *generator) application(job *model.Job, k int) (model.Hire, bool) {
	app := model.Application{
		ID:          fmt.Sprintf("app-%s-%03d", job.ID[len("job-"):], k),
		JobID:       job.ID,
		CandidateID: fmt.Sprintf("cand-%05d", g.rng.IntN(100_000)),
		Source:      g.cfg.Channels[g.rng.IntN(len(g.cfg.Channels))],
		StartedAt:   job.PostedAt.Add(g.days(applyDelayDays)),
		Stage:       model.StageApply,
	}
	app.AppliedAt = app.StartedAt
	if !g.chance(submitRate) {
		g.snap.Applications = append(g.snap.Applications, app)
		return model.Hire{}, false
	}
	app.SubmittedAt = app.StartedAt.Add(g.days(submitDelayDays))
	app.AppliedAt = app.SubmittedAt

	at := app.AppliedAt
	g.event(app.ID, model.StageApply, at)

	var hire model.Hire
	hired := false
	for i, rate := range passRates {
		next := funnel[i+1]
		if !g.chance(rate) {
			if next == model.StageHired {
				g.snap.Offers[len(g.snap.Offers)-1].RejectedAt = at.Add(day + g.days(offerDecisionDays))
			}
			if g.chance(rejectRate) {
				at = at.Add(day + g.days(stageStepDays))
				app.Stage = model.StageRejected
				g.event(app.ID, model.StageRejected, at)
			}
			break
		}
		at = at.Add(day + g.days(stageStepDays))

		if next == model.StageHired {
			hire, hired = g.decide(job, app.ID, at)
			if !hired {
				app.Stage = model.StageRejected
				g.event(app.ID, model.StageRejected, at)
				break
			}
			at = hire.HiredAt
		}
		app.Stage = next
		g.event(app.ID, next, at)
		if next == model.StageOffer {
			g.snap.Offers = append(g.snap.Offers, model.Offer{
				ID:        "offer-" + app.ID[len("app-"):],
				AppID:     app.ID,
				OfferedAt: at,
			})
		}
	}

	g.snap.Applications = append(g.snap.Applications, app)
	return hire, hired
}

// decide settles the latest offer. It is accepted only while the job is
// still unfilled.
func (g *generator) decide(job *model.Job, appID string, at time.Time) (model.Hire, bool) {
	offer := &g.snap.Offers[len(g.snap.Offers)-1]
	decided := offer.OfferedAt.Add(day + g.days(offerDecisionDays))
	if !job.HiredAt.IsZero() {
		offer.RejectedAt = decided
		return model.Hire{}, false
	}
	offer.AcceptedAt = decided

	hiredAt := at
	if hiredAt.Before(decided) {
		hiredAt = decided
	}
	hire := model.Hire{
		ID:        "hire-" + appID[len("app-"):],
		AppID:     appID,
		HiredAt:   hiredAt,
		StartDate: hiredAt.Add(startDelayMinDays*day + g.days(startDelayDays)),
	}
	g.snap.Hires = append(g.snap.Hires, hire)

	if g.chance(terminationRate) {
		kind := model.TerminationTerminate
		if g.chance(resignShare) {
			kind = model.TerminationResign
		}
		g.snap.Terminations = append(g.snap.Terminations, model.Termination{
			ID:     "term-" + appID[len("app-"):],
			HireID: hire.ID,
			Type:   kind,
			At:     hire.StartDate.Add(day + g.days(tenureDays)),
		})
	}
	return hire, true
}

func (g *generator) event(appID string, stage model.Stage, at time.Time) {
	g.snap.StageEvents = append(g.snap.StageEvents, model.StageEvent{AppID: appID, Stage: stage, At: at})
}

func (g *generator) channels() {
	for _, ch := range g.cfg.Channels {
		g.snap.Channels = append(g.snap.Channels, model.ChannelStat{
			Channel:     ch,
			Impressions: impressionsMin + g.rng.IntN(impressionsMax),
			Spend:       round2(spendMin + g.rng.Float64()*spendRange),
		})
	}
}

// months yields the calendar months overlapping the window.
func (g *generator) months() []model.Window {
	var out []model.Window
	from := g.cfg.Window.From
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for start.Before(g.cfg.Window.To) {
		end := start.AddDate(0, 1, 0)
		out = append(out, model.Window{From: start, To: end})
		start = end
	}
	return out
}

func (g *generator) costs() {
	for _, month := range g.months() {
		for _, kind := range model.CostKinds {
			base := monthlyCost[string(kind)]
			g.snap.Costs = append(g.snap.Costs, model.CostItem{
				Kind:   kind,
				Amount: round2(base * (0.5 + g.rng.Float64())),
				Period: month,
			})
		}
	}
}

func (g *generator) surveys() {
	for _, month := range g.months() {
		span := int(month.To.Sub(month.From) / day)
		for _, kind := range model.SurveyKinds {
			for i := 0; i < surveysPerKind; i++ {
				g.snap.Surveys = append(g.snap.Surveys, model.SurveyScore{
					Kind:  kind,
					Score: float64(1 + g.rng.IntN(surveyMaxScore)),
					At:    month.From.Add(g.days(span)),
				})
			}
		}
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

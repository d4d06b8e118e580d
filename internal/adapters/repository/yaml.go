package repository

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okian/hirefunnel/internal/domain/model"
)

// Snapshot documents keep timestamps as strings so that a malformed value
// degrades a single record instead of failing the whole document.

type yamlSnapshot struct {
	Jobs         []yamlJob         `yaml:"jobs"`
	Applications []yamlApplication `yaml:"applications"`
	StageEvents  []yamlStageEvent  `yaml:"stage_events"`
	Offers       []yamlOffer       `yaml:"offers"`
	Hires        []yamlHire        `yaml:"hires"`
	Terminations []yamlTermination `yaml:"terminations"`
	Channels     []yamlChannel     `yaml:"channels"`
	Costs        []yamlCost        `yaml:"costs"`
	Surveys      []yamlSurvey      `yaml:"surveys"`
}

type yamlJob struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	PostedAt string `yaml:"posted_at"`
	ClosedAt string `yaml:"closed_at,omitempty"`
	HiredAt  string `yaml:"hired_at,omitempty"`
}

type yamlApplication struct {
	ID          string `yaml:"id"`
	JobID       string `yaml:"job_id"`
	CandidateID string `yaml:"candidate_id"`
	Source      string `yaml:"source"`
	StartedAt   string `yaml:"started_at,omitempty"`
	SubmittedAt string `yaml:"submitted_at,omitempty"`
	AppliedAt   string `yaml:"applied_at"`
	Stage       string `yaml:"stage"`
}

type yamlStageEvent struct {
	AppID string `yaml:"app_id"`
	Stage string `yaml:"stage"`
	At    string `yaml:"at"`
}

type yamlOffer struct {
	ID         string `yaml:"id"`
	AppID      string `yaml:"app_id"`
	OfferedAt  string `yaml:"offered_at"`
	AcceptedAt string `yaml:"accepted_at,omitempty"`
	RejectedAt string `yaml:"rejected_at,omitempty"`
}

type yamlHire struct {
	ID        string `yaml:"id"`
	AppID     string `yaml:"app_id"`
	HiredAt   string `yaml:"hired_at"`
	StartDate string `yaml:"start_date,omitempty"`
}

type yamlTermination struct {
	ID     string `yaml:"id"`
	HireID string `yaml:"hire_id"`
	Type   string `yaml:"type"`
	At     string `yaml:"at"`
}

type yamlChannel struct {
	Channel     string  `yaml:"channel"`
	Impressions int     `yaml:"impressions"`
	Spend       float64 `yaml:"spend"`
}

type yamlCost struct {
	Kind   string  `yaml:"kind"`
	Amount float64 `yaml:"amount"`
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
}

type yamlSurvey struct {
	Kind  string  `yaml:"kind"`
	Score float64 `yaml:"score"`
	At    string  `yaml:"at"`
}

// decoder accumulates per-record problems while converting a document.
// A bad required field drops the record; a bad optional timestamp is
// cleared so the metrics depending on it become unavailable.
type decoder struct {
	issues []error
}

func (d *decoder) issue(section string, i int, err error) {
	d.issues = append(d.issues, fmt.Errorf("%s[%d]: %w", section, i, err))
}

func (d *decoder) optional(section string, i int, field, v string) time.Time {
	t, err := model.ParseOptionalTime(field, v)
	if err != nil {
		d.issue(section, i, err)
		return time.Time{}
	}
	return t
}

// DecodeSnapshot reads a YAML snapshot document. Records that cannot be
// converted are skipped or degraded and reported in issues; err is only set
// when the document itself cannot be parsed.
func DecodeSnapshot(r io.Reader) (snap model.Snapshot, issues []error, err error) {
	var doc yamlSnapshot
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return model.Snapshot{}, nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	d := &decoder{}
	for i, j := range doc.Jobs {
		posted, err := model.ParseTime("posted_at", j.PostedAt)
		if err != nil {
			d.issue("jobs", i, err)
			continue
		}
		snap.Jobs = append(snap.Jobs, model.Job{
			ID:       j.ID,
			Title:    j.Title,
			PostedAt: posted,
			ClosedAt: d.optional("jobs", i, "closed_at", j.ClosedAt),
			HiredAt:  d.optional("jobs", i, "hired_at", j.HiredAt),
		})
	}
	for i, a := range doc.Applications {
		applied, err := model.ParseTime("applied_at", a.AppliedAt)
		if err != nil {
			d.issue("applications", i, err)
			continue
		}
		stage, err := model.ParseStage(a.Stage)
		if err != nil {
			d.issue("applications", i, err)
			continue
		}
		snap.Applications = append(snap.Applications, model.Application{
			ID:          a.ID,
			JobID:       a.JobID,
			CandidateID: a.CandidateID,
			Source:      a.Source,
			StartedAt:   d.optional("applications", i, "started_at", a.StartedAt),
			SubmittedAt: d.optional("applications", i, "submitted_at", a.SubmittedAt),
			AppliedAt:   applied,
			Stage:       stage,
		})
	}
	for i, e := range doc.StageEvents {
		at, err := model.ParseTime("at", e.At)
		if err != nil {
			d.issue("stage_events", i, err)
			continue
		}
		stage, err := model.ParseStage(e.Stage)
		if err != nil {
			d.issue("stage_events", i, err)
			continue
		}
		snap.StageEvents = append(snap.StageEvents, model.StageEvent{AppID: e.AppID, Stage: stage, At: at})
	}
	for i, o := range doc.Offers {
		offered, err := model.ParseTime("offered_at", o.OfferedAt)
		if err != nil {
			d.issue("offers", i, err)
			continue
		}
		snap.Offers = append(snap.Offers, model.Offer{
			ID:         o.ID,
			AppID:      o.AppID,
			OfferedAt:  offered,
			AcceptedAt: d.optional("offers", i, "accepted_at", o.AcceptedAt),
			RejectedAt: d.optional("offers", i, "rejected_at", o.RejectedAt),
		})
	}
	for i, h := range doc.Hires {
		hired, err := model.ParseTime("hired_at", h.HiredAt)
		if err != nil {
			d.issue("hires", i, err)
			continue
		}
		snap.Hires = append(snap.Hires, model.Hire{
			ID:        h.ID,
			AppID:     h.AppID,
			HiredAt:   hired,
			StartDate: d.optional("hires", i, "start_date", h.StartDate),
		})
	}
	for i, t := range doc.Terminations {
		at, err := model.ParseTime("at", t.At)
		if err != nil {
			d.issue("terminations", i, err)
			continue
		}
		typ, err := model.ParseTerminationType(t.Type)
		if err != nil {
			d.issue("terminations", i, err)
			continue
		}
		snap.Terminations = append(snap.Terminations, model.Termination{ID: t.ID, HireID: t.HireID, Type: typ, At: at})
	}
	for i, c := range doc.Channels {
		if err := model.CheckFinite("spend", c.Spend); err != nil {
			d.issue("channels", i, err)
			continue
		}
		snap.Channels = append(snap.Channels, model.ChannelStat{Channel: c.Channel, Impressions: c.Impressions, Spend: c.Spend})
	}
	for i, c := range doc.Costs {
		kind, err := model.ParseCostKind(c.Kind)
		if err != nil {
			d.issue("costs", i, err)
			continue
		}
		period, err := model.NewWindow(c.From, c.To)
		if err != nil {
			d.issue("costs", i, err)
			continue
		}
		if err := model.CheckFinite("amount", c.Amount); err != nil {
			d.issue("costs", i, err)
			continue
		}
		snap.Costs = append(snap.Costs, model.CostItem{Kind: kind, Amount: c.Amount, Period: period})
	}
	for i, s := range doc.Surveys {
		at, err := model.ParseTime("at", s.At)
		if err != nil {
			d.issue("surveys", i, err)
			continue
		}
		kind, err := model.ParseSurveyKind(s.Kind)
		if err != nil {
			d.issue("surveys", i, err)
			continue
		}
		if err := model.CheckFinite("score", s.Score); err != nil {
			d.issue("surveys", i, err)
			continue
		}
		snap.Surveys = append(snap.Surveys, model.SurveyScore{Kind: kind, Score: s.Score, At: at})
	}
	return snap, d.issues, nil
}

// EncodeSnapshot writes s as a YAML snapshot document readable by DecodeSnapshot.
func EncodeSnapshot(w io.Writer, s model.Snapshot) error {
	doc := yamlSnapshot{}
	for _, j := range s.Jobs {
		doc.Jobs = append(doc.Jobs, yamlJob{
			ID: j.ID, Title: j.Title,
			PostedAt: formatTime(j.PostedAt), ClosedAt: formatTime(j.ClosedAt), HiredAt: formatTime(j.HiredAt),
		})
	}
	for _, a := range s.Applications {
		doc.Applications = append(doc.Applications, yamlApplication{
			ID: a.ID, JobID: a.JobID, CandidateID: a.CandidateID, Source: a.Source,
			StartedAt: formatTime(a.StartedAt), SubmittedAt: formatTime(a.SubmittedAt),
			AppliedAt: formatTime(a.AppliedAt), Stage: string(a.Stage),
		})
	}
	for _, e := range s.StageEvents {
		doc.StageEvents = append(doc.StageEvents, yamlStageEvent{AppID: e.AppID, Stage: string(e.Stage), At: formatTime(e.At)})
	}
	for _, o := range s.Offers {
		doc.Offers = append(doc.Offers, yamlOffer{
			ID: o.ID, AppID: o.AppID, OfferedAt: formatTime(o.OfferedAt),
			AcceptedAt: formatTime(o.AcceptedAt), RejectedAt: formatTime(o.RejectedAt),
		})
	}
	for _, h := range s.Hires {
		doc.Hires = append(doc.Hires, yamlHire{ID: h.ID, AppID: h.AppID, HiredAt: formatTime(h.HiredAt), StartDate: formatTime(h.StartDate)})
	}
	for _, t := range s.Terminations {
		doc.Terminations = append(doc.Terminations, yamlTermination{ID: t.ID, HireID: t.HireID, Type: string(t.Type), At: formatTime(t.At)})
	}
	for _, c := range s.Channels {
		doc.Channels = append(doc.Channels, yamlChannel(c))
	}
	for _, c := range s.Costs {
		doc.Costs = append(doc.Costs, yamlCost{Kind: string(c.Kind), Amount: c.Amount, From: formatTime(c.Period.From), To: formatTime(c.Period.To)})
	}
	for _, v := range s.Surveys {
		doc.Surveys = append(doc.Surveys, yamlSurvey{Kind: string(v.Kind), Score: v.Score, At: formatTime(v.At)})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}

// formatTime writes dates at UTC midnight as plain dates, everything else as RFC3339.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Equal(t.Truncate(24 * time.Hour)) {
		return t.Format(model.DateLayout)
	}
	return t.Format(time.RFC3339)
}

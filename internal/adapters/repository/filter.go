package repository

import (
	"github.com/okian/hirefunnel/internal/domain/model"
)

type idSet map[string]struct{}

func (s idSet) add(id string) { s[id] = struct{}{} }

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// FilterSnapshot narrows all to the records of window w:
//   - hires, offers and applications dated inside w, plus the applications
//     referenced by those hires and offers;
//   - stage events of the selected applications;
//   - jobs open at any point of w, plus the jobs of selected applications;
//   - terminations of the selected hires, whenever they happened;
//   - cost items whose period overlaps w, surveys dated inside w;
//   - every channel stat.
//
// Input order is preserved. all is not modified.
func FilterSnapshot(all model.Snapshot, w model.Window) model.Snapshot {
	out := model.Snapshot{Window: w}

	appIDs := idSet{}
	hireIDs := idSet{}
	for _, h := range all.Hires {
		if w.Contains(h.HiredAt) {
			out.Hires = append(out.Hires, h)
			hireIDs.add(h.ID)
			appIDs.add(h.AppID)
		}
	}
	for _, o := range all.Offers {
		if w.Contains(o.OfferedAt) {
			out.Offers = append(out.Offers, o)
			appIDs.add(o.AppID)
		}
	}

	jobIDs := idSet{}
	for _, a := range all.Applications {
		if w.Contains(a.AppliedAt) || appIDs.has(a.ID) {
			out.Applications = append(out.Applications, a)
			appIDs.add(a.ID)
			jobIDs.add(a.JobID)
		}
	}
	for _, e := range all.StageEvents {
		if appIDs.has(e.AppID) {
			out.StageEvents = append(out.StageEvents, e)
		}
	}
	for _, j := range all.Jobs {
		if openDuring(j, w) || jobIDs.has(j.ID) {
			out.Jobs = append(out.Jobs, j)
		}
	}
	for _, t := range all.Terminations {
		if hireIDs.has(t.HireID) {
			out.Terminations = append(out.Terminations, t)
		}
	}
	for _, c := range all.Costs {
		if overlaps(c.Period, w) {
			out.Costs = append(out.Costs, c)
		}
	}
	for _, s := range all.Surveys {
		if w.Contains(s.At) {
			out.Surveys = append(out.Surveys, s)
		}
	}
	out.Channels = append(out.Channels, all.Channels...)
	return out
}

// openDuring reports whether j was posted before w ends and not closed
// before w starts.
func openDuring(j model.Job, w model.Window) bool {
	if j.PostedAt.IsZero() || !j.PostedAt.Before(w.To) {
		return false
	}
	end := j.ClosedAt
	if end.IsZero() || (!j.HiredAt.IsZero() && j.HiredAt.Before(end)) {
		end = j.HiredAt
	}
	return end.IsZero() || !end.Before(w.From)
}

func overlaps(p, w model.Window) bool {
	return p.From.Before(w.To) && p.To.After(w.From)
}

package model

// Snapshot holds every record collection for one reporting window. The data
// source is responsible for filtering records to the window.
type Snapshot struct {
	Window       Window        `json:"window"`
	Jobs         []Job         `json:"jobs"`
	Applications []Application `json:"applications"`
	StageEvents  []StageEvent  `json:"stage_events"`
	Offers       []Offer       `json:"offers"`
	Hires        []Hire        `json:"hires"`
	Terminations []Termination `json:"terminations"`
	Channels     []ChannelStat `json:"channels"`
	Costs        []CostItem    `json:"costs"`
	Surveys      []SurveyScore `json:"surveys"`
}

// Index offers id lookups over a snapshot. It is built once per aggregation
// pass and never modified afterwards.
type Index struct {
	Jobs         map[string]Job
	Applications map[string]Application
	Hires        map[string]Hire
}

// NewIndex builds lookups for s. On duplicate ids the first record wins.
func NewIndex(s Snapshot) Index {
	idx := Index{
		Jobs:         make(map[string]Job, len(s.Jobs)),
		Applications: make(map[string]Application, len(s.Applications)),
		Hires:        make(map[string]Hire, len(s.Hires)),
	}
	for _, j := range s.Jobs {
		if _, ok := idx.Jobs[j.ID]; !ok {
			idx.Jobs[j.ID] = j
		}
	}
	for _, a := range s.Applications {
		if _, ok := idx.Applications[a.ID]; !ok {
			idx.Applications[a.ID] = a
		}
	}
	for _, h := range s.Hires {
		if _, ok := idx.Hires[h.ID]; !ok {
			idx.Hires[h.ID] = h
		}
	}
	return idx
}

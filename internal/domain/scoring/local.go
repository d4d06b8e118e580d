package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Share of the score carried by skill overlap; the rest comes from experience.
const (
	skillShare      = 80.0
	experienceShare = maxScore - skillShare
)

// Option applies a configuration option to the LocalScorer.
type Option func(*LocalScorer)

// WithSkillWeightsFromConfig sets skill weights from a configuration map.
// Skill names are matched case-insensitively.
func WithSkillWeightsFromConfig(weights map[string]float64, defaultWeight float64) Option {
	return func(s *LocalScorer) {
		s.skillWeights = make(map[string]float64, len(weights))
		for skill, weight := range weights {
			if weight > 0 {
				s.skillWeights[normalizeSkill(skill)] = weight
			}
		}
		if defaultWeight > 0 {
			s.defaultWeight = defaultWeight
		}
	}
}

// LocalScorer is the deterministic fit scorer: weighted required-skill
// overlap plus an experience component.
type LocalScorer struct {
	skillWeights  map[string]float64
	defaultWeight float64
}

// NewLocalScorer creates a local scorer with configuration options.
func NewLocalScorer(opts ...Option) *LocalScorer {
	s := &LocalScorer{
		skillWeights:  make(map[string]float64),
		defaultWeight: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the fit of candidate for job. It never fails unless ctx is done.
func (s *LocalScorer) Score(ctx context.Context, candidate CandidateProfile, job JobProfile) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}

	has := make(map[string]struct{}, len(candidate.Skills))
	for _, skill := range candidate.Skills {
		has[normalizeSkill(skill)] = struct{}{}
	}

	var total, matched float64
	var missing []string
	seen := make(map[string]struct{}, len(job.RequiredSkills))
	for _, skill := range job.RequiredSkills {
		key := normalizeSkill(skill)
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		w := s.weight(key)
		total += w
		if _, ok := has[key]; ok {
			matched += w
		} else {
			missing = append(missing, key)
		}
	}

	skillPart := skillShare
	if total > 0 {
		skillPart = skillShare * matched / total
	}
	expPart := experienceShare
	if job.MinYearsExperience > 0 {
		expPart = experienceShare * math.Min(1, math.Max(0, candidate.YearsExperience)/job.MinYearsExperience)
	}

	score := math.Round((skillPart+expPart)*100) / 100
	score = math.Max(minScore, math.Min(maxScore, score))

	return Result{
		Score:      score,
		Rationale:  rationale(len(seen)-len(missing), len(seen), missing, candidate.YearsExperience, job.MinYearsExperience),
		Provenance: ProvenanceFallback,
		Note:       FallbackNote,
	}, nil
}

func (s *LocalScorer) weight(skill string) float64 {
	if w, ok := s.skillWeights[skill]; ok {
		return w
	}
	return s.defaultWeight
}

func rationale(matched, required int, missing []string, years, minYears float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "matched %d of %d required skills", matched, required)
	if len(missing) > 0 {
		fmt.Fprintf(&b, " (missing: %s)", strings.Join(missing, ", "))
	}
	if minYears > 0 {
		fmt.Fprintf(&b, "; %.1f of %.1f years experience", years, minYears)
	}
	return b.String()
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package kpi

import (
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/stats"
)

// percent scales a ratio to a percentage.
const percent = 100

// CostPerHire is internal plus external recruiting cost per hire.
func CostPerHire(internal, external float64, hires int) float64 {
	return stats.SafeDivide(internal+external, float64(hires))
}

// ChannelCPA is channel spend per application.
func ChannelCPA(spend float64, applications int) float64 {
	return stats.SafeDivide(spend, float64(applications))
}

// ChannelCPH is channel spend per hire.
func ChannelCPH(spend float64, hires int) float64 {
	return stats.SafeDivide(spend, float64(hires))
}

// CostToOPL sums the amount of every item regardless of kind. Callers select
// the buckets by filtering items beforehand.
func CostToOPL(items []model.CostItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

// Effectiveness describes how well a channel's impressions turn into
// applications.
type Effectiveness struct {
	ApplicationsPerImpression float64 `json:"applications_per_impression"`
	// CTR is ApplicationsPerImpression as a percentage.
	CTR float64 `json:"ctr"`
}

// ChannelEffectiveness relates applications to impressions.
func ChannelEffectiveness(applications, impressions int) Effectiveness {
	r := stats.Ratio(applications, impressions)
	return Effectiveness{ApplicationsPerImpression: r, CTR: r * percent}
}

// Package recency discounts older resume evidence.
package recency

import (
	"math"

	"github.com/jonathan/skill-validator/internal/types"
)

// Default decay tunables
const (
	DefaultHalfLifeYears = 4.0
	DefaultRankDecay     = 0.15
)

// Weighter converts a passage's temporal anchor into a weight in [0,1].
// Dated passages decay exponentially with their age relative to the most
// recent date on the resume; undated passages decay with their entry rank.
type Weighter struct {
	HalfLifeYears float64
	RankDecay     float64
}

// NewWeighter returns a Weighter with the default tunables
func NewWeighter() *Weighter {
	return &Weighter{
		HalfLifeYears: DefaultHalfLifeYears,
		RankDecay:     DefaultRankDecay,
	}
}

// Weight returns 1 - recencyWeight*(1-decay). A recencyWeight of 0 always
// yields exactly 1.
func (w *Weighter) Weight(passage types.EvidencePassage, recencyWeight float64) float64 {
	if recencyWeight == 0 {
		return 1.0
	}
	recencyWeight = clamp01(recencyWeight)

	decay := w.Decay(passage.Anchor)
	return clamp01(1 - recencyWeight*(1-decay))
}

// Decay returns the raw decay factor of an anchor, 1 meaning current
func (w *Weighter) Decay(anchor types.TemporalAnchor) float64 {
	if anchor.Range != nil && anchor.Reference != nil {
		return w.ageDecay(ageYears(*anchor.Range, *anchor.Reference))
	}
	return w.rankDecay(anchor.Rank)
}

func (w *Weighter) ageDecay(years float64) float64 {
	halfLife := w.HalfLifeYears
	if halfLife <= 0 {
		halfLife = DefaultHalfLifeYears
	}
	return math.Exp2(-years / halfLife)
}

func (w *Weighter) rankDecay(rank int) float64 {
	if rank <= 0 {
		return 1
	}
	rate := w.RankDecay
	if rate < 0 {
		rate = 0
	}
	return math.Exp(-rate * float64(rank))
}

// ageYears is the time between the end of r and the reference date, never negative
func ageYears(r types.DateRange, reference types.YearMonth) float64 {
	if r.Current {
		return 0
	}
	months := reference.Months() - r.End.Months()
	if months <= 0 {
		return 0
	}
	return float64(months) / 12
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

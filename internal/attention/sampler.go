package attention

import (
	"math"
	"time"
)

const (
	FullFocus = 100.0
	NoFocus   = 0.0
)

// Accumulator holds the session totals. Every field is non-decreasing.
type Accumulator struct {
	ProductiveSeconds     float64
	UnproductiveSeconds   float64
	FocusScoreWeightedSum float64
	FocusSampleWeight     float64
}

// AverageScore is the time-weighted focus score, or fallback when no time
// has been sampled yet. The result is rounded and kept in [0,100].
func (a Accumulator) AverageScore(fallback float64) int {
	score := fallback
	if a.FocusSampleWeight > 0 {
		score = a.FocusScoreWeightedSum / a.FocusSampleWeight
	}
	return int(math.Round(math.Max(NoFocus, math.Min(FullFocus, score))))
}

// Score is the instantaneous focus signal: all or nothing.
func Score(visible, focused bool) float64 {
	if visible && focused {
		return FullFocus
	}
	return NoFocus
}

// Sampler converts wall-clock time between samples into productive and
// unproductive seconds.
type Sampler struct {
	threshold  float64
	lastSample time.Time
	acc        Accumulator
}

// NewSampler starts measuring at mountedAt, so the first sample covers the
// time since mount.
func NewSampler(threshold float64, mountedAt time.Time) *Sampler {
	return &Sampler{threshold: threshold, lastSample: mountedAt}
}

// Sample accounts for the time since the previous sample and returns the
// instantaneous score used.
func (s *Sampler) Sample(now time.Time, visible, focused bool) float64 {
	delta := now.Sub(s.lastSample).Seconds()
	if delta < 0 {
		delta = 0
	} else {
		s.lastSample = now
	}

	score := Score(visible, focused)
	s.acc.FocusScoreWeightedSum += score * delta
	s.acc.FocusSampleWeight += delta
	if score >= s.threshold {
		s.acc.ProductiveSeconds += delta
	} else {
		s.acc.UnproductiveSeconds += delta
	}
	return score
}

func (s *Sampler) Accumulator() Accumulator {
	return s.acc
}

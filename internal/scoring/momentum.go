// Package scoring provides the weekly momentum score calculation.
package scoring

import (
	"github.com/thebtf/momentum/pkg/models"
)

// Calculator computes momentum scores from weekly counters.
type Calculator struct {
	config *models.MomentumConfig
}

// NewCalculator creates a new momentum calculator.
// If config is nil, uses the default configuration.
func NewCalculator(config *models.MomentumConfig) *Calculator {
	if config == nil {
		config = models.DefaultMomentumConfig()
	}
	return &Calculator{config: config}
}

var defaultCalculator = NewCalculator(nil)

// ComputeMomentumScore returns the 0-100 momentum score of a week using the
// default caps and weights.
func ComputeMomentumScore(counters models.WeeklyCounters) int {
	return defaultCalculator.Score(counters)
}

// Score computes the momentum score for one week of counters.
//
// The scoring formula:
//
//	Score = round_half_up( Σ min(value/cap, 1) × weight / Σ weight × 100 )
//
// The sum is evaluated as an exact fraction over the least common multiple
// of the caps, so literal inputs always produce the same integer score.
// Counters above their cap saturate. Negative counters count as zero.
func (c *Calculator) Score(counters models.WeeklyCounters) int {
	totalWeight := int64(c.config.TotalWeight())
	if totalWeight <= 0 {
		return 0
	}

	lcm := int64(1)
	for _, r := range c.config.Rules {
		if r.Cap > 0 {
			lcm = lcmInt64(lcm, int64(r.Cap))
		}
	}

	// weighted = Σ min(v, cap) × weight × (lcm / cap), i.e. Σ normalized × weight × lcm
	var weighted int64
	for _, r := range c.config.Rules {
		if r.Cap <= 0 {
			continue
		}
		v := int64(clamp(counters.Get(r.Counter), 0, r.Cap))
		weighted += v * int64(r.Weight) * (lcm / int64(r.Cap))
	}

	num := 100 * weighted
	den := totalWeight * lcm
	// Half-up rounding of num/den for non-negative operands.
	return int((2*num + den) / (2 * den))
}

// Components returns the per-metric breakdown of the score.
// Useful for explaining a score to users.
func (c *Calculator) Components(counters models.WeeklyCounters) ScoreComponents {
	result := ScoreComponents{
		Metrics: make([]MetricComponent, 0, len(c.config.Rules)),
		Score:   c.Score(counters),
	}

	totalWeight := float64(c.config.TotalWeight())
	for _, r := range c.config.Rules {
		mc := MetricComponent{
			Counter: r.Counter,
			Value:   counters.Get(r.Counter),
			Cap:     r.Cap,
			Weight:  r.Weight,
		}
		if r.Cap > 0 {
			mc.Normalized = float64(clamp(mc.Value, 0, r.Cap)) / float64(r.Cap)
		}
		if totalWeight > 0 {
			mc.Contribution = mc.Normalized * float64(r.Weight) / totalWeight * 100
		}
		mc.Saturated = r.Cap > 0 && mc.Value >= r.Cap
		result.Metrics = append(result.Metrics, mc)
	}

	return result
}

// ScoreComponents contains the breakdown of a momentum score calculation.
type ScoreComponents struct {
	Metrics []MetricComponent `json:"metrics"`
	Score   int               `json:"score"`
}

// MetricComponent is one counter's share of the momentum score.
type MetricComponent struct {
	Counter      models.Counter `json:"counter"`
	Value        int            `json:"value"`
	Cap          int            `json:"cap"`
	Weight       int            `json:"weight"`
	Normalized   float64        `json:"normalized"`
	Contribution float64        `json:"contribution"`
	Saturated    bool           `json:"saturated"`
}

// GetConfig returns the current momentum configuration.
func (c *Calculator) GetConfig() *models.MomentumConfig {
	return c.config
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func gcdInt64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcmInt64(a, b int64) int64 {
	return a / gcdInt64(a, b) * b
}

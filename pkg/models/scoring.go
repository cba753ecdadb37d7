package models

// MetricRule caps and weights one counter in the momentum score.
// A counter contributes min(value/Cap, 1) × Weight.
type MetricRule struct {
	Counter Counter `json:"counter"`
	Cap     int     `json:"cap"`
	Weight  int     `json:"weight"`
}

// MomentumConfig contains the caps and weights of the momentum score.
// Caps and weights are integers so the score can be computed exactly.
type MomentumConfig struct {
	Rules []MetricRule `json:"rules"`
}

// DefaultMetricRules are the production caps and weights. Weights sum to 100.
// Interview count is tracked but does not contribute to momentum.
var DefaultMetricRules = []MetricRule{
	{Counter: CounterApplications, Cap: 10, Weight: 30}, // Applying is the core signal
	{Counter: CounterResumeUpdates, Cap: 2, Weight: 20}, // Resume kept fresh
	{Counter: CounterJobsSaved, Cap: 20, Weight: 15},    // Pipeline building
	{Counter: CounterSkillProgress, Cap: 5, Weight: 15}, // Skill development
	{Counter: CounterJobsViewed, Cap: 50, Weight: 10},   // Market awareness
	{Counter: CounterNetworking, Cap: 5, Weight: 10},    // Outreach
}

// DefaultMomentumConfig returns the default momentum configuration.
func DefaultMomentumConfig() *MomentumConfig {
	rules := make([]MetricRule, len(DefaultMetricRules))
	copy(rules, DefaultMetricRules)
	return &MomentumConfig{Rules: rules}
}

// TotalWeight returns the sum of all rule weights.
func (c *MomentumConfig) TotalWeight() int {
	total := 0
	for _, r := range c.Rules {
		total += r.Weight
	}
	return total
}

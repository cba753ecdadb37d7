package insights

import "github.com/thebtf/momentum/pkg/models"

// DefaultRules is the built-in rule order. Earlier rules win when more than
// MaxRecommendations fire.
var DefaultRules = []Rule{
	IncreaseApplicationRate,
	AddNetworkingActivities,
	TrackSkillDevelopment,
	RefreshResume,
	MomentumDirection,
	SetDailyApplicationGoal,
}

// Engine evaluates an ordered rule list.
type Engine struct {
	rules []Rule
	limit int
}

// NewEngine creates an engine with the default rules.
func NewEngine() *Engine {
	return NewEngineWithRules(DefaultRules, MaxRecommendations)
}

// NewEngineWithRules creates an engine with custom rules and limit.
// A non-positive limit means MaxRecommendations.
func NewEngineWithRules(rules []Rule, limit int) *Engine {
	if limit <= 0 {
		limit = MaxRecommendations
	}
	r := make([]Rule, len(rules))
	copy(r, rules)
	return &Engine{rules: r, limit: limit}
}

// Run evaluates every rule in order and truncates the result to the engine limit.
func (e *Engine) Run(ctx *Context) []models.Recommendation {
	out := make([]models.Recommendation, 0, e.limit)
	for _, rule := range e.rules {
		if r, ok := rule.Apply(ctx); ok {
			out = append(out, r)
		}
	}
	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

// GenerateRecommendations runs the default engine.
func GenerateRecommendations(ctx *Context) []models.Recommendation {
	return NewEngine().Run(ctx)
}

// Keys returns the recommendation keys in order.
func Keys(recs []models.Recommendation) []string {
	keys := make([]string, len(recs))
	for i, r := range recs {
		keys[i] = r.Key
	}
	return keys
}

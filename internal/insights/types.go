// Package insights derives prioritized recommendation tokens from a
// computed week, its trend and its benchmark comparison.
package insights

import "github.com/thebtf/momentum/pkg/models"

// MaxRecommendations caps the number of recommendations returned.
const MaxRecommendations = 4

// Recommendation keys. Keys are stable identifiers for localized text.
const (
	KeyIncreaseApplicationRate = "increase_application_rate"
	KeyAddNetworkingActivities = "add_networking_activities"
	KeyTrackSkillDevelopment   = "track_skill_development"
	KeyRefreshResume           = "refresh_resume"
	KeyReengageScheduleTime    = "reengage_schedule_search_time"
	KeyMaintainMomentumQuality = "maintain_momentum_focus_quality"
	KeySetDailyApplicationGoal = "set_daily_application_goal"
)

// Context is everything a rule may inspect.
type Context struct {
	Counters  models.WeeklyCounters
	Trend     models.Trend
	Benchmark models.BenchmarkComparison
}

// NewContext builds a rule context from a computed week.
// A nil week is treated as all-zero counters.
func NewContext(week *models.WeeklyProgress, trend models.Trend, cmp models.BenchmarkComparison) *Context {
	c := &Context{Trend: trend, Benchmark: cmp}
	if week != nil {
		c.Counters = week.WeeklyCounters
	}
	return c
}

// Rule yields at most one recommendation.
type Rule struct {
	Name  string
	Apply func(ctx *Context) (models.Recommendation, bool)
}

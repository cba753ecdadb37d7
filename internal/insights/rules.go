package insights

import "github.com/thebtf/momentum/pkg/models"

// Thresholds used by the built-in rules.
const (
	MinWeeklyApplications = 2
	BenchmarkLagThreshold = -20.0
)

// IncreaseApplicationRate fires when fewer than two applications were sent this week.
var IncreaseApplicationRate = Rule{
	Name: "increase_application_rate",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		apps := ctx.Counters.ApplicationsCount
		if apps >= MinWeeklyApplications {
			return models.Recommendation{}, false
		}
		return rec(KeyIncreaseApplicationRate, map[string]float64{
			"applications": float64(apps),
			"target":       MinWeeklyApplications,
		}), true
	},
}

// AddNetworkingActivities fires when no networking happened this week.
var AddNetworkingActivities = Rule{
	Name: "add_networking_activities",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		if ctx.Counters.NetworkingActivities != 0 {
			return models.Recommendation{}, false
		}
		return rec(KeyAddNetworkingActivities, nil), true
	},
}

// TrackSkillDevelopment fires when no skill progress was logged this week.
var TrackSkillDevelopment = Rule{
	Name: "track_skill_development",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		if ctx.Counters.SkillProgressUpdates != 0 {
			return models.Recommendation{}, false
		}
		return rec(KeyTrackSkillDevelopment, nil), true
	},
}

// RefreshResume fires when the user is applying with an untouched resume.
var RefreshResume = Rule{
	Name: "refresh_resume",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		if ctx.Counters.ResumeUpdates != 0 || ctx.Counters.ApplicationsCount < 1 {
			return models.Recommendation{}, false
		}
		return rec(KeyRefreshResume, map[string]float64{
			"applications": float64(ctx.Counters.ApplicationsCount),
		}), true
	},
}

// MomentumDirection reacts to a declining or improving trend.
var MomentumDirection = Rule{
	Name: "momentum_direction",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		switch ctx.Trend {
		case models.TrendDeclining:
			return rec(KeyReengageScheduleTime, nil), true
		case models.TrendImproving:
			return rec(KeyMaintainMomentumQuality, nil), true
		default:
			return models.Recommendation{}, false
		}
	},
}

// SetDailyApplicationGoal fires when applications lag the peer cohort by more than 20%.
var SetDailyApplicationGoal = Rule{
	Name: "set_daily_application_goal",
	Apply: func(ctx *Context) (models.Recommendation, bool) {
		if ctx.Benchmark.ApplicationsLag() >= BenchmarkLagThreshold {
			return models.Recommendation{}, false
		}
		return rec(KeySetDailyApplicationGoal, map[string]float64{
			"delta":        ctx.Benchmark.Delta.ApplicationsPerWeek,
			"peer_average": ctx.Benchmark.PeerAverage.ApplicationsPerWeek,
		}), true
	},
}

func rec(key string, params map[string]float64) models.Recommendation {
	return models.Recommendation{Key: key, Params: params}
}

package models

import "time"

// Trend classifies the direction of recent momentum scores.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Recommendation is a parameterized recommendation token.
// Key is stable for localization; Params fill placeholders in the localized text.
type Recommendation struct {
	Params map[string]float64 `json:"params,omitempty"`
	Key    string             `json:"key"`
}

// ProgressSummary is the per-request read model. It is never persisted.
type ProgressSummary struct {
	GeneratedAt         time.Time           `json:"generated_at"`
	CurrentWeek         *WeeklyProgress     `json:"current_week"`
	Milestones          []*CareerMilestone  `json:"milestones"`
	RecentActivities    []*UserActivity     `json:"recent_activities"`
	NextMilestones      []*CareerMilestone  `json:"next_milestones"`
	AIRecommendations   []string            `json:"ai_recommendations"`
	Recommendations     []Recommendation    `json:"recommendations"`
	MomentumTrend       Trend               `json:"momentum_trend"`
	BenchmarkComparison BenchmarkComparison `json:"benchmark_comparison"`
	WeeklyStreak        int                 `json:"weekly_streak"`
}

// Package trend analyzes momentum history across weeks.
package trend

import (
	"sort"

	"github.com/thebtf/momentum/pkg/models"
)

const (
	// StreakThreshold is the momentum score a week must exceed to extend a streak.
	StreakThreshold = 20

	// TrendThreshold is the score swing that separates improving or declining from stable.
	TrendThreshold = 15

	// MinTrendWeeks is the history length required for a non-stable trend.
	MinTrendWeeks = 3
)

// sortedDesc returns a copy of history ordered by week_start, most recent first.
// Nil entries are dropped.
func sortedDesc(history []*models.WeeklyProgress) []*models.WeeklyProgress {
	out := make([]*models.WeeklyProgress, 0, len(history))
	for _, w := range history {
		if w != nil {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].WeekStart.Before(out[i].WeekStart)
	})
	return out
}

// WeeklyStreak counts consecutive weeks, starting from the most recent,
// whose momentum score exceeds StreakThreshold.
func WeeklyStreak(history []*models.WeeklyProgress) int {
	streak := 0
	for _, w := range sortedDesc(history) {
		if w.MomentumScore <= StreakThreshold {
			break
		}
		streak++
	}
	return streak
}

// MomentumTrend compares the average of the two most recent weeks against
// the third most recent.
func MomentumTrend(history []*models.WeeklyProgress) models.Trend {
	weeks := sortedDesc(history)
	if len(weeks) < MinTrendWeeks {
		return models.TrendStable
	}

	recent := float64(weeks[0].MomentumScore+weeks[1].MomentumScore) / 2
	diff := recent - float64(weeks[2].MomentumScore)

	switch {
	case diff > TrendThreshold:
		return models.TrendImproving
	case diff < -TrendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// MergeCurrentWeek returns history with current replacing any entry for the
// same week. The input slice is not modified.
func MergeCurrentWeek(history []*models.WeeklyProgress, current *models.WeeklyProgress) []*models.WeeklyProgress {
	out := make([]*models.WeeklyProgress, 0, len(history)+1)
	for _, w := range history {
		if w == nil {
			continue
		}
		if current != nil && w.WeekStart.Equal(current.WeekStart) {
			continue
		}
		out = append(out, w)
	}
	if current != nil {
		out = append(out, current)
	}
	return out
}

// Latest returns the n most recent weeks of history, most recent first.
// A non-positive n keeps every week.
func Latest(history []*models.WeeklyProgress, n int) []*models.WeeklyProgress {
	out := sortedDesc(history)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

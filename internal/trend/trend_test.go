package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/thebtf/momentum/pkg/models"
)

type TrendSuite struct {
	suite.Suite
}

func TestTrendSuite(t *testing.T) {
	suite.Run(t, new(TrendSuite))
}

// weeks builds history with the first score on the most recent week,
// each following score one week earlier.
func weeks(scores ...int) []*models.WeeklyProgress {
	latest := models.MustParseDate("2025-03-10")
	out := make([]*models.WeeklyProgress, len(scores))
	for i, s := range scores {
		out[i] = &models.WeeklyProgress{
			UserID:        "u1",
			WeekStart:     models.Date{Time: latest.AddDate(0, 0, -7*i)},
			MomentumScore: s,
		}
	}
	return out
}

func reversed(in []*models.WeeklyProgress) []*models.WeeklyProgress {
	out := make([]*models.WeeklyProgress, len(in))
	for i := range in {
		out[len(in)-1-i] = in[i]
	}
	return out
}

// =============================================================================
// STREAK
// =============================================================================

func (s *TrendSuite) TestWeeklyStreak_StopsAtFirstLowWeek() {
	s.Equal(2, WeeklyStreak(weeks(25, 30, 15)))
}

func (s *TrendSuite) TestWeeklyStreak_IgnoresInputOrder() {
	s.Equal(2, WeeklyStreak(reversed(weeks(25, 30, 15))))
}

func (s *TrendSuite) TestWeeklyStreak_ThresholdIsExclusive() {
	s.Equal(0, WeeklyStreak(weeks(20, 90, 90)))
	s.Equal(1, WeeklyStreak(weeks(21, 20, 90)))
}

func (s *TrendSuite) TestWeeklyStreak_AllAbove() {
	s.Equal(4, WeeklyStreak(weeks(50, 60, 70, 80)))
}

func (s *TrendSuite) TestWeeklyStreak_Empty() {
	s.Equal(0, WeeklyStreak(nil))
}

// =============================================================================
// TREND
// =============================================================================

func (s *TrendSuite) TestMomentumTrend_Improving() {
	s.Equal(models.TrendImproving, MomentumTrend(weeks(80, 70, 40)))
}

func (s *TrendSuite) TestMomentumTrend_Declining() {
	s.Equal(models.TrendDeclining, MomentumTrend(weeks(20, 30, 60)))
}

func (s *TrendSuite) TestMomentumTrend_BoundaryIsStable() {
	// avg(45, 45) - 30 = 15, not strictly greater
	s.Equal(models.TrendStable, MomentumTrend(weeks(45, 45, 30)))
	s.Equal(models.TrendStable, MomentumTrend(weeks(15, 15, 30)))
}

func (s *TrendSuite) TestMomentumTrend_HalfPointAverage() {
	// avg(46, 45) - 30 = 15.5
	s.Equal(models.TrendImproving, MomentumTrend(weeks(46, 45, 30)))
}

func (s *TrendSuite) TestMomentumTrend_TooFewWeeks() {
	s.Equal(models.TrendStable, MomentumTrend(nil))
	s.Equal(models.TrendStable, MomentumTrend(weeks(100)))
	s.Equal(models.TrendStable, MomentumTrend(weeks(100, 0)))
}

func (s *TrendSuite) TestMomentumTrend_OnlyThreeMostRecentCount() {
	s.Equal(models.TrendImproving, MomentumTrend(reversed(weeks(80, 70, 40, 100, 100))))
}

func (s *TrendSuite) TestMomentumTrend_DoesNotMutateInput() {
	history := reversed(weeks(80, 70, 40))
	first := history[0]
	MomentumTrend(history)
	WeeklyStreak(history)
	s.Same(first, history[0])
}

// =============================================================================
// MERGE
// =============================================================================

func TestMergeCurrentWeek_ReplacesSameWeek(t *testing.T) {
	history := weeks(10, 30)
	current := &models.WeeklyProgress{UserID: "u1", WeekStart: history[0].WeekStart, MomentumScore: 55}

	merged := MergeCurrentWeek(history, current)
	require.Len(t, merged, 2)
	assert.Contains(t, merged, current)
	assert.NotContains(t, merged, history[0])
	assert.Equal(t, 10, history[0].MomentumScore)
}

func TestMergeCurrentWeek_AppendsNewWeek(t *testing.T) {
	history := weeks(10, 30)
	current := &models.WeeklyProgress{
		UserID:        "u1",
		WeekStart:     models.Date{Time: history[0].WeekStart.AddDate(0, 0, 7)},
		MomentumScore: 70,
	}

	merged := MergeCurrentWeek(history, current)
	assert.Len(t, merged, 3)
	assert.Equal(t, 1, WeeklyStreak(merged))
}

func TestLatest(t *testing.T) {
	history := weeks(50, 40, 30, 20, 10)

	latest := Latest(reversed(history), 3)
	require.Len(t, latest, 3)
	assert.Equal(t, 50, latest[0].MomentumScore)
	assert.Equal(t, 30, latest[2].MomentumScore)

	assert.Len(t, Latest(history, 0), 5)
	assert.Len(t, Latest(history, 10), 5)
	assert.Empty(t, Latest(nil, 4))
}

package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/thebtf/momentum/pkg/models"
)

// MomentumSuite is a test suite for the momentum Calculator.
type MomentumSuite struct {
	suite.Suite
	calc *Calculator
}

func (s *MomentumSuite) SetupTest() {
	s.calc = NewCalculator(nil)
}

func TestMomentumSuite(t *testing.T) {
	suite.Run(t, new(MomentumSuite))
}

// =============================================================================
// GOOD SCENARIOS - Expected normal operations
// =============================================================================

func (s *MomentumSuite) TestScore_GoodScenarios_ZeroCounters() {
	s.Equal(0, s.calc.Score(models.WeeklyCounters{}))
	s.Equal(0, ComputeMomentumScore(models.WeeklyCounters{}))
}

func (s *MomentumSuite) TestScore_GoodScenarios_AllCapsSaturated() {
	counters := models.WeeklyCounters{
		ApplicationsCount:    10,
		JobsSaved:            20,
		JobsViewed:           50,
		ResumeUpdates:        2,
		SkillProgressUpdates: 5,
		NetworkingActivities: 5,
	}
	s.Equal(100, ComputeMomentumScore(counters))
}

func (s *MomentumSuite) TestScore_GoodScenarios_LiteralInputs() {
	tests := []struct {
		name     string
		counters models.WeeklyCounters
		expected int
	}{
		{"one application", models.WeeklyCounters{ApplicationsCount: 1}, 3},
		{"half applications plus one resume update", models.WeeklyCounters{ApplicationsCount: 5, ResumeUpdates: 1}, 25},
		{"single view rounds down", models.WeeklyCounters{JobsViewed: 1}, 0},
		{"three views round up", models.WeeklyCounters{JobsViewed: 3}, 1},
		{"one save rounds up", models.WeeklyCounters{JobsSaved: 1}, 1},
		{"exact half rounds up", models.WeeklyCounters{JobsSaved: 2, JobsViewed: 5}, 3},
		{"mixed week", models.WeeklyCounters{
			ApplicationsCount:    3,
			JobsSaved:            5,
			JobsViewed:           12,
			SkillProgressUpdates: 2,
			NetworkingActivities: 1,
		}, 23},
		{"interviews do not score", models.WeeklyCounters{InterviewCount: 7}, 0},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.expected, ComputeMomentumScore(tt.counters))
		})
	}
}

// =============================================================================
// EDGE CASES - Saturation and bounds
// =============================================================================

func (s *MomentumSuite) TestScore_EdgeCases_ValuesAboveCapSaturate() {
	capped := models.WeeklyCounters{ApplicationsCount: 10}
	over := models.WeeklyCounters{ApplicationsCount: 1000}
	s.Equal(30, s.calc.Score(capped))
	s.Equal(s.calc.Score(capped), s.calc.Score(over))

	huge := models.WeeklyCounters{
		ApplicationsCount:    500,
		JobsSaved:            500,
		JobsViewed:           500,
		ResumeUpdates:        500,
		SkillProgressUpdates: 500,
		NetworkingActivities: 500,
	}
	s.Equal(100, s.calc.Score(huge))
}

func (s *MomentumSuite) TestScore_EdgeCases_NegativeCountersCountAsZero() {
	s.Equal(0, s.calc.Score(models.WeeklyCounters{ApplicationsCount: -4}))
}

func (s *MomentumSuite) TestScore_EdgeCases_ZeroWeightConfig() {
	calc := NewCalculator(&models.MomentumConfig{})
	s.Equal(0, calc.Score(models.WeeklyCounters{ApplicationsCount: 10}))
}

func (s *MomentumSuite) TestScore_EdgeCases_CustomConfig() {
	calc := NewCalculator(&models.MomentumConfig{Rules: []models.MetricRule{
		{Counter: models.CounterApplications, Cap: 4, Weight: 1},
		{Counter: models.CounterNetworking, Cap: 3, Weight: 1},
	}})
	// (1/4 + 1/3) / 2 × 100 = 29.1666...
	s.Equal(29, calc.Score(models.WeeklyCounters{ApplicationsCount: 1, NetworkingActivities: 1}))
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (s *MomentumSuite) TestScore_Properties_BoundedAndMonotonic() {
	base := models.WeeklyCounters{
		ApplicationsCount:    2,
		JobsSaved:            4,
		JobsViewed:           9,
		ResumeUpdates:        0,
		SkillProgressUpdates: 1,
		NetworkingActivities: 1,
	}

	for _, counter := range models.AllCounters {
		prev := -1
		for v := 0; v <= 60; v++ {
			c := base
			c.Add(counter, v-c.Get(counter))
			score := s.calc.Score(c)
			s.GreaterOrEqual(score, 0)
			s.LessOrEqual(score, 100)
			s.GreaterOrEqual(score, prev, "score decreased for %s at %d", counter, v)
			prev = score
		}
	}
}

func (s *MomentumSuite) TestComponents_ExplainsScore() {
	counters := models.WeeklyCounters{ApplicationsCount: 5, ResumeUpdates: 4}
	comp := s.calc.Components(counters)

	s.Equal(s.calc.Score(counters), comp.Score)
	s.Len(comp.Metrics, len(models.DefaultMetricRules))

	byCounter := make(map[models.Counter]MetricComponent)
	for _, m := range comp.Metrics {
		byCounter[m.Counter] = m
	}

	apps := byCounter[models.CounterApplications]
	s.InDelta(0.5, apps.Normalized, 1e-9)
	s.InDelta(15.0, apps.Contribution, 1e-9)
	s.False(apps.Saturated)

	resume := byCounter[models.CounterResumeUpdates]
	s.InDelta(1.0, resume.Normalized, 1e-9)
	s.InDelta(20.0, resume.Contribution, 1e-9)
	s.True(resume.Saturated)
}

func (s *MomentumSuite) TestNewCalculator_NilUsesDefaults() {
	s.Equal(100, s.calc.GetConfig().TotalWeight())
}

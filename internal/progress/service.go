// Package progress assembles career progress summaries and records
// milestone and activity events.
package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/internal/benchmark"
	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/internal/goals"
	"github.com/thebtf/momentum/internal/insights"
	"github.com/thebtf/momentum/internal/scoring"
	"github.com/thebtf/momentum/internal/trend"
	"github.com/thebtf/momentum/pkg/models"
)

// Defaults for Config.
const (
	DefaultHistoryWeeks     = 4
	DefaultRecentActivities = 10
)

// Config holds service configuration.
type Config struct {
	// Location defines week boundaries. Defaults to UTC.
	Location *time.Location
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Momentum overrides the score caps and weights.
	Momentum *models.MomentumConfig
	// HistoryWeeks bounds the history used for trend and streak.
	HistoryWeeks int
	// RecentActivities bounds the activity list in a summary.
	RecentActivities int
}

// Service is the progress use-case layer. It is safe for concurrent use.
type Service struct {
	store      db.ProgressStore
	benchmarks db.BenchmarkReader
	calc       *scoring.Calculator
	engine     *insights.Engine
	metrics    *instruments
	loc        *time.Location
	now        func() time.Time
	derive     singleflight.Group
	history    int
	recent     int
}

// NewService creates a service over store. benchmarks may be nil, in which
// case cohorts are read from store.
func NewService(store db.ProgressStore, benchmarks db.BenchmarkReader, cfg Config) *Service {
	if benchmarks == nil {
		benchmarks = store
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.HistoryWeeks <= 0 {
		cfg.HistoryWeeks = DefaultHistoryWeeks
	}
	if cfg.RecentActivities <= 0 {
		cfg.RecentActivities = DefaultRecentActivities
	}

	return &Service{
		store:      store,
		benchmarks: benchmarks,
		calc:       scoring.NewCalculator(cfg.Momentum),
		engine:     insights.NewEngine(),
		metrics:    newInstruments(),
		loc:        cfg.Location,
		now:        cfg.Now,
		history:    cfg.HistoryWeeks,
		recent:     cfg.RecentActivities,
	}
}

// clock returns the current time in the service location and the start of its week.
func (s *Service) clock() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	return now, models.WeekStartOf(now, s.loc)
}

// summaryInputs are the independent reads a summary needs.
type summaryInputs struct {
	history    []*models.WeeklyProgress
	milestones []*models.CareerMilestone
	activities []*models.UserActivity
	cohort     *models.BenchmarkCohort
}

func (s *Service) loadInputs(ctx context.Context, id auth.Identity) (*summaryInputs, error) {
	in := &summaryInputs{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		in.history, err = s.store.ListWeeklyProgress(gctx, id.UserID, s.history)
		return storageErrIf("load history", err)
	})
	g.Go(func() error {
		var err error
		in.milestones, err = s.store.ListMilestones(gctx, id.UserID)
		return storageErrIf("load milestones", err)
	})
	g.Go(func() error {
		var err error
		in.activities, err = s.store.ListRecentActivities(gctx, id.UserID, s.recent)
		return storageErrIf("load activities", err)
	})
	if id.CareerStage != "" || id.TargetRole != "" {
		g.Go(func() error {
			var err error
			in.cohort, err = s.benchmarks.GetBenchmarkCohort(gctx, id.CareerStage, id.TargetRole)
			return storageErrIf("load cohort", err)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func storageErrIf(op string, err error) error {
	if err == nil {
		return nil
	}
	return storageErr(op, err)
}

// GetSummary computes the caller's progress summary. The current week is
// derived and persisted on first access; afterwards it is rewritten only
// when its computed scores change.
func (s *Service) GetSummary(ctx context.Context, id auth.Identity) (*models.ProgressSummary, error) {
	if id.UserID == "" {
		return nil, invalid("user id is required")
	}

	now, weekStart := s.clock()
	logger := log.With().Str("user_id", id.UserID).Str("week_start", models.NewDate(weekStart).String()).Logger()

	in, err := s.loadInputs(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load progress inputs")
		s.metrics.recordFailure(ctx, "load_inputs")
		return nil, err
	}

	current, err := s.currentWeek(ctx, id.UserID, weekStart, in.milestones)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve current week")
		s.metrics.recordFailure(ctx, "current_week")
		return nil, err
	}

	momentum := s.calc.Score(current.WeeklyCounters)
	goalProgress := goals.ComputeGoalProgress(in.milestones)
	if current.MomentumScore != momentum || current.GoalProgressPercentage != goalProgress {
		if err := s.store.UpdateWeeklyScores(ctx, id.UserID, current.WeekStart, momentum, goalProgress); err != nil {
			logger.Error().Err(err).Msg("Failed to persist weekly scores")
			s.metrics.recordFailure(ctx, "update_scores")
			return nil, storageErr("persist current week", err)
		}
		logger.Debug().Int("momentum", momentum).Int("goal_progress", goalProgress).Msg("Current week rescored")
		current.MomentumScore = momentum
		current.GoalProgressPercentage = goalProgress
	}

	// History was read before the current week existed; trim back to the
	// window so first and later calls see the same weeks.
	history := trend.Latest(trend.MergeCurrentWeek(in.history, current), s.history)
	direction := trend.MomentumTrend(history)
	comparison := benchmark.CompareToBenchmark(current, in.cohort)
	recs := s.engine.Run(insights.NewContext(current, direction, comparison))

	milestones := in.milestones
	if milestones == nil {
		milestones = []*models.CareerMilestone{}
	}
	activities := in.activities
	if activities == nil {
		activities = []*models.UserActivity{}
	}

	summary := &models.ProgressSummary{
		GeneratedAt:         now.UTC(),
		CurrentWeek:         current,
		Milestones:          milestones,
		RecentActivities:    activities,
		NextMilestones:      goals.NextPriorityMilestones(milestones, now),
		AIRecommendations:   insights.Keys(recs),
		Recommendations:     recs,
		MomentumTrend:       direction,
		BenchmarkComparison: comparison,
		WeeklyStreak:        trend.WeeklyStreak(history),
	}

	s.metrics.recordSummary(ctx, current.MomentumScore)
	logger.Debug().
		Int("momentum", current.MomentumScore).
		Str("trend", string(direction)).
		Int("streak", summary.WeeklyStreak).
		Int("recommendations", len(recs)).
		Msg("Progress summary computed")

	return summary, nil
}

// GenerateInsights is reserved for asynchronous narrative generation.
// It validates the caller and acknowledges the request.
func (s *Service) GenerateInsights(ctx context.Context, id auth.Identity) error {
	if id.UserID == "" {
		return invalid("user id is required")
	}
	log.Debug().Str("user_id", id.UserID).Msg("Insight generation requested")
	return nil
}

package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/momentum/internal/goals"
	"github.com/thebtf/momentum/pkg/models"
)

// currentWeek returns the stored current week, deriving and persisting it
// from the raw interaction log and tracked activities when no row exists.
// Concurrent callers for the same user and week share one derivation; the
// shared work is detached from any single caller's cancellation and each
// caller stops waiting when its own context ends.
func (s *Service) currentWeek(ctx context.Context, userID string, weekStart time.Time, milestones []*models.CareerMilestone) (*models.WeeklyProgress, error) {
	date := models.NewDate(weekStart)

	existing, err := s.store.GetWeeklyProgress(ctx, userID, date)
	if err != nil {
		return nil, storageErr("load current week", err)
	}
	if existing != nil {
		return existing, nil
	}

	key := userID + "|" + date.String()
	flightCtx := context.WithoutCancel(ctx)
	ch := s.derive.DoChan(key, func() (any, error) {
		return s.deriveWeek(flightCtx, userID, weekStart, milestones)
	})

	select {
	case <-ctx.Done():
		return nil, storageErr("derive current week", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("user_id", userID).Msg("Joined in-flight week derivation")
		}
		wp := *res.Val.(*models.WeeklyProgress)
		return &wp, nil
	}
}

func (s *Service) deriveWeek(ctx context.Context, userID string, weekStart time.Time, milestones []*models.CareerMilestone) (*models.WeeklyProgress, error) {
	date := models.NewDate(weekStart)

	// Another caller may have finished deriving between our read and the flight.
	existing, err := s.store.GetWeeklyProgress(ctx, userID, date)
	if err != nil {
		return nil, storageErr("load current week", err)
	}
	if existing != nil {
		return existing, nil
	}

	interactions, err := s.store.ListRawInteractions(ctx, userID, weekStart)
	if err != nil {
		return nil, storageErr("load interactions", err)
	}
	activities, err := s.store.ListActivitiesSince(ctx, userID, weekStart)
	if err != nil {
		return nil, storageErr("load activities", err)
	}

	counters := DeriveCounters(interactions)
	CountActivities(&counters, activities)

	wp := &models.WeeklyProgress{
		UserID:         userID,
		WeekStart:      date,
		WeeklyCounters: counters,
	}
	wp.MomentumScore = s.calc.Score(wp.WeeklyCounters)
	wp.GoalProgressPercentage = goals.ComputeGoalProgress(milestones)

	stored, err := s.store.UpsertWeeklyProgress(ctx, wp)
	if err != nil {
		return nil, storageErr("persist current week", err)
	}

	s.metrics.derived.Add(ctx, 1)
	log.Debug().
		Str("user_id", userID).
		Str("week_start", date.String()).
		Int("interactions", len(interactions)).
		Int("activities", len(activities)).
		Int("momentum", stored.MomentumScore).
		Msg("Derived current week")

	return stored, nil
}

// DeriveCounters tallies raw interactions into weekly counters.
// Interaction types without a counter are ignored.
func DeriveCounters(interactions []*models.RawInteraction) models.WeeklyCounters {
	var c models.WeeklyCounters
	for _, in := range interactions {
		if in == nil {
			continue
		}
		if counter, ok := models.CounterFor(in.InteractionType); ok {
			c.Add(counter, 1)
		}
	}
	return c
}

// CountActivities adds tracked activities that map to a weekly counter.
func CountActivities(c *models.WeeklyCounters, activities []*models.UserActivity) {
	for _, a := range activities {
		if a == nil {
			continue
		}
		if counter, ok := models.CounterFor(a.ActivityType); ok {
			c.Add(counter, 1)
		}
	}
}

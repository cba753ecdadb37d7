package progress

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/pkg/models"
)

// MaxActivityTypeLength bounds free-form activity type names.
const MaxActivityTypeLength = 64

// TrackActivity records an activity with its points. When the type feeds a
// weekly counter and the current week already has a row, that counter is
// incremented atomically. Without a row the activity is counted when the
// week is derived. A failed increment is logged; the activity stays recorded.
func (s *Service) TrackActivity(ctx context.Context, id auth.Identity, activityType string, data models.JSONMap) (*models.UserActivity, error) {
	if id.UserID == "" {
		return nil, invalid("user id is required")
	}
	activityType = strings.TrimSpace(activityType)
	if activityType == "" || len(activityType) > MaxActivityTypeLength {
		return nil, invalid("activity_type must be 1-%d characters", MaxActivityTypeLength)
	}
	size, err := data.EncodedSize()
	if err != nil {
		return nil, invalid("activity_data is not encodable: %v", err)
	}
	if size > models.MaxActivityDataBytes {
		return nil, invalid("activity_data exceeds %d bytes", models.MaxActivityDataBytes)
	}

	activity, err := s.record(ctx, id.UserID, activityType, data)
	if err != nil {
		return nil, err
	}

	if counter, ok := models.CounterFor(activityType); ok {
		_, weekStart := s.clock()
		bumped, err := s.store.IncrementWeeklyCounter(ctx, id.UserID, models.NewDate(weekStart), counter, 1)
		if err != nil {
			s.metrics.recordFailure(ctx, "increment_counter")
			log.Error().Err(err).
				Str("user_id", id.UserID).
				Str("counter", string(counter)).
				Int64("activity_id", activity.ID).
				Msg("Weekly counter increment failed")
			return activity, nil
		}
		log.Debug().
			Str("user_id", id.UserID).
			Str("counter", string(counter)).
			Bool("applied", bumped).
			Msg("Weekly counter increment")
	}

	return activity, nil
}

// record inserts an activity with points from the static table.
func (s *Service) record(ctx context.Context, userID, activityType string, data models.JSONMap) (*models.UserActivity, error) {
	activity := &models.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		ActivityData: data,
		PointsEarned: models.PointsFor(activityType),
		CreatedAt:    s.now().UTC(),
	}

	activityID, err := s.store.InsertActivity(ctx, activity)
	if err != nil {
		s.metrics.recordFailure(ctx, "insert_activity")
		return nil, storageErr("record activity", err)
	}
	activity.ID = activityID

	s.metrics.recordActivity(ctx, activityType)
	return activity, nil
}

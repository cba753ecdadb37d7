package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/thebtf/momentum/pkg/models"
)

// InsertActivity appends an activity and returns its ID.
func (s *Store) InsertActivity(ctx context.Context, activity *models.UserActivity) (int64, error) {
	createdAt := activity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := &UserActivity{
		UserID:         activity.UserID,
		ActivityType:   activity.ActivityType,
		ActivityData:   activity.ActivityData,
		PointsEarned:   activity.PointsEarned,
		CreatedAtEpoch: createdAt.UnixMilli(),
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}
	return row.ID, nil
}

// ListRecentActivities returns up to limit activities, newest first.
func (s *Store) ListRecentActivities(ctx context.Context, userID string, limit int) ([]*models.UserActivity, error) {
	var rows []UserActivity
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at_epoch DESC, id DESC").
		Limit(clampLimit(limit, 10)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	out := make([]*models.UserActivity, len(rows))
	for i := range rows {
		out[i] = toModelActivity(&rows[i])
	}
	return out, nil
}

// ListActivitiesSince returns activities created at or after since, oldest first.
func (s *Store) ListActivitiesSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error) {
	ctx, cancel := s.WithTimeout(ctx, DefaultQueryTimeout, "list_activities_since")
	defer cancel()

	var rows []UserActivity
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND created_at_epoch >= ?", userID, since.UnixMilli()).
		Order("created_at_epoch ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list activities since: %w", err)
	}

	out := make([]*models.UserActivity, len(rows))
	for i := range rows {
		out[i] = toModelActivity(&rows[i])
	}
	return out, nil
}

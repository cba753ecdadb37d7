package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/momentum/pkg/models"
)

// weeklyUpsertColumns are overwritten when an upsert hits an existing week.
var weeklyUpsertColumns = []string{
	"applications_count",
	"jobs_viewed",
	"jobs_saved",
	"resume_updates",
	"skill_progress_updates",
	"networking_activities",
	"interview_count",
	"momentum_score",
	"goal_progress_percentage",
	"updated_at_epoch",
}

// GetWeeklyProgress returns the row for (userID, weekStart), or nil when absent.
func (s *Store) GetWeeklyProgress(ctx context.Context, userID string, weekStart models.Date) (*models.WeeklyProgress, error) {
	var row WeeklyProgress
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart.String()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weekly progress: %w", err)
	}
	return toModelWeeklyProgress(&row)
}

// ListWeeklyProgress returns up to limit weeks for userID, most recent first.
func (s *Store) ListWeeklyProgress(ctx context.Context, userID string, limit int) ([]*models.WeeklyProgress, error) {
	ctx, cancel := s.WithTimeout(ctx, DefaultQueryTimeout, "list_weekly_progress")
	defer cancel()

	var rows []WeeklyProgress
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Limit(clampLimit(limit, 4)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list weekly progress: %w", err)
	}

	out := make([]*models.WeeklyProgress, 0, len(rows))
	for i := range rows {
		wp, err := toModelWeeklyProgress(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("decode weekly progress %d: %w", rows[i].ID, err)
		}
		out = append(out, wp)
	}
	return out, nil
}

// UpsertWeeklyProgress inserts the week or overwrites its counters and scores.
// The conflict key is (user_id, week_start), so concurrent first-time
// derivations converge on one row.
func (s *Store) UpsertWeeklyProgress(ctx context.Context, wp *models.WeeklyProgress) (*models.WeeklyProgress, error) {
	if wp == nil || wp.UserID == "" || wp.WeekStart.IsZero() {
		return nil, fmt.Errorf("upsert weekly progress: user_id and week_start are required")
	}

	row := fromWeeklyProgress(wp)
	now := time.Now().UnixMilli()
	row.CreatedAtEpoch = now
	row.UpdatedAtEpoch = now

	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns(weeklyUpsertColumns),
		}).
		Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert weekly progress: %w", err)
	}

	stored, err := s.GetWeeklyProgress(ctx, wp.UserID, wp.WeekStart)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("upsert weekly progress: row missing after write")
	}
	return stored, nil
}

// UpdateWeeklyScores rewrites the derived scores of an existing week.
func (s *Store) UpdateWeeklyScores(ctx context.Context, userID string, weekStart models.Date, momentum, goalProgress int) error {
	err := s.DB.WithContext(ctx).
		Model(&WeeklyProgress{}).
		Where("user_id = ? AND week_start = ?", userID, weekStart.String()).
		Updates(map[string]interface{}{
			"momentum_score":           momentum,
			"goal_progress_percentage": goalProgress,
			"updated_at_epoch":         time.Now().UnixMilli(),
		}).Error
	if err != nil {
		return fmt.Errorf("update weekly scores: %w", err)
	}
	return nil
}

// IncrementWeeklyCounter adds delta to one counter with a single UPDATE.
// It reports false when the week has no row yet.
func (s *Store) IncrementWeeklyCounter(ctx context.Context, userID string, weekStart models.Date, counter models.Counter, delta int) (bool, error) {
	col, err := counterColumn(counter)
	if err != nil {
		return false, err
	}
	if delta <= 0 {
		return false, fmt.Errorf("increment %s: delta must be positive, got %d", col, delta)
	}

	result := s.DB.WithContext(ctx).
		Model(&WeeklyProgress{}).
		Where("user_id = ? AND week_start = ?", userID, weekStart.String()).
		Updates(map[string]interface{}{
			col:                gorm.Expr(col+" + ?", delta),
			"updated_at_epoch": time.Now().UnixMilli(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("increment %s: %w", col, result.Error)
	}
	return result.RowsAffected > 0, nil
}

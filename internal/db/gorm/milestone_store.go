package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

// ListMilestones returns every milestone of userID in creation order.
func (s *Store) ListMilestones(ctx context.Context, userID string) ([]*models.CareerMilestone, error) {
	var rows []CareerMilestone
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at_epoch ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}

	out := make([]*models.CareerMilestone, 0, len(rows))
	for i := range rows {
		m, err := toModelMilestone(&rows[i])
		if err != nil {
			return nil, fmt.Errorf("decode milestone %s: %w", rows[i].ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// GetMilestone returns one milestone owned by userID.
func (s *Store) GetMilestone(ctx context.Context, userID, id string) (*models.CareerMilestone, error) {
	row, err := s.findMilestone(s.DB.WithContext(ctx), userID, id)
	if err != nil {
		return nil, err
	}
	return toModelMilestone(row)
}

// CreateMilestones inserts milestones in one transaction.
func (s *Store) CreateMilestones(ctx context.Context, milestones []*models.CareerMilestone) error {
	if len(milestones) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	rows := make([]*CareerMilestone, len(milestones))
	for i, m := range milestones {
		rows[i] = fromMilestone(m)
		// Offset by position so ListMilestones keeps batch order.
		rows[i].CreatedAtEpoch = now + int64(i)
		rows[i].UpdatedAtEpoch = now
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rows).Error
	})
	if err != nil {
		return fmt.Errorf("create milestones: %w", err)
	}
	return nil
}

// UpdateMilestone applies a partial update to a milestone owned by userID.
func (s *Store) UpdateMilestone(ctx context.Context, userID, id string, update *models.MilestoneUpdate) (*models.CareerMilestone, error) {
	var updated *models.CareerMilestone

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.findMilestone(tx, userID, id)
		if err != nil {
			return err
		}
		m, err := toModelMilestone(row)
		if err != nil {
			return err
		}

		if update != nil {
			update.Apply(m)
		}
		next := fromMilestone(m)

		err = tx.Model(&CareerMilestone{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]interface{}{
				"title":            next.Title,
				"description":      next.Description,
				"status":           next.Status,
				"target_date":      next.TargetDate,
				"target_value":     next.TargetValue,
				"current_value":    next.CurrentValue,
				"updated_at_epoch": time.Now().UnixMilli(),
			}).Error
		if err != nil {
			return err
		}

		updated = m
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update milestone: %w", err)
	}
	return updated, nil
}

func (s *Store) findMilestone(tx *gorm.DB, userID, id string) (*CareerMilestone, error) {
	var row CareerMilestone
	err := tx.Where("id = ? AND user_id = ?", id, userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("milestone %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get milestone: %w", err)
	}
	return &row, nil
}

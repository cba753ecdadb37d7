package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/thebtf/momentum/pkg/models"
)

// RecordInteraction appends one raw job interaction.
func (s *Store) RecordInteraction(ctx context.Context, interaction *models.RawInteraction) (int64, error) {
	createdAt := interaction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := &JobInteraction{
		UserID:          interaction.UserID,
		InteractionType: interaction.InteractionType,
		JobID:           sqlNullString(interaction.JobID),
		CreatedAtEpoch:  createdAt.UnixMilli(),
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("record interaction: %w", err)
	}
	return row.ID, nil
}

// ListRawInteractions returns interactions at or after since, oldest first.
func (s *Store) ListRawInteractions(ctx context.Context, userID string, since time.Time) ([]*models.RawInteraction, error) {
	ctx, cancel := s.WithTimeout(ctx, DefaultQueryTimeout, "list_raw_interactions")
	defer cancel()

	var rows []JobInteraction
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND created_at_epoch >= ?", userID, since.UnixMilli()).
		Order("created_at_epoch ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	out := make([]*models.RawInteraction, len(rows))
	for i := range rows {
		out[i] = toModelInteraction(&rows[i])
	}
	return out, nil
}

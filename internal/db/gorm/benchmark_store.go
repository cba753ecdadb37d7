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

// GetBenchmarkCohort returns the cohort for (careerStage, targetRole), or nil when absent.
func (s *Store) GetBenchmarkCohort(ctx context.Context, careerStage, targetRole string) (*models.BenchmarkCohort, error) {
	var row BenchmarkCohort
	err := s.DB.WithContext(ctx).
		Where("career_stage = ? AND target_role = ?", careerStage, targetRole).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get benchmark cohort: %w", err)
	}
	return toModelCohort(&row), nil
}

// UpsertBenchmarkCohort inserts or replaces a cohort's averages.
func (s *Store) UpsertBenchmarkCohort(ctx context.Context, cohort *models.BenchmarkCohort) error {
	row := &BenchmarkCohort{
		CareerStage:            cohort.CareerStage,
		TargetRole:             cohort.TargetRole,
		AvgApplicationsPerWeek: cohort.AvgApplicationsPerWeek,
		AvgResponseRate:        cohort.AvgResponseRate,
		AvgInterviewRate:       cohort.AvgInterviewRate,
		UpdatedAtEpoch:         time.Now().UnixMilli(),
	}

	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "career_stage"}, {Name: "target_role"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"avg_applications_per_week",
				"avg_response_rate",
				"avg_interview_rate",
				"updated_at_epoch",
			}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert benchmark cohort: %w", err)
	}
	return nil
}

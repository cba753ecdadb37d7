package gorm

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/momentum/pkg/models"
)

// GORM Models

// Dates are stored as YYYY-MM-DD text and timestamps as epoch milliseconds
// so both dialects order and compare them the same way.

// WeeklyProgress is one user's aggregate for one week.
type WeeklyProgress struct {
	UserID                 string `gorm:"uniqueIndex:idx_weekly_progress_user_week,priority:1;not null"`
	WeekStart              string `gorm:"uniqueIndex:idx_weekly_progress_user_week,priority:2;not null"`
	ID                     int64  `gorm:"primaryKey;autoIncrement"`
	ApplicationsCount      int    `gorm:"not null;default:0"`
	JobsViewed             int    `gorm:"not null;default:0"`
	JobsSaved              int    `gorm:"not null;default:0"`
	ResumeUpdates          int    `gorm:"not null;default:0"`
	SkillProgressUpdates   int    `gorm:"not null;default:0"`
	NetworkingActivities   int    `gorm:"not null;default:0"`
	InterviewCount         int    `gorm:"not null;default:0"`
	MomentumScore          int    `gorm:"not null;default:0"`
	GoalProgressPercentage int    `gorm:"not null;default:0"`
	CreatedAtEpoch         int64  `gorm:"not null"`
	UpdatedAtEpoch         int64  `gorm:"not null"`
}

func (WeeklyProgress) TableName() string { return "weekly_progress" }

// BeforeCreate hook to ensure timestamps are set.
func (w *WeeklyProgress) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UnixMilli()
	if w.CreatedAtEpoch == 0 {
		w.CreatedAtEpoch = now
	}
	if w.UpdatedAtEpoch == 0 {
		w.UpdatedAtEpoch = now
	}
	return nil
}

// CareerMilestone is a user goal row.
type CareerMilestone struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `gorm:"index:idx_milestones_user;not null"`
	MilestoneType  string         `gorm:"type:text;not null"`
	Title          string         `gorm:"type:text;not null"`
	Description    sql.NullString `gorm:"type:text"`
	Status         string         `gorm:"type:text;check:status IN ('active', 'completed', 'paused', 'abandoned');default:'active';index"`
	TargetDate     sql.NullString
	TargetValue    float64 `gorm:"not null"`
	CurrentValue   float64 `gorm:"not null;default:0"`
	CreatedAtEpoch int64   `gorm:"index:idx_milestones_user_created,sort:asc;not null"`
	UpdatedAtEpoch int64   `gorm:"not null"`
}

func (CareerMilestone) TableName() string { return "career_milestones" }

// UserActivity is an append-only activity log row.
type UserActivity struct {
	ActivityData   models.JSONMap `gorm:"type:text"`
	UserID         string         `gorm:"index:idx_activities_user_created,priority:1;not null"`
	ActivityType   string         `gorm:"type:text;not null"`
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	PointsEarned   int            `gorm:"not null;default:0"`
	CreatedAtEpoch int64          `gorm:"index:idx_activities_user_created,priority:2,sort:desc;not null"`
}

func (UserActivity) TableName() string { return "user_activities" }

// BenchmarkCohort is a peer-average row.
type BenchmarkCohort struct {
	CareerStage            string  `gorm:"uniqueIndex:idx_cohorts_stage_role,priority:1;not null"`
	TargetRole             string  `gorm:"uniqueIndex:idx_cohorts_stage_role,priority:2;not null"`
	ID                     int64   `gorm:"primaryKey;autoIncrement"`
	AvgApplicationsPerWeek float64 `gorm:"not null;default:0"`
	AvgResponseRate        float64 `gorm:"not null;default:0"`
	AvgInterviewRate       float64 `gorm:"not null;default:0"`
	UpdatedAtEpoch         int64   `gorm:"not null"`
}

func (BenchmarkCohort) TableName() string { return "benchmark_cohorts" }

// JobInteraction is one entry of the raw job interaction log.
type JobInteraction struct {
	UserID          string         `gorm:"index:idx_interactions_user_created,priority:1;not null"`
	InteractionType string         `gorm:"type:text;not null"`
	JobID           sql.NullString `gorm:"type:text"`
	ID              int64          `gorm:"primaryKey;autoIncrement"`
	CreatedAtEpoch  int64          `gorm:"index:idx_interactions_user_created,priority:2;not null"`
}

func (JobInteraction) TableName() string { return "job_interactions" }

// Converters

func fromWeeklyProgress(wp *models.WeeklyProgress) *WeeklyProgress {
	return &WeeklyProgress{
		UserID:                 wp.UserID,
		WeekStart:              wp.WeekStart.String(),
		ApplicationsCount:      wp.ApplicationsCount,
		JobsViewed:             wp.JobsViewed,
		JobsSaved:              wp.JobsSaved,
		ResumeUpdates:          wp.ResumeUpdates,
		SkillProgressUpdates:   wp.SkillProgressUpdates,
		NetworkingActivities:   wp.NetworkingActivities,
		InterviewCount:         wp.InterviewCount,
		MomentumScore:          wp.MomentumScore,
		GoalProgressPercentage: wp.GoalProgressPercentage,
	}
}

func toModelWeeklyProgress(row *WeeklyProgress) (*models.WeeklyProgress, error) {
	weekStart, err := models.ParseDate(row.WeekStart)
	if err != nil {
		return nil, err
	}
	return &models.WeeklyProgress{
		ID:        row.ID,
		UserID:    row.UserID,
		WeekStart: weekStart,
		WeeklyCounters: models.WeeklyCounters{
			ApplicationsCount:    row.ApplicationsCount,
			JobsViewed:           row.JobsViewed,
			JobsSaved:            row.JobsSaved,
			ResumeUpdates:        row.ResumeUpdates,
			SkillProgressUpdates: row.SkillProgressUpdates,
			NetworkingActivities: row.NetworkingActivities,
			InterviewCount:       row.InterviewCount,
		},
		MomentumScore:          row.MomentumScore,
		GoalProgressPercentage: row.GoalProgressPercentage,
	}, nil
}

func fromMilestone(m *models.CareerMilestone) *CareerMilestone {
	return &CareerMilestone{
		ID:            m.ID,
		UserID:        m.UserID,
		MilestoneType: string(m.MilestoneType),
		Title:         m.Title,
		Description:   sqlNullString(m.Description),
		Status:        string(m.Status),
		TargetDate:    sqlNullString(m.TargetDate.String()),
		TargetValue:   m.TargetValue,
		CurrentValue:  m.CurrentValue,
	}
}

func toModelMilestone(row *CareerMilestone) (*models.CareerMilestone, error) {
	m := &models.CareerMilestone{
		ID:            row.ID,
		UserID:        row.UserID,
		MilestoneType: models.MilestoneType(row.MilestoneType),
		Title:         row.Title,
		Description:   row.Description.String,
		Status:        models.MilestoneStatus(row.Status),
		TargetValue:   row.TargetValue,
		CurrentValue:  row.CurrentValue,
	}
	if row.TargetDate.Valid && row.TargetDate.String != "" {
		d, err := models.ParseDate(row.TargetDate.String)
		if err != nil {
			return nil, err
		}
		m.TargetDate = d
	}
	return m, nil
}

func toModelActivity(row *UserActivity) *models.UserActivity {
	return &models.UserActivity{
		ID:           row.ID,
		UserID:       row.UserID,
		ActivityType: row.ActivityType,
		ActivityData: row.ActivityData,
		PointsEarned: row.PointsEarned,
		CreatedAt:    time.UnixMilli(row.CreatedAtEpoch).UTC(),
	}
}

func toModelCohort(row *BenchmarkCohort) *models.BenchmarkCohort {
	return &models.BenchmarkCohort{
		CareerStage:            row.CareerStage,
		TargetRole:             row.TargetRole,
		AvgApplicationsPerWeek: row.AvgApplicationsPerWeek,
		AvgResponseRate:        row.AvgResponseRate,
		AvgInterviewRate:       row.AvgInterviewRate,
	}
}

func toModelInteraction(row *JobInteraction) *models.RawInteraction {
	return &models.RawInteraction{
		ID:              row.ID,
		UserID:          row.UserID,
		InteractionType: row.InteractionType,
		JobID:           row.JobID.String,
		CreatedAt:       time.UnixMilli(row.CreatedAtEpoch).UTC(),
	}
}

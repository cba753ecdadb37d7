// Package db defines storage interfaces for the momentum engine.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/thebtf/momentum/pkg/models"
)

// ErrNotFound is returned when a keyed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownCounter is returned when a counter name is not a weekly counter column.
var ErrUnknownCounter = errors.New("unknown weekly counter")

// WeeklyProgressReader defines read operations for weekly aggregates.
type WeeklyProgressReader interface {
	// GetWeeklyProgress returns nil, nil when the week has no row.
	GetWeeklyProgress(ctx context.Context, userID string, weekStart models.Date) (*models.WeeklyProgress, error)
	// ListWeeklyProgress returns up to limit weeks, most recent first.
	ListWeeklyProgress(ctx context.Context, userID string, limit int) ([]*models.WeeklyProgress, error)
}

// WeeklyProgressWriter defines write operations for weekly aggregates.
type WeeklyProgressWriter interface {
	// UpsertWeeklyProgress inserts or replaces the row keyed by (user_id, week_start)
	// and returns the stored row.
	UpsertWeeklyProgress(ctx context.Context, wp *models.WeeklyProgress) (*models.WeeklyProgress, error)
	// UpdateWeeklyScores rewrites only the derived scores of an existing row.
	UpdateWeeklyScores(ctx context.Context, userID string, weekStart models.Date, momentum, goalProgress int) error
	// IncrementWeeklyCounter atomically adds delta to one counter.
	// It reports false when the week has no row.
	IncrementWeeklyCounter(ctx context.Context, userID string, weekStart models.Date, counter models.Counter, delta int) (bool, error)
}

// WeeklyProgressStore combines read and write operations for weekly aggregates.
type WeeklyProgressStore interface {
	WeeklyProgressReader
	WeeklyProgressWriter
}

// MilestoneReader defines read operations for milestones.
type MilestoneReader interface {
	ListMilestones(ctx context.Context, userID string) ([]*models.CareerMilestone, error)
	// GetMilestone returns ErrNotFound when the milestone does not belong to userID.
	GetMilestone(ctx context.Context, userID, id string) (*models.CareerMilestone, error)
}

// MilestoneWriter defines write operations for milestones.
type MilestoneWriter interface {
	CreateMilestones(ctx context.Context, milestones []*models.CareerMilestone) error
	// UpdateMilestone applies update and returns the stored milestone,
	// or ErrNotFound when the milestone does not belong to userID.
	UpdateMilestone(ctx context.Context, userID, id string, update *models.MilestoneUpdate) (*models.CareerMilestone, error)
}

// MilestoneStore combines read and write operations for milestones.
type MilestoneStore interface {
	MilestoneReader
	MilestoneWriter
}

// ActivityReader defines read operations for the activity log.
type ActivityReader interface {
	// ListRecentActivities returns up to limit activities, newest first.
	ListRecentActivities(ctx context.Context, userID string, limit int) ([]*models.UserActivity, error)
	// ListActivitiesSince returns activities created at or after since, oldest first.
	ListActivitiesSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error)
}

// ActivityWriter defines write operations for the activity log.
type ActivityWriter interface {
	InsertActivity(ctx context.Context, activity *models.UserActivity) (int64, error)
}

// ActivityStore combines read and write operations for the activity log.
type ActivityStore interface {
	ActivityReader
	ActivityWriter
}

// BenchmarkReader defines read operations for benchmark cohorts.
type BenchmarkReader interface {
	// GetBenchmarkCohort returns nil, nil when no cohort matches.
	GetBenchmarkCohort(ctx context.Context, careerStage, targetRole string) (*models.BenchmarkCohort, error)
}

// BenchmarkWriter defines write operations for benchmark cohorts.
type BenchmarkWriter interface {
	UpsertBenchmarkCohort(ctx context.Context, cohort *models.BenchmarkCohort) error
}

// BenchmarkStore combines read and write operations for benchmark cohorts.
type BenchmarkStore interface {
	BenchmarkReader
	BenchmarkWriter
}

// InteractionReader defines read operations for the raw interaction log.
type InteractionReader interface {
	// ListRawInteractions returns interactions created at or after since, oldest first.
	ListRawInteractions(ctx context.Context, userID string, since time.Time) ([]*models.RawInteraction, error)
}

// InteractionWriter defines write operations for the raw interaction log.
type InteractionWriter interface {
	RecordInteraction(ctx context.Context, interaction *models.RawInteraction) (int64, error)
}

// InteractionStore combines read and write operations for the raw interaction log.
type InteractionStore interface {
	InteractionReader
	InteractionWriter
}

// ProgressStore is everything the progress service needs from storage.
type ProgressStore interface {
	WeeklyProgressStore
	MilestoneStore
	ActivityStore
	BenchmarkReader
	InteractionReader
}

// Pinger is implemented by stores that can verify their backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IsCounter reports whether c names a weekly counter column.
func IsCounter(c models.Counter) bool {
	for _, known := range models.AllCounters {
		if c == known {
			return true
		}
	}
	return false
}

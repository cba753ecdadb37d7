package gorm

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: weekly aggregates, unique per (user_id, week_start)
		{
			ID: "001_weekly_progress",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&WeeklyProgress{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("weekly_progress")
			},
		},

		// Migration 002: career milestones
		{
			ID: "002_career_milestones",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&CareerMilestone{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("career_milestones")
			},
		},

		// Migration 003: activity log
		{
			ID: "003_user_activities",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&UserActivity{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("user_activities")
			},
		},

		// Migration 004: benchmark cohorts, unique per (career_stage, target_role)
		{
			ID: "004_benchmark_cohorts",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&BenchmarkCohort{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("benchmark_cohorts")
			},
		},

		// Migration 005: raw job interaction log
		{
			ID: "005_job_interactions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&JobInteraction{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("job_interactions")
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("run gormigrate migrations: %w", err)
	}

	return nil
}

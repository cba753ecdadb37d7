package progress

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/momentum/internal/auth"
	"github.com/thebtf/momentum/pkg/models"
)

// MaxTitleLength bounds milestone titles.
const MaxTitleLength = 200

// MilestoneInput describes a milestone to create.
type MilestoneInput struct {
	TargetDate    models.Date          `json:"target_date"`
	MilestoneType models.MilestoneType `json:"milestone_type"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	TargetValue   float64              `json:"target_value"`
	CurrentValue  float64              `json:"current_value"`
}

// defaultMilestone is an onboarding milestone; due is relative to seeding time.
type defaultMilestone struct {
	milestoneType models.MilestoneType
	title         string
	description   string
	target        float64
	due           time.Duration
}

// defaultMilestones are seeded for users with no milestones.
var defaultMilestones = []defaultMilestone{
	{models.MilestoneApplicationGoal, "Apply to 10 jobs", "Send ten tailored applications this month", 10, 30 * 24 * time.Hour},
	{models.MilestoneNetworking, "Connect with 5 people in your field", "Reach out to peers, alumni or hiring managers", 5, 30 * 24 * time.Hour},
	{models.MilestoneSkillDevelopment, "Complete 3 skill development activities", "Courses, projects or certifications count", 3, 30 * 24 * time.Hour},
	{models.MilestoneResume, "Update your resume", "Refresh your resume for your target role", 1, 7 * 24 * time.Hour},
}

func validateMilestoneUpdate(u *models.MilestoneUpdate) error {
	if u == nil || u.IsEmpty() {
		return invalid("updates must change at least one field")
	}
	if u.Title != nil {
		if t := strings.TrimSpace(*u.Title); t == "" || len(t) > MaxTitleLength {
			return invalid("title must be 1-%d characters", MaxTitleLength)
		}
	}
	if u.Status != nil && !u.Status.IsValid() {
		return invalid("unknown status %q", *u.Status)
	}
	if u.TargetValue != nil && *u.TargetValue <= 0 {
		return invalid("target_value must be positive")
	}
	if u.CurrentValue != nil && *u.CurrentValue < 0 {
		return invalid("current_value must not be negative")
	}
	return nil
}

// UpdateMilestone applies a partial update to one of the caller's milestones
// and records a milestone_updated or milestone_completed activity.
func (s *Service) UpdateMilestone(ctx context.Context, id auth.Identity, milestoneID string, update *models.MilestoneUpdate) (*models.CareerMilestone, error) {
	if id.UserID == "" {
		return nil, invalid("user id is required")
	}
	if strings.TrimSpace(milestoneID) == "" {
		return nil, invalid("milestone_id is required")
	}
	if err := validateMilestoneUpdate(update); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateMilestone(ctx, id.UserID, milestoneID, update)
	if err != nil {
		s.metrics.recordFailure(ctx, "update_milestone")
		return nil, storageErr("update milestone", err)
	}

	activityType := models.ActivityMilestoneUpdated
	if update.Status != nil && *update.Status == models.MilestoneCompleted {
		activityType = models.ActivityMilestoneCompleted
	}
	if _, err := s.record(ctx, id.UserID, activityType, models.JSONMap{"milestone_id": milestoneID}); err != nil {
		return nil, err
	}

	s.metrics.milestones.Add(ctx, 1)
	log.Info().
		Str("user_id", id.UserID).
		Str("milestone_id", milestoneID).
		Str("status", string(updated.Status)).
		Msg("Milestone updated")

	return updated, nil
}

// CreateMilestone creates an active milestone for the caller.
func (s *Service) CreateMilestone(ctx context.Context, id auth.Identity, in MilestoneInput) (*models.CareerMilestone, error) {
	if id.UserID == "" {
		return nil, invalid("user id is required")
	}
	if !in.MilestoneType.IsValid() {
		return nil, invalid("unknown milestone_type %q", in.MilestoneType)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > MaxTitleLength {
		return nil, invalid("title must be 1-%d characters", MaxTitleLength)
	}
	if in.TargetValue <= 0 {
		return nil, invalid("target_value must be positive")
	}
	if in.CurrentValue < 0 {
		return nil, invalid("current_value must not be negative")
	}

	m := &models.CareerMilestone{
		ID:            uuid.NewString(),
		UserID:        id.UserID,
		MilestoneType: in.MilestoneType,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		Status:        models.MilestoneActive,
		TargetValue:   in.TargetValue,
		CurrentValue:  in.CurrentValue,
		TargetDate:    in.TargetDate,
	}
	if err := s.store.CreateMilestones(ctx, []*models.CareerMilestone{m}); err != nil {
		s.metrics.recordFailure(ctx, "create_milestone")
		return nil, storageErr("create milestone", err)
	}

	if _, err := s.record(ctx, id.UserID, models.ActivityMilestoneCreated, models.JSONMap{"milestone_id": m.ID}); err != nil {
		return nil, err
	}
	s.metrics.milestones.Add(ctx, 1)
	return m, nil
}

// SeedDefaultMilestones creates the onboarding milestones for a user with
// none. It returns the created milestones, or an empty slice when the user
// already has milestones.
func (s *Service) SeedDefaultMilestones(ctx context.Context, id auth.Identity) ([]*models.CareerMilestone, error) {
	if id.UserID == "" {
		return nil, invalid("user id is required")
	}

	existing, err := s.store.ListMilestones(ctx, id.UserID)
	if err != nil {
		return nil, storageErr("load milestones", err)
	}
	if len(existing) > 0 {
		return []*models.CareerMilestone{}, nil
	}

	now, _ := s.clock()
	seeded := make([]*models.CareerMilestone, len(defaultMilestones))
	for i, d := range defaultMilestones {
		seeded[i] = &models.CareerMilestone{
			ID:            uuid.NewString(),
			UserID:        id.UserID,
			MilestoneType: d.milestoneType,
			Title:         d.title,
			Description:   d.description,
			Status:        models.MilestoneActive,
			TargetValue:   d.target,
			TargetDate:    models.NewDate(now.Add(d.due)),
		}
	}

	if err := s.store.CreateMilestones(ctx, seeded); err != nil {
		s.metrics.recordFailure(ctx, "seed_milestones")
		return nil, storageErr("seed milestones", err)
	}

	log.Info().Str("user_id", id.UserID).Int("count", len(seeded)).Msg("Seeded default milestones")
	return seeded, nil
}

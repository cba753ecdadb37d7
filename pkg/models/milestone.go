package models

// MilestoneType classifies a career milestone.
type MilestoneType string

const (
	MilestoneApplicationGoal  MilestoneType = "application_goal"
	MilestoneNetworking       MilestoneType = "networking"
	MilestoneSkillDevelopment MilestoneType = "skill_development"
	MilestoneInterviewPrep    MilestoneType = "interview_prep"
	MilestoneResume           MilestoneType = "resume"
	MilestoneCustom           MilestoneType = "custom"
)

// AllMilestoneTypes is the canonical list of milestone types.
var AllMilestoneTypes = []MilestoneType{
	MilestoneApplicationGoal,
	MilestoneNetworking,
	MilestoneSkillDevelopment,
	MilestoneInterviewPrep,
	MilestoneResume,
	MilestoneCustom,
}

// IsValid reports whether t is a known milestone type.
func (t MilestoneType) IsValid() bool {
	for _, known := range AllMilestoneTypes {
		if t == known {
			return true
		}
	}
	return false
}

// MilestoneStatus is the lifecycle state of a milestone.
// Transitions are always caller-driven.
type MilestoneStatus string

const (
	MilestoneActive    MilestoneStatus = "active"
	MilestoneCompleted MilestoneStatus = "completed"
	MilestonePaused    MilestoneStatus = "paused"
	MilestoneAbandoned MilestoneStatus = "abandoned"
)

// AllMilestoneStatuses is the canonical list of milestone statuses.
var AllMilestoneStatuses = []MilestoneStatus{
	MilestoneActive,
	MilestoneCompleted,
	MilestonePaused,
	MilestoneAbandoned,
}

// IsValid reports whether s is a known milestone status.
func (s MilestoneStatus) IsValid() bool {
	for _, known := range AllMilestoneStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CareerMilestone is a user goal with a numeric target.
type CareerMilestone struct {
	TargetDate    Date            `json:"target_date"`
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	MilestoneType MilestoneType   `json:"milestone_type"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Status        MilestoneStatus `json:"status"`
	TargetValue   float64         `json:"target_value"`
	CurrentValue  float64         `json:"current_value"`
}

// IsActive reports whether the milestone participates in progress evaluation.
func (m *CareerMilestone) IsActive() bool {
	return m.Status == MilestoneActive
}

// MilestoneUpdate is a partial update; nil fields are left unchanged.
type MilestoneUpdate struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	TargetValue  *float64         `json:"target_value,omitempty"`
	CurrentValue *float64         `json:"current_value,omitempty"`
	TargetDate   *Date            `json:"target_date,omitempty"`
	Status       *MilestoneStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u *MilestoneUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.TargetValue == nil &&
		u.CurrentValue == nil && u.TargetDate == nil && u.Status == nil
}

// Apply copies the non-nil fields of u onto m.
func (u *MilestoneUpdate) Apply(m *CareerMilestone) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.TargetValue != nil {
		m.TargetValue = *u.TargetValue
	}
	if u.CurrentValue != nil {
		m.CurrentValue = *u.CurrentValue
	}
	if u.TargetDate != nil {
		m.TargetDate = *u.TargetDate
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
}

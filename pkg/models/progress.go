// Package models contains domain models for the career momentum engine.
package models

import "time"

// DateLayout is the storage and wire format for date-only fields.
const DateLayout = "2006-01-02"

// Counter names a single weekly activity counter.
type Counter string

const (
	CounterApplications  Counter = "applications_count"
	CounterJobsViewed    Counter = "jobs_viewed"
	CounterJobsSaved     Counter = "jobs_saved"
	CounterResumeUpdates Counter = "resume_updates"
	CounterSkillProgress Counter = "skill_progress_updates"
	CounterNetworking    Counter = "networking_activities"
	CounterInterviews    Counter = "interview_count"
)

// AllCounters lists every weekly counter in storage column order.
var AllCounters = []Counter{
	CounterApplications,
	CounterJobsViewed,
	CounterJobsSaved,
	CounterResumeUpdates,
	CounterSkillProgress,
	CounterNetworking,
	CounterInterviews,
}

// WeeklyCounters holds the raw engagement counters for one week.
// All values are non-negative.
type WeeklyCounters struct {
	ApplicationsCount    int `json:"applications_count"`
	JobsViewed           int `json:"jobs_viewed"`
	JobsSaved            int `json:"jobs_saved"`
	ResumeUpdates        int `json:"resume_updates"`
	SkillProgressUpdates int `json:"skill_progress_updates"`
	NetworkingActivities int `json:"networking_activities"`
	InterviewCount       int `json:"interview_count"`
}

// Get returns the value of the named counter. Unknown names return 0.
func (c WeeklyCounters) Get(name Counter) int {
	switch name {
	case CounterApplications:
		return c.ApplicationsCount
	case CounterJobsViewed:
		return c.JobsViewed
	case CounterJobsSaved:
		return c.JobsSaved
	case CounterResumeUpdates:
		return c.ResumeUpdates
	case CounterSkillProgress:
		return c.SkillProgressUpdates
	case CounterNetworking:
		return c.NetworkingActivities
	case CounterInterviews:
		return c.InterviewCount
	}
	return 0
}

// Add increments the named counter by delta. Unknown names are ignored.
func (c *WeeklyCounters) Add(name Counter, delta int) {
	switch name {
	case CounterApplications:
		c.ApplicationsCount += delta
	case CounterJobsViewed:
		c.JobsViewed += delta
	case CounterJobsSaved:
		c.JobsSaved += delta
	case CounterResumeUpdates:
		c.ResumeUpdates += delta
	case CounterSkillProgress:
		c.SkillProgressUpdates += delta
	case CounterNetworking:
		c.NetworkingActivities += delta
	case CounterInterviews:
		c.InterviewCount += delta
	}
}

// WeeklyProgress is the per-user aggregate for one ISO week.
// (UserID, WeekStart) is unique; only the current week is ever rewritten.
type WeeklyProgress struct {
	WeekStart Date   `json:"week_start"`
	UserID    string `json:"user_id"`
	WeeklyCounters
	ID                     int64 `json:"id,omitempty"`
	MomentumScore          int   `json:"momentum_score"`
	GoalProgressPercentage int   `json:"goal_progress_percentage"`
}

// WeekStartOf returns the Monday 00:00 of the week containing t, in loc.
// The window of the current week runs from this instant up to now.
func WeekStartOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
}

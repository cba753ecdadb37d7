package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Activity types with a known point value or weekly counter.
// Any other non-empty string is accepted and earns DefaultActivityPoints.
const (
	ActivityJobApplied         = "job_applied"
	ActivityJobSaved           = "job_saved"
	ActivityJobViewed          = "job_viewed"
	ActivityResumeUpdated      = "resume_updated"
	ActivitySkillProgress      = "skill_progress"
	ActivityNetworking         = "networking"
	ActivityInterviewScheduled = "interview_scheduled"
	ActivityMilestoneUpdated   = "milestone_updated"
	ActivityMilestoneCompleted = "milestone_completed"
	ActivityMilestoneCreated   = "milestone_created"
)

// DefaultActivityPoints is awarded for activity types missing from ActivityPoints.
const DefaultActivityPoints = 5

// MaxActivityDataBytes bounds the encoded size of UserActivity.ActivityData.
const MaxActivityDataBytes = 4096

// ActivityPoints is the static activity type to points table.
var ActivityPoints = map[string]int{
	ActivityJobApplied:         10,
	ActivityJobSaved:           3,
	ActivityJobViewed:          1,
	ActivityResumeUpdated:      15,
	ActivitySkillProgress:      8,
	ActivityNetworking:         12,
	ActivityInterviewScheduled: 20,
	ActivityMilestoneUpdated:   5,
	ActivityMilestoneCompleted: 25,
	ActivityMilestoneCreated:   2,
}

// PointsFor returns the points earned by an activity of the given type.
func PointsFor(activityType string) int {
	if points, ok := ActivityPoints[activityType]; ok {
		return points
	}
	return DefaultActivityPoints
}

// counterByType maps activity and interaction types onto weekly counters.
var counterByType = map[string]Counter{
	ActivityJobApplied:         CounterApplications,
	ActivityJobViewed:          CounterJobsViewed,
	ActivityJobSaved:           CounterJobsSaved,
	ActivityResumeUpdated:      CounterResumeUpdates,
	ActivitySkillProgress:      CounterSkillProgress,
	ActivityNetworking:         CounterNetworking,
	ActivityInterviewScheduled: CounterInterviews,
}

// CounterFor returns the weekly counter an activity type feeds, if any.
func CounterFor(activityType string) (Counter, bool) {
	c, ok := counterByType[activityType]
	return c, ok
}

// UserActivity is an immutable, append-only activity log entry.
type UserActivity struct {
	CreatedAt    time.Time `json:"created_at"`
	ActivityData JSONMap   `json:"activity_data,omitempty"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	ID           int64     `json:"id"`
	PointsEarned int       `json:"points_earned"`
}

// RawInteraction is one entry of the raw job interaction log.
// InteractionType uses the activity type vocabulary (job_viewed, job_applied, ...).
type RawInteraction struct {
	CreatedAt       time.Time `json:"created_at"`
	UserID          string    `json:"user_id"`
	InteractionType string    `json:"interaction_type"`
	JobID           string    `json:"job_id,omitempty"`
	ID              int64     `json:"id"`
}

// JSONMap is an opaque JSON object stored as text.
// The engine never interprets its contents.
type JSONMap map[string]interface{}

// Scan implements sql.Scanner for JSONMap.
func (j *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", src)
	}

	if len(data) == 0 {
		*j = nil
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements driver.Valuer for JSONMap.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// EncodedSize returns the length of the JSON encoding of j.
func (j JSONMap) EncodedSize() (int, error) {
	if j == nil {
		return 0, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

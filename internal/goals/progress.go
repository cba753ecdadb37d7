// Package goals evaluates career milestone completion and urgency.
package goals

import (
	"math"
	"sort"
	"time"

	"github.com/thebtf/momentum/pkg/models"
)

// MaxPriorityMilestones is the number of milestones NextPriorityMilestones returns at most.
const MaxPriorityMilestones = 3

// ComputeGoalProgress returns the mean completion of active milestones as a
// 0-100 percentage, rounded half-up.
//
// With no active milestones the user has nothing outstanding, so the result is 100.
// A non-positive target counts as already complete.
func ComputeGoalProgress(milestones []*models.CareerMilestone) int {
	var sum float64
	active := 0

	for _, m := range milestones {
		if m == nil || !m.IsActive() {
			continue
		}
		active++
		sum += completion(m)
	}

	if active == 0 {
		return 100
	}

	return int(math.Floor(sum/float64(active)*100 + 0.5))
}

// completion returns min(current/target, 1), floored at 0.
func completion(m *models.CareerMilestone) float64 {
	if m.TargetValue <= 0 {
		return 1
	}
	ratio := m.CurrentValue / m.TargetValue
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// IsOverdue reports whether an active milestone's target date is a calendar
// day strictly before now's date. Milestones without a target date are never overdue.
func IsOverdue(m *models.CareerMilestone, now time.Time) bool {
	if m.TargetDate.IsZero() {
		return false
	}
	return m.TargetDate.Before(models.NewDate(now))
}

// NextPriorityMilestones returns up to three active milestones ordered by urgency.
//
// Overdue milestones always come first, then upcoming ones; each group is
// ordered by target date ascending, and milestones without a target date
// go last. Input order breaks ties. The input slice is not modified.
func NextPriorityMilestones(milestones []*models.CareerMilestone, now time.Time) []*models.CareerMilestone {
	active := make([]*models.CareerMilestone, 0, len(milestones))
	for _, m := range milestones {
		if m != nil && m.IsActive() {
			active = append(active, m)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		aOverdue, bOverdue := IsOverdue(a, now), IsOverdue(b, now)
		if aOverdue != bOverdue {
			return aOverdue
		}
		if a.TargetDate.IsZero() != b.TargetDate.IsZero() {
			return b.TargetDate.IsZero()
		}
		return a.TargetDate.Before(b.TargetDate)
	})

	if len(active) > MaxPriorityMilestones {
		active = active[:MaxPriorityMilestones]
	}
	return active
}

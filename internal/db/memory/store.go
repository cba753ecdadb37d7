// Package memory provides an in-process store that honors the same
// contracts as the GORM store. It backs tests and local runs without a DSN.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

var (
	_ db.ProgressStore     = (*Store)(nil)
	_ db.BenchmarkWriter   = (*Store)(nil)
	_ db.InteractionWriter = (*Store)(nil)
	_ db.Pinger            = (*Store)(nil)
)

type weekKey struct {
	userID    string
	weekStart string
}

type cohortKey struct {
	careerStage string
	targetRole  string
}

// Store is a mutex-guarded in-memory implementation of db.ProgressStore.
// Values are copied in and out so callers never share state with the store.
type Store struct {
	weeks        map[weekKey]*models.WeeklyProgress
	milestones   map[string]*models.CareerMilestone
	cohorts      map[cohortKey]*models.BenchmarkCohort
	activities   []*models.UserActivity
	interactions []*models.RawInteraction
	milestoneSeq []string
	nextWeekID   int64
	nextActID    int64
	nextIntID    int64
	mu           sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		weeks:      make(map[weekKey]*models.WeeklyProgress),
		milestones: make(map[string]*models.CareerMilestone),
		cohorts:    make(map[cohortKey]*models.BenchmarkCohort),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

func copyWeek(wp *models.WeeklyProgress) *models.WeeklyProgress {
	c := *wp
	return &c
}

func copyMilestone(m *models.CareerMilestone) *models.CareerMilestone {
	c := *m
	return &c
}

func copyActivity(a *models.UserActivity) *models.UserActivity {
	c := *a
	if a.ActivityData != nil {
		c.ActivityData = make(models.JSONMap, len(a.ActivityData))
		for k, v := range a.ActivityData {
			c.ActivityData[k] = v
		}
	}
	return &c
}

// GetWeeklyProgress returns the week, or nil when absent.
func (s *Store) GetWeeklyProgress(ctx context.Context, userID string, weekStart models.Date) (*models.WeeklyProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	wp, ok := s.weeks[weekKey{userID, weekStart.String()}]
	if !ok {
		return nil, nil
	}
	return copyWeek(wp), nil
}

// ListWeeklyProgress returns up to limit weeks, most recent first.
func (s *Store) ListWeeklyProgress(ctx context.Context, userID string, limit int) ([]*models.WeeklyProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.WeeklyProgress
	for k, wp := range s.weeks {
		if k.userID == userID {
			out = append(out, copyWeek(wp))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].WeekStart.Before(out[i].WeekStart)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertWeeklyProgress inserts or replaces the week keyed by (user_id, week_start).
func (s *Store) UpsertWeeklyProgress(ctx context.Context, wp *models.WeeklyProgress) (*models.WeeklyProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if wp == nil || wp.UserID == "" || wp.WeekStart.IsZero() {
		return nil, fmt.Errorf("upsert weekly progress: user_id and week_start are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := weekKey{wp.UserID, wp.WeekStart.String()}
	stored := copyWeek(wp)
	if existing, ok := s.weeks[key]; ok {
		stored.ID = existing.ID
	} else {
		s.nextWeekID++
		stored.ID = s.nextWeekID
	}
	s.weeks[key] = stored
	return copyWeek(stored), nil
}

// UpdateWeeklyScores rewrites the derived scores of an existing week.
func (s *Store) UpdateWeeklyScores(ctx context.Context, userID string, weekStart models.Date, momentum, goalProgress int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if wp, ok := s.weeks[weekKey{userID, weekStart.String()}]; ok {
		wp.MomentumScore = momentum
		wp.GoalProgressPercentage = goalProgress
	}
	return nil
}

// IncrementWeeklyCounter adds delta to one counter of an existing week.
func (s *Store) IncrementWeeklyCounter(ctx context.Context, userID string, weekStart models.Date, counter models.Counter, delta int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !db.IsCounter(counter) {
		return false, fmt.Errorf("%w: %q", db.ErrUnknownCounter, counter)
	}
	if delta <= 0 {
		return false, fmt.Errorf("increment %s: delta must be positive, got %d", counter, delta)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wp, ok := s.weeks[weekKey{userID, weekStart.String()}]
	if !ok {
		return false, nil
	}
	wp.WeeklyCounters.Add(counter, delta)
	return true, nil
}

// ListMilestones returns the user's milestones in creation order.
func (s *Store) ListMilestones(ctx context.Context, userID string) ([]*models.CareerMilestone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.CareerMilestone
	for _, id := range s.milestoneSeq {
		if m := s.milestones[id]; m.UserID == userID {
			out = append(out, copyMilestone(m))
		}
	}
	return out, nil
}

// GetMilestone returns one milestone owned by userID.
func (s *Store) GetMilestone(ctx context.Context, userID, id string) (*models.CareerMilestone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.milestones[id]
	if !ok || m.UserID != userID {
		return nil, fmt.Errorf("milestone %s: %w", id, db.ErrNotFound)
	}
	return copyMilestone(m), nil
}

// CreateMilestones inserts all milestones or none.
func (s *Store) CreateMilestones(ctx context.Context, milestones []*models.CareerMilestone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range milestones {
		if m.ID == "" {
			return fmt.Errorf("create milestones: empty id")
		}
		if _, dup := s.milestones[m.ID]; dup {
			return fmt.Errorf("create milestones: duplicate id %s", m.ID)
		}
	}
	for _, m := range milestones {
		s.milestones[m.ID] = copyMilestone(m)
		s.milestoneSeq = append(s.milestoneSeq, m.ID)
	}
	return nil
}

// UpdateMilestone applies a partial update to a milestone owned by userID.
func (s *Store) UpdateMilestone(ctx context.Context, userID, id string, update *models.MilestoneUpdate) (*models.CareerMilestone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.milestones[id]
	if !ok || m.UserID != userID {
		return nil, fmt.Errorf("milestone %s: %w", id, db.ErrNotFound)
	}
	if update != nil {
		update.Apply(m)
	}
	return copyMilestone(m), nil
}

// InsertActivity appends an activity and returns its ID.
func (s *Store) InsertActivity(ctx context.Context, activity *models.UserActivity) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActID++
	stored := copyActivity(activity)
	stored.ID = s.nextActID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.activities = append(s.activities, stored)
	return stored.ID, nil
}

// ListRecentActivities returns up to limit activities, newest first.
func (s *Store) ListRecentActivities(ctx context.Context, userID string, limit int) ([]*models.UserActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.UserActivity
	for _, a := range s.activities {
		if a.UserID == userID {
			out = append(out, copyActivity(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListActivitiesSince returns activities created at or after since, oldest first.
func (s *Store) ListActivitiesSince(ctx context.Context, userID string, since time.Time) ([]*models.UserActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.UserActivity
	for _, a := range s.activities {
		if a.UserID == userID && !a.CreatedAt.Before(since) {
			out = append(out, copyActivity(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetBenchmarkCohort returns the matching cohort, or nil when absent.
func (s *Store) GetBenchmarkCohort(ctx context.Context, careerStage, targetRole string) (*models.BenchmarkCohort, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cohorts[cohortKey{careerStage, targetRole}]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// UpsertBenchmarkCohort inserts or replaces a cohort.
func (s *Store) UpsertBenchmarkCohort(ctx context.Context, cohort *models.BenchmarkCohort) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *cohort
	s.cohorts[cohortKey{cohort.CareerStage, cohort.TargetRole}] = &cp
	return nil
}

// RecordInteraction appends one raw interaction.
func (s *Store) RecordInteraction(ctx context.Context, interaction *models.RawInteraction) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextIntID++
	cp := *interaction
	cp.ID = s.nextIntID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.interactions = append(s.interactions, &cp)
	return cp.ID, nil
}

// ListRawInteractions returns interactions at or after since, oldest first.
func (s *Store) ListRawInteractions(ctx context.Context, userID string, since time.Time) ([]*models.RawInteraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RawInteraction
	for _, in := range s.interactions {
		if in.UserID == userID && !in.CreatedAt.Before(since) {
			cp := *in
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

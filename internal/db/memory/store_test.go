package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

func TestWeeks_UpsertGetList(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for _, ws := range []string{"2025-02-24", "2025-03-10", "2025-03-03"} {
		_, err := s.UpsertWeeklyProgress(ctx, &models.WeeklyProgress{UserID: "u1", WeekStart: models.MustParseDate(ws)})
		require.NoError(t, err)
	}

	first, err := s.GetWeeklyProgress(ctx, "u1", models.MustParseDate("2025-03-10"))
	require.NoError(t, err)
	require.NotNil(t, first)

	again, err := s.UpsertWeeklyProgress(ctx, &models.WeeklyProgress{
		UserID:        "u1",
		WeekStart:     models.MustParseDate("2025-03-10"),
		MomentumScore: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	weeks, err := s.ListWeeklyProgress(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-03-10", weeks[0].WeekStart.String())
	assert.Equal(t, 42, weeks[0].MomentumScore)
	assert.Equal(t, "2025-03-03", weeks[1].WeekStart.String())

	missing, err := s.GetWeeklyProgress(ctx, "u2", models.MustParseDate("2025-03-10"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWeeks_ReturnedValuesAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ws := models.MustParseDate("2025-03-10")

	stored, err := s.UpsertWeeklyProgress(ctx, &models.WeeklyProgress{UserID: "u1", WeekStart: ws})
	require.NoError(t, err)
	stored.MomentumScore = 99

	got, err := s.GetWeeklyProgress(ctx, "u1", ws)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MomentumScore)
}

func TestWeeks_IncrementAndScores(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	ws := models.MustParseDate("2025-03-10")

	ok, err := s.IncrementWeeklyCounter(ctx, "u1", ws, models.CounterJobsSaved, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.UpsertWeeklyProgress(ctx, &models.WeeklyProgress{UserID: "u1", WeekStart: ws})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.IncrementWeeklyCounter(ctx, "u1", ws, models.CounterJobsSaved, 1)
		}()
	}
	wg.Wait()

	require.NoError(t, s.UpdateWeeklyScores(ctx, "u1", ws, 15, 80))

	got, err := s.GetWeeklyProgress(ctx, "u1", ws)
	require.NoError(t, err)
	assert.Equal(t, 20, got.JobsSaved)
	assert.Equal(t, 15, got.MomentumScore)
	assert.Equal(t, 80, got.GoalProgressPercentage)

	_, err = s.IncrementWeeklyCounter(ctx, "u1", ws, models.Counter("bogus"), 1)
	assert.ErrorIs(t, err, db.ErrUnknownCounter)
}

func TestMilestones(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	a := &models.CareerMilestone{ID: "a", UserID: "u1", Title: "A", Status: models.MilestoneActive, TargetValue: 5}
	b := &models.CareerMilestone{ID: "b", UserID: "u1", Title: "B", Status: models.MilestoneActive, TargetValue: 5}
	require.NoError(t, s.CreateMilestones(ctx, []*models.CareerMilestone{a, b}))
	assert.Error(t, s.CreateMilestones(ctx, []*models.CareerMilestone{{ID: "a", UserID: "u1"}}))

	list, err := s.ListMilestones(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	current := 3.0
	updated, err := s.UpdateMilestone(ctx, "u1", "a", &models.MilestoneUpdate{CurrentValue: &current})
	require.NoError(t, err)
	assert.Equal(t, 3.0, updated.CurrentValue)

	_, err = s.UpdateMilestone(ctx, "u2", "a", &models.MilestoneUpdate{CurrentValue: &current})
	assert.ErrorIs(t, err, db.ErrNotFound)
	_, err = s.GetMilestone(ctx, "u1", "zzz")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestActivitiesNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := s.InsertActivity(ctx, &models.UserActivity{
			UserID:       "u1",
			ActivityType: models.ActivityJobViewed,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := s.ListRecentActivities(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(5), list[0].ID)
	assert.Equal(t, int64(3), list[2].ID)
}

func TestActivitiesSinceOldestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{base.Add(3 * time.Hour), base.Add(-time.Hour), base} {
		_, err := s.InsertActivity(ctx, &models.UserActivity{UserID: "u1", ActivityType: models.ActivityJobApplied, CreatedAt: at})
		require.NoError(t, err)
	}

	list, err := s.ListActivitiesSince(ctx, "u1", base)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, base, list[0].CreatedAt)
	assert.Equal(t, base.Add(3*time.Hour), list[1].CreatedAt)

	list, err = s.ListActivitiesSince(ctx, "u2", base)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCohortsAndInteractions(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	c, err := s.GetBenchmarkCohort(ctx, "mid", "pm")
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, s.UpsertBenchmarkCohort(ctx, &models.BenchmarkCohort{CareerStage: "mid", TargetRole: "pm", AvgApplicationsPerWeek: 6}))
	c, err = s.GetBenchmarkCohort(ctx, "mid", "pm")
	require.NoError(t, err)
	assert.Equal(t, 6.0, c.AvgApplicationsPerWeek)

	since := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = s.RecordInteraction(ctx, &models.RawInteraction{UserID: "u1", InteractionType: models.ActivityJobSaved, CreatedAt: since.Add(-time.Second)})
	require.NoError(t, err)
	_, err = s.RecordInteraction(ctx, &models.RawInteraction{UserID: "u1", InteractionType: models.ActivityJobApplied, CreatedAt: since})
	require.NoError(t, err)

	list, err := s.ListRawInteractions(ctx, "u1", since)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ActivityJobApplied, list[0].InteractionType)
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListMilestones(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
}

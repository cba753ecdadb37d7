package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

func newMilestone(userID, title string) *models.CareerMilestone {
	return &models.CareerMilestone{
		ID:            uuid.NewString(),
		UserID:        userID,
		MilestoneType: models.MilestoneApplicationGoal,
		Title:         title,
		Status:        models.MilestoneActive,
		TargetValue:   10,
		TargetDate:    models.MustParseDate("2025-04-30"),
	}
}

func TestMilestoneStore_CreateAndList(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()
	ctx := context.Background()

	a := newMilestone("u1", "Apply to 10 jobs")
	b := newMilestone("u1", "Five coffee chats")
	b.MilestoneType = models.MilestoneNetworking
	b.Description = "Reach out to former colleagues"
	b.TargetDate = models.Date{}
	other := newMilestone("u2", "Not mine")

	require.NoError(t, store.CreateMilestones(ctx, []*models.CareerMilestone{a, b}))
	require.NoError(t, store.CreateMilestones(ctx, []*models.CareerMilestone{other}))

	list, err := store.ListMilestones(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0])
	assert.Equal(t, b.ID, list[1].ID)
	assert.Equal(t, "Reach out to former colleagues", list[1].Description)
	assert.True(t, list[1].TargetDate.IsZero())
}

func TestMilestoneStore_CreateEmpty(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()

	require.NoError(t, store.CreateMilestones(context.Background(), nil))
}

func TestMilestoneStore_Update(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()
	ctx := context.Background()

	m := newMilestone("u1", "Apply to 10 jobs")
	require.NoError(t, store.CreateMilestones(ctx, []*models.CareerMilestone{m}))

	current := 10.0
	status := models.MilestoneCompleted
	updated, err := store.UpdateMilestone(ctx, "u1", m.ID, &models.MilestoneUpdate{
		CurrentValue: &current,
		Status:       &status,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.CurrentValue)
	assert.Equal(t, models.MilestoneCompleted, updated.Status)
	assert.Equal(t, m.Title, updated.Title)

	got, err := store.GetMilestone(ctx, "u1", m.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestMilestoneStore_UpdateNotFound(t *testing.T) {
	store, cleanup := testStore(t)
	defer cleanup()
	ctx := context.Background()

	m := newMilestone("u1", "Apply to 10 jobs")
	require.NoError(t, store.CreateMilestones(ctx, []*models.CareerMilestone{m}))

	title := "hijack"
	_, err := store.UpdateMilestone(ctx, "u2", m.ID, &models.MilestoneUpdate{Title: &title})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.UpdateMilestone(ctx, "u1", uuid.NewString(), &models.MilestoneUpdate{Title: &title})
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.GetMilestone(ctx, "u2", m.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

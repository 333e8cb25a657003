package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/query"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
)

func ptr[T any](v T) *T { return &v }

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := NewService(repomanager.NewInMemoryRepositoryManager(), cfg)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	seq := 0
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	return s
}

func TestCreate_Defaults(t *testing.T) {
	s := newTestService(t, nil)

	task, err := s.Create(context.Background(), "u1", models.TaskCreate{Title: "buy milk"})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.IsLocked)
	assert.False(t, task.Locked())
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, int64(1), task.Version)
}

func TestCreate_Validation(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.Create(context.Background(), "u1", models.TaskCreate{Title: "   "})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Create(context.Background(), "u1", models.TaskCreate{Title: "x", Priority: ptr(models.Priority(4))})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUpdate_ClearsNullableFields(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x", Description: ptr("d"), DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, task.DueDate.Location())

	var patch models.TaskPatch
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &patch))
	got, err := s.Update(ctx, "u1", task.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.DueDate, "absent fields are untouched")
	assert.True(t, got.DueDate.Equal(due))

	patch = models.TaskPatch{}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null, "title": "y"}`), &patch))
	got, err = s.Update(ctx, "u1", task.ID, patch)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "y", got.Title)
	assert.Equal(t, int64(3), got.Version)
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x"})
	require.NoError(t, err)

	got, err := s.ToggleComplete(ctx, "u1", task.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = s.ToggleComplete(ctx, "u1", task.ID, false)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = s.ToggleComplete(ctx, "u2", task.ID, true)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, "u2", task.ID), common.ErrorNotFound)
	require.NoError(t, s.Delete(ctx, "u1", task.ID))

	_, err = s.Get(ctx, "u1", task.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "u1", task.ID), common.ErrorNotFound)

	opts := query.DefaultOptions()
	opts.IncludeDeleted = true
	list, err := s.List(ctx, "u1", opts)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_FiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []models.Priority{1, 3, 2} {
		_, err := s.Create(ctx, "u1", models.TaskCreate{Title: fmt.Sprintf("p%d", p), Priority: ptr(p), DueDate: &due})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, "u1", models.TaskCreate{Title: "hidden", IsLocked: ptr(true)})
	require.NoError(t, err)
	_, err = s.Create(ctx, "u2", models.TaskCreate{Title: "other user"})
	require.NoError(t, err)

	opts := query.DefaultOptions()
	opts.Sort = query.SortPriority
	list, err := s.List(ctx, "u1", opts)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"p3", "p2", "p1"}, []string{list[0].Title, list[1].Title, list[2].Title})

	opts = query.DefaultOptions()
	opts.Search = "  P2 "
	list, err = s.List(ctx, "u1", opts)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = s.ToggleComplete(ctx, "u1", list[0].ID, true)
	require.NoError(t, err)
	opts = query.DefaultOptions()
	opts.Completed = ptr(true)
	list, err = s.List(ctx, "u1", opts)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].Title)

	opts = query.DefaultOptions()
	opts.Locked = ptr(true)
	list, err = s.List(ctx, "u1", opts)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hidden", list[0].Title)
}

func TestUpdate_VersionConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "u1", task.ID, models.TaskPatch{Title: ptr("y"), Version: ptr(int64(2))})
	assert.ErrorIs(t, err, common.ErrVersionConflict)
}

func TestUpdate_NoopKeepsTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x", Priority: ptr(models.PriorityHigh)})
	require.NoError(t, err)

	got, err := s.Update(ctx, "u1", task.ID, models.TaskPatch{Priority: ptr(models.PriorityHigh)})
	require.NoError(t, err)
	assert.Equal(t, task.UpdatedAt, got.UpdatedAt)
	assert.Equal(t, task.Version, got.Version)
}

func TestGate_LockedTask(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &config.Config{RequireUnlockGrant: true})
	task, err := s.Create(ctx, "u1", models.TaskCreate{Title: "x", IsLocked: ptr(true)})
	require.NoError(t, err)

	_, err = s.Get(ctx, "u1", task.ID)
	assert.ErrorIs(t, err, common.ErrPinRequired)
	assert.ErrorIs(t, s.Delete(ctx, "u1", task.ID), common.ErrPinRequired)

	_, err = s.Get(auth.WithUnlocked(ctx), "u1", task.ID)
	assert.NoError(t, err)
}

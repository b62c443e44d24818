package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

func newSeeded(t *testing.T, titles ...string) (*TaskRepository, []string) {
	t.Helper()

	repo := NewTaskRepository()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	})

	var ids []string
	for _, title := range titles {
		created, err := repo.Create(context.Background(), &domain.Task{Title: title, UserID: "u-1"})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	return repo, ids
}

func TestCreateAssignsDefaults(t *testing.T) {
	repo := NewTaskRepository()

	created, err := repo.Create(context.Background(), &domain.Task{Title: "x", UserID: "u-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestCreateStoresCopy(t *testing.T) {
	repo := NewTaskRepository()

	input := &domain.Task{Title: "x", UserID: "u-1", Activities: []domain.Activity{{Text: "a"}}}
	created, err := repo.Create(context.Background(), input)
	require.NoError(t, err)

	input.Activities[0].Completed = true
	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Activities[0].Completed)
}

func TestListNewestFirst(t *testing.T) {
	repo, _ := newSeeded(t, "first", "second", "third")

	tasks, err := repo.List(context.Background(), repository.TaskFilter{UserID: "u-1"})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestListFilters(t *testing.T) {
	repo, ids := newSeeded(t, "a", "b")
	ctx := context.Background()

	status := domain.StatusCompleted
	require.NoError(t, repo.Patch(ctx, ids[0], repository.TaskPatch{Status: &status}))

	completed, err := repo.List(ctx, repository.TaskFilter{UserID: "u-1", Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, ids[0], completed[0].ID)

	other, err := repo.List(ctx, repository.TaskFilter{UserID: "u-2"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestListPagination(t *testing.T) {
	repo, _ := newSeeded(t, "a", "b", "c", "d")
	ctx := context.Background()

	page, err := repo.List(ctx, repository.TaskFilter{UserID: "u-1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.List(ctx, repository.TaskFilter{UserID: "u-1", Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	empty, err := repo.List(ctx, repository.TaskFilter{UserID: "u-1", Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPatch(t *testing.T) {
	repo, ids := newSeeded(t, "a")
	ctx := context.Background()

	title := "renamed"
	activities := []domain.Activity{{Text: "step", Completed: true}}
	require.NoError(t, repo.Patch(ctx, ids[0], repository.TaskPatch{
		Title:      &title,
		Activities: &activities,
	}))

	got, err := repo.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	require.Len(t, got.Activities, 1)
	assert.True(t, got.Activities[0].Completed)

	assert.ErrorIs(t, repo.Patch(ctx, "ghost", repository.TaskPatch{}), domain.ErrTaskNotFound)
	assert.ErrorIs(t, repo.Patch(ctx, "", repository.TaskPatch{}), domain.ErrMissingTaskID)
}

func TestDelete(t *testing.T) {
	repo, ids := newSeeded(t, "a")
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, ids[0]))
	_, err := repo.GetByID(ctx, ids[0])
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), domain.ErrTaskNotFound)
}

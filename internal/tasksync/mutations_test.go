package tasksync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/internal/notify"
	"github.com/taskboard/backend/repository"
	taskUC "github.com/taskboard/backend/usecase/task"
)

// the task use case is the production mutation store
var _ MutationStore = (*taskUC.UseCase)(nil)

type fakeMutationStore struct {
	updateErr error
	deleteErr error

	updates []repository.TaskPatch
	deletes []string
}

func (f *fakeMutationStore) UpdateTask(ctx context.Context, id string, patch repository.TaskPatch) error {
	f.updates = append(f.updates, patch)
	return f.updateErr
}

func (f *fakeMutationStore) DeleteTask(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func mountedView(t *testing.T) (*Synchronizer, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	s := NewSynchronizer(store, nil)
	s.SetIdentity("owner-1")
	store.last(t).onSnapshot(sampleTasks())
	return s, store
}

func TestToggleActivityFlipsLocally(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{}
	rec := notify.NewRecorder()
	m := NewMutations(view, ms, rec, nil)

	require.NoError(t, m.ToggleActivity(context.Background(), "t-2", 1))

	task := view.TaskByID("t-2")
	assert.True(t, task.Activities[1].Completed)

	require.Len(t, ms.updates, 1)
	require.NotNil(t, ms.updates[0].Activities)
	sent := *ms.updates[0].Activities
	require.Len(t, sent, 2)
	assert.True(t, sent[0].Completed, "untouched items keep their value")
	assert.True(t, sent[1].Completed)
	assert.Nil(t, ms.updates[0].Title, "only the activities field is patched")

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelSuccess, notifications[0].Level)
}

func TestToggleActivityTwiceRestoresOriginal(t *testing.T) {
	view, _ := mountedView(t)
	m := NewMutations(view, &fakeMutationStore{}, nil, nil)

	before := view.TaskByID("t-2")
	require.NoError(t, m.ToggleActivity(context.Background(), "t-2", 0))
	require.NoError(t, m.ToggleActivity(context.Background(), "t-2", 0))

	after := view.TaskByID("t-2")
	assert.Equal(t, before.Activities, after.Activities)
}

func TestToggleActivityRollbackOnPersistFailure(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{updateErr: errors.New("remote write failed")}
	rec := notify.NewRecorder()
	m := NewMutations(view, ms, rec, nil)

	before := view.TaskByID("t-2")
	err := m.ToggleActivity(context.Background(), "t-2", 1)
	require.Error(t, err)

	after := view.TaskByID("t-2")
	assert.Equal(t, before, after, "pre-toggle task restored field for field")

	tasks := view.Tasks()
	assert.Equal(t, "t-2", tasks[0].ID, "restored task keeps its position")

	notifications := rec.All()
	require.Len(t, notifications, 1, "exactly one error notification")
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestToggleActivityUnknownTaskIsNoOp(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{}
	rec := notify.NewRecorder()
	m := NewMutations(view, ms, rec, nil)

	require.NoError(t, m.ToggleActivity(context.Background(), "missing", 0))
	assert.Empty(t, ms.updates)
	assert.Empty(t, rec.All())
}

func TestToggleActivityIndexOutOfRangeIsNoOp(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{}
	m := NewMutations(view, ms, nil, nil)

	require.NoError(t, m.ToggleActivity(context.Background(), "t-2", -1))
	require.NoError(t, m.ToggleActivity(context.Background(), "t-2", 2))
	require.NoError(t, m.ToggleActivity(context.Background(), "t-1", 0), "task without activities")
	assert.Empty(t, ms.updates)
}

func TestDeleteSuccess(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{}
	rec := notify.NewRecorder()
	m := NewMutations(view, ms, rec, nil)

	require.NoError(t, m.Delete(context.Background(), "t-1"))
	assert.Equal(t, []string{"t-1"}, ms.deletes)
	assert.Len(t, view.Tasks(), 2, "local state untouched until the next snapshot")

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelSuccess, notifications[0].Level)
}

func TestDeleteFailure(t *testing.T) {
	view, _ := mountedView(t)
	ms := &fakeMutationStore{deleteErr: errors.New("remote delete failed")}
	rec := notify.NewRecorder()
	m := NewMutations(view, ms, rec, nil)

	require.Error(t, m.Delete(context.Background(), "t-1"))

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

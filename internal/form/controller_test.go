package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/internal/notify"
	"github.com/taskboard/backend/repository"
	taskUC "github.com/taskboard/backend/usecase/task"
)

// the task use case is the production form store
var _ Store = (*taskUC.UseCase)(nil)

type fakeFormStore struct {
	createErr error
	updateErr error

	created []*domain.Task
	updated []struct {
		id    string
		patch repository.TaskPatch
	}
}

func (f *fakeFormStore) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, task)
	out := task.Clone()
	out.ID = "created-id"
	return out, nil
}

func (f *fakeFormStore) UpdateTask(ctx context.Context, id string, patch repository.TaskPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, struct {
		id    string
		patch repository.TaskPatch
	}{id, patch})
	return nil
}

func signedIn(userID string) IdentityFunc {
	return func() (string, bool) { return userID, true }
}

func signedOut() IdentityFunc {
	return func() (string, bool) { return "", false }
}

func TestNewControllerCreateMode(t *testing.T) {
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), nil, nil, nil)

	assert.Equal(t, ModeCreate, c.Mode())
	assert.Empty(t, c.Title)
	assert.Equal(t, domain.PriorityMedium, c.Priority)
	assert.NotNil(t, c.Activities)
	assert.Empty(t, c.Activities)
}

func TestNewControllerEditModeSeedsFields(t *testing.T) {
	initial := &domain.Task{
		ID:          "t-1",
		Title:       "Report",
		Description: "quarterly numbers",
		Priority:    domain.PriorityHigh,
		Activities:  []domain.Activity{{Text: "collect data", Completed: true}},
	}
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), initial, nil, nil)

	assert.Equal(t, ModeEdit, c.Mode())
	assert.Equal(t, "Report", c.Title)
	assert.Equal(t, "quarterly numbers", c.Description)
	assert.Equal(t, domain.PriorityHigh, c.Priority)
	require.Len(t, c.Activities, 1)
	assert.True(t, c.Activities[0].Completed, "completion flags are kept verbatim")

	// the seeded checklist is a copy
	c.Activities[0].Completed = false
	assert.True(t, initial.Activities[0].Completed)
}

func TestNewControllerEditModeWithoutActivities(t *testing.T) {
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), &domain.Task{ID: "t-1", Title: "x"}, nil, nil)
	assert.NotNil(t, c.Activities)
	assert.Empty(t, c.Activities)
}

func TestAddActivity(t *testing.T) {
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), nil, nil, nil)

	c.ActivityInput = "  Buy milk  "
	c.AddActivity()

	require.Len(t, c.Activities, 1)
	assert.Equal(t, "Buy milk", c.Activities[0].Text)
	assert.False(t, c.Activities[0].Completed)
	assert.Empty(t, c.ActivityInput, "input clears after a successful add")
}

func TestAddActivityEmptyInputIgnored(t *testing.T) {
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), nil, nil, nil)

	c.ActivityInput = "   "
	c.AddActivity()
	assert.Empty(t, c.Activities)
}

func TestAddActivityCaseInsensitiveDuplicate(t *testing.T) {
	rec := notify.NewRecorder()
	c := NewController(&fakeFormStore{}, rec, signedIn("u-1"), nil, nil, nil)

	c.ActivityInput = "Buy milk"
	c.AddActivity()
	c.ActivityInput = "buy milk"
	c.AddActivity()

	assert.Len(t, c.Activities, 1)
	assert.Equal(t, "buy milk", c.ActivityInput, "input keeps the rejected value")

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelWarning, notifications[0].Level)
}

func TestRemoveActivity(t *testing.T) {
	c := NewController(&fakeFormStore{}, nil, signedIn("u-1"), nil, nil, nil)
	c.Activities = []domain.Activity{{Text: "a"}, {Text: "b"}, {Text: "c"}}

	c.RemoveActivity(1)
	require.Len(t, c.Activities, 2)
	assert.Equal(t, "a", c.Activities[0].Text)
	assert.Equal(t, "c", c.Activities[1].Text)

	c.RemoveActivity(-1)
	c.RemoveActivity(5)
	assert.Len(t, c.Activities, 2)
}

func TestSubmitUnauthenticated(t *testing.T) {
	store := &fakeFormStore{}
	rec := notify.NewRecorder()
	c := NewController(store, rec, signedOut(), nil, nil, nil)
	c.Title = "Valid title"

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, store.created, "nothing is sent without an identity")

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestSubmitEmptyTitle(t *testing.T) {
	store := &fakeFormStore{}
	c := NewController(store, nil, signedIn("u-1"), nil, nil, nil)
	c.Title = "   "

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Empty(t, store.created)
}

func TestSubmitCreate(t *testing.T) {
	store := &fakeFormStore{}
	successes := 0
	c := NewController(store, nil, signedIn("u-1"), nil, func() { successes++ }, nil)
	c.Title = "  Plan trip  "
	c.Description = "route and hotels"
	c.Priority = domain.PriorityHigh
	c.ActivityInput = "book flights"
	c.AddActivity()

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, store.created, 1)
	sent := store.created[0]
	assert.Equal(t, "Plan trip", sent.Title, "title is trimmed")
	assert.Equal(t, "route and hotels", sent.Description)
	assert.Equal(t, domain.PriorityHigh, sent.Priority)
	assert.Equal(t, "u-1", sent.UserID)
	assert.Equal(t, domain.StatusPending, sent.Status)
	require.Len(t, sent.Activities, 1)
	assert.Equal(t, "book flights", sent.Activities[0].Text)

	// fields reset to defaults after a successful create
	assert.Empty(t, c.Title)
	assert.Empty(t, c.Description)
	assert.Equal(t, domain.PriorityMedium, c.Priority)
	assert.Empty(t, c.Activities)
	assert.Equal(t, 1, successes)
}

func TestSubmitCreateFailureKeepsFields(t *testing.T) {
	store := &fakeFormStore{createErr: errors.New("remote down")}
	rec := notify.NewRecorder()
	successes := 0
	c := NewController(store, rec, signedIn("u-1"), nil, func() { successes++ }, nil)
	c.Title = "Plan trip"
	c.ActivityInput = "book flights"
	c.AddActivity()

	require.Error(t, c.Submit(context.Background()))

	assert.Equal(t, "Plan trip", c.Title, "fields stay for retry")
	assert.Len(t, c.Activities, 1)
	assert.Equal(t, 0, successes)

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

func TestSubmitEdit(t *testing.T) {
	store := &fakeFormStore{}
	initial := &domain.Task{
		ID:         "t-1",
		Title:      "Report",
		Priority:   domain.PriorityLow,
		Activities: []domain.Activity{{Text: "collect data", Completed: true}},
	}
	c := NewController(store, nil, signedIn("u-1"), initial, nil, nil)
	c.Title = "Report v2"
	c.ActivityInput = "write summary"
	c.AddActivity()

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, store.updated, 1)
	assert.Equal(t, "t-1", store.updated[0].id)
	patch := store.updated[0].patch
	require.NotNil(t, patch.Title)
	assert.Equal(t, "Report v2", *patch.Title)
	require.NotNil(t, patch.Activities)
	require.Len(t, *patch.Activities, 2)
	assert.True(t, (*patch.Activities)[0].Completed, "existing completion state survives the edit")
	assert.Nil(t, patch.Status, "status is never part of a form submit")

	// edit mode does not reset fields
	assert.Equal(t, "Report v2", c.Title)
}

func TestSubmitEditFailure(t *testing.T) {
	store := &fakeFormStore{updateErr: errors.New("remote down")}
	rec := notify.NewRecorder()
	initial := &domain.Task{ID: "t-1", Title: "Report"}
	c := NewController(store, rec, signedIn("u-1"), initial, nil, nil)

	require.Error(t, c.Submit(context.Background()))
	assert.Equal(t, "Report", c.Title)

	notifications := rec.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.LevelError, notifications[0].Level)
}

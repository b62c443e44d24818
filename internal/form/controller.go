// Package form manages create/edit task form state: field values, the
// activity checklist, validation, and submission.
package form

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/internal/notify"
	"github.com/taskboard/backend/repository"
)

// Mode is fixed for the lifetime of one form mount.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Store is the mutation surface the form submits through.
type Store interface {
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch repository.TaskPatch) error
}

// IdentityFunc resolves the signed-in user at submit time.
type IdentityFunc func() (userID string, ok bool)

// Controller holds one form's state. Not safe for concurrent use; forms
// live on the UI event loop.
type Controller struct {
	store    Store
	notifier notify.Notifier
	identity IdentityFunc
	logger   *zap.Logger

	mode      Mode
	initial   *domain.Task
	onSuccess func()

	Title         string
	Description   string
	Priority      string
	Activities    []domain.Activity
	ActivityInput string
}

// NewController builds a form. A nil initial task selects create mode;
// otherwise edit mode, with fields seeded verbatim from the task.
func NewController(store Store, notifier notify.Notifier, identity IdentityFunc, initial *domain.Task, onSuccess func(), logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		store:     store,
		notifier:  notifier,
		identity:  identity,
		logger:    logger,
		onSuccess: onSuccess,
		Priority:  domain.PriorityMedium,
	}

	if initial == nil {
		c.mode = ModeCreate
		c.Activities = []domain.Activity{}
		return c
	}

	c.mode = ModeEdit
	c.initial = initial.Clone()
	c.Title = initial.Title
	c.Description = initial.Description
	if initial.Priority != "" {
		c.Priority = initial.Priority
	}
	c.Activities = append([]domain.Activity{}, initial.Activities...)
	return c
}

// Mode reports whether this form creates or edits.
func (c *Controller) Mode() Mode {
	return c.mode
}

// AddActivity appends the pending input as an unchecked checklist item.
// Empty input is ignored; a case-insensitive duplicate publishes a warning
// and leaves the list unchanged. On success the input field is cleared.
func (c *Controller) AddActivity() {
	text := strings.TrimSpace(c.ActivityInput)
	if text == "" {
		return
	}

	lowered := strings.ToLower(text)
	for _, a := range c.Activities {
		if strings.ToLower(a.Text) == lowered {
			notify.Warning(c.notifier, "Duplicate activity", "This activity is already on the list.")
			return
		}
	}

	c.Activities = append(c.Activities, domain.Activity{Text: text, Completed: false})
	c.ActivityInput = ""
}

// RemoveActivity drops the checklist item at index. Out-of-range indices
// are ignored.
func (c *Controller) RemoveActivity(index int) {
	if index < 0 || index >= len(c.Activities) {
		return
	}
	c.Activities = append(c.Activities[:index], c.Activities[index+1:]...)
}

// Submit validates and dispatches to create or update. Fields are left
// untouched on failure so the user can retry; a successful create resets
// them to defaults.
func (c *Controller) Submit(ctx context.Context) error {
	userID, ok := c.identity()
	if !ok || userID == "" {
		notify.Error(c.notifier, "Not signed in", "Sign in to save tasks.")
		return domain.ErrUnauthenticated
	}

	title := strings.TrimSpace(c.Title)
	if title == "" {
		notify.Error(c.notifier, "Missing title", "A task needs a title.")
		return domain.ErrEmptyTitle
	}

	if c.mode == ModeCreate {
		task := &domain.Task{
			Title:       title,
			Description: c.Description,
			Priority:    c.Priority,
			UserID:      userID,
			Activities:  append([]domain.Activity{}, c.Activities...),
			Status:      domain.StatusPending,
		}
		if _, err := c.store.CreateTask(ctx, task); err != nil {
			c.logger.Warn("create task failed", zap.Error(err))
			notify.Error(c.notifier, "Create failed", "The task could not be created.")
			return err
		}
		c.reset()
		notify.Success(c.notifier, "Task created", "")
		c.succeed()
		return nil
	}

	activities := append([]domain.Activity{}, c.Activities...)
	patch := repository.TaskPatch{
		Title:       &title,
		Description: &c.Description,
		Priority:    &c.Priority,
		Activities:  &activities,
	}
	if err := c.store.UpdateTask(ctx, c.initial.ID, patch); err != nil {
		c.logger.Warn("update task failed", zap.String("task_id", c.initial.ID), zap.Error(err))
		notify.Error(c.notifier, "Update failed", "The task could not be updated.")
		return err
	}
	notify.Success(c.notifier, "Task updated", "")
	c.succeed()
	return nil
}

func (c *Controller) reset() {
	c.Title = ""
	c.Description = ""
	c.Priority = domain.PriorityMedium
	c.Activities = []domain.Activity{}
	c.ActivityInput = ""
}

func (c *Controller) succeed() {
	if c.onSuccess != nil {
		c.onSuccess()
	}
}

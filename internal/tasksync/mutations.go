package tasksync

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/internal/notify"
	"github.com/taskboard/backend/internal/optimistic"
	"github.com/taskboard/backend/repository"
)

// MutationStore is the write half of the task store client.
type MutationStore interface {
	UpdateTask(ctx context.Context, id string, patch repository.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
}

// Mutations implements the dashboard's task actions on top of a mounted
// synchronizer.
type Mutations struct {
	view     *Synchronizer
	store    MutationStore
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewMutations(view *Synchronizer, store MutationStore, notifier notify.Notifier, logger *zap.Logger) *Mutations {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutations{
		view:     view,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Delete removes the task remotely. Local state is untouched; the next
// snapshot reflects the removal.
func (m *Mutations) Delete(ctx context.Context, taskID string) error {
	if err := m.store.DeleteTask(ctx, taskID); err != nil {
		m.logger.Warn("delete task failed", zap.String("task_id", taskID), zap.Error(err))
		notify.Error(m.notifier, "Delete failed", "The task could not be deleted.")
		return err
	}
	notify.Success(m.notifier, "Task deleted", "The task was removed.")
	return nil
}

// ToggleActivity flips the completion flag of the checklist item at
// activityIndex, optimistically: the local collection shows the flipped
// value immediately, and a failed persist puts the pre-toggle task back at
// the same position with exactly one error notification. Unknown task ids
// and out-of-range indices are no-ops.
func (m *Mutations) ToggleActivity(ctx context.Context, taskID string, activityIndex int) error {
	before := m.view.TaskByID(taskID)
	if before == nil {
		return nil
	}
	if activityIndex < 0 || activityIndex >= len(before.Activities) {
		return nil
	}

	updated := before.Clone()
	updated.Activities[activityIndex].Completed = !updated.Activities[activityIndex].Completed
	activities := append([]domain.Activity(nil), updated.Activities...)

	txn := optimistic.Transaction[*domain.Task]{
		Snapshot: func() *domain.Task { return before },
		Apply: func() {
			m.view.ReplaceLocal(updated)
		},
		Persist: func(ctx context.Context) error {
			return m.store.UpdateTask(ctx, taskID, repository.TaskPatch{Activities: &activities})
		},
		Restore: func(snapshot *domain.Task) {
			m.view.ReplaceLocal(snapshot)
		},
	}

	if err := txn.Run(ctx); err != nil {
		m.logger.Warn("toggle activity failed",
			zap.String("task_id", taskID),
			zap.Int("activity_index", activityIndex),
			zap.Error(err))
		notify.Error(m.notifier, "Update failed", "The checklist change could not be saved.")
		return err
	}

	notify.Success(m.notifier, "Checklist updated", "")
	return nil
}

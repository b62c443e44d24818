package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
	"github.com/taskboard/backend/usecase"
)

// ChangeNotifier is poked after every successful mutation so live query
// subscribers receive a fresh snapshot.
type ChangeNotifier interface {
	Invalidate(ownerID string)
}

type UseCase struct {
	tasks   repository.TaskRepository
	buffer  usecase.OperationBuffer
	changes ChangeNotifier
	logger  *zap.Logger
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, changes ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:   tasks,
		buffer:  buffer,
		changes: changes,
		logger:  logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrMissingTaskID
	}
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask persists a new task. ID and CreatedAt are assigned by the
// store; Status is forced to pending and Priority defaulted to medium.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(task.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if task.UserID == "" {
		return nil, domain.ErrMissingUserID
	}
	task.Title = strings.TrimSpace(task.Title)
	if !domain.ValidPriority(task.Priority) {
		task.Priority = domain.PriorityMedium
	}
	task.Status = domain.StatusPending
	if task.Activities == nil {
		task.Activities = []domain.Activity{}
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			uc.invalidate(task.UserID)
			return task, nil
		}
		return nil, domain.WrapError(domain.ErrCodeRemoteFailure, "create task failed", err)
	}
	uc.invalidate(created.UserID)
	return created, nil
}

// UpdateTask applies a partial patch; only supplied fields change.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch repository.TaskPatch) error {
	if id == "" {
		return domain.ErrMissingTaskID
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return domain.ErrEmptyTitle
	}
	if patch.Priority != nil && !domain.ValidPriority(*patch.Priority) {
		return domain.NewError(domain.ErrCodeValidation, "invalid priority")
	}
	if patch.Status != nil && !domain.ValidStatus(*patch.Status) {
		return domain.NewError(domain.ErrCodeValidation, "invalid status")
	}

	if err := uc.tasks.Patch(ctx, id, patch); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if snapshot := uc.patchedSnapshot(ctx, id, patch); snapshot != nil &&
			uc.shouldBuffer(ctx, usecase.OperationUpdate, snapshot) {
			uc.invalidate(snapshot.UserID)
			return nil
		}
		return domain.WrapError(domain.ErrCodeRemoteFailure, "update task failed", err)
	}

	if task, err := uc.tasks.GetByID(ctx, id); err == nil {
		uc.invalidate(task.UserID)
	}
	return nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingTaskID
	}

	ownerID := ""
	if task, err := uc.tasks.GetByID(ctx, id); err == nil {
		ownerID = task.UserID
	}

	if err := uc.tasks.Delete(ctx, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		task := &domain.Task{ID: id, UserID: ownerID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			uc.invalidate(ownerID)
			return nil
		}
		return domain.WrapError(domain.ErrCodeRemoteFailure, "delete task failed", err)
	}
	uc.invalidate(ownerID)
	return nil
}

// patchedSnapshot rebuilds the full task for buffering when the store
// rejected a patch. Without a readable current row the patch cannot be
// replayed safely, so buffering is skipped.
func (uc *UseCase) patchedSnapshot(ctx context.Context, id string, patch repository.TaskPatch) *domain.Task {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Activities != nil {
		task.Activities = append([]domain.Activity(nil), (*patch.Activities)...)
	}
	return task
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

func (uc *UseCase) invalidate(ownerID string) {
	if uc.changes == nil || ownerID == "" {
		return
	}
	uc.changes.Invalidate(ownerID)
}

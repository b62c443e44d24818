package repository

import (
	"context"

	"github.com/taskboard/backend/domain"
)

// TaskFilter narrows task queries. UserID is mandatory for list queries
// issued by the live query hub; results are always ordered by creation
// time, newest first.
type TaskFilter struct {
	UserID string
	Status string
	Limit  int
	Offset int
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Activities  *[]domain.Activity
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Patch(ctx context.Context, id string, patch TaskPatch) error
	Delete(ctx context.Context, id string) error
}

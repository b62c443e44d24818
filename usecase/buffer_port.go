package usecase

import (
	"context"

	"github.com/taskboard/backend/domain"
)

// Buffered mutation kinds.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline buffer so use cases stay
// storage-agnostic. Delete operations carry a task holding only its ID.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}

package services

import (
	"context"
	"encoding/json"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/internal/infrastructure/buffer"
	"github.com/taskboard/backend/usecase"
)

// BufferBridge adapts the buffer processor to the use case port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		UserID:    task.UserID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		TaskID:    task.ID,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)

package transport

import (
	"encoding/json"

	"github.com/taskboard/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// TaskView decorates a task document with its computed checklist progress
// for list and detail responses.
type TaskView struct {
	domain.Task
	Progress int `json:"progress"`
}

// NewTaskView wraps a task with its progress percentage.
func NewTaskView(task domain.Task) TaskView {
	return TaskView{Task: task, Progress: task.Progress()}
}

// NewTaskViews maps a snapshot into response form.
func NewTaskViews(tasks []domain.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = NewTaskView(t)
	}
	return views
}

// LoginResponse returns the opened session and its bearer token.
type LoginResponse struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

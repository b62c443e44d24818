package domain

import (
	"math"
	"time"
)

// Task priorities as stored in the task document.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses as stored in the task document.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Activity is a checklist item inside a task. Activities carry no id of
// their own; they are addressed by position in the parent slice.
type Activity struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents a user-owned task document. JSON field names follow the
// persisted document layout and must not change.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	Activities  []Activity `json:"activities"`
	Status      string     `json:"status"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// Progress returns the checklist completion percentage, rounded to the
// nearest integer. A task without activities counts as fully complete.
func (t *Task) Progress() int {
	if t == nil || len(t.Activities) == 0 {
		return 100
	}
	done := 0
	for _, a := range t.Activities {
		if a.Completed {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(t.Activities))))
}

// Clone returns a deep copy of the task. The activities slice is copied so
// the clone can be mutated without touching the original.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.Activities != nil {
		clone.Activities = append([]Activity(nil), t.Activities...)
	}
	return &clone
}

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

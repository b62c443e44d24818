package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskProgress(t *testing.T) {
	tests := []struct {
		name       string
		activities []Activity
		want       int
	}{
		{name: "no activities counts as complete", activities: nil, want: 100},
		{name: "empty slice counts as complete", activities: []Activity{}, want: 100},
		{
			name:       "none done",
			activities: []Activity{{Text: "a"}, {Text: "b"}},
			want:       0,
		},
		{
			name:       "one of two done",
			activities: []Activity{{Text: "a", Completed: true}, {Text: "b"}},
			want:       50,
		},
		{
			name: "one of three rounds to nearest",
			activities: []Activity{
				{Text: "a", Completed: true},
				{Text: "b"},
				{Text: "c"},
			},
			want: 33,
		},
		{
			name: "two of three rounds up",
			activities: []Activity{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c"},
			},
			want: 67,
		},
		{
			name: "all done",
			activities: []Activity{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Activities: tt.activities}
			assert.Equal(t, tt.want, task.Progress())
		})
	}
}

func TestTaskProgressNil(t *testing.T) {
	var task *Task
	assert.Equal(t, 100, task.Progress())
}

func TestTaskClone(t *testing.T) {
	original := &Task{
		ID:         "t-1",
		Title:      "Groceries",
		Priority:   PriorityHigh,
		UserID:     "u-1",
		Activities: []Activity{{Text: "milk"}, {Text: "bread", Completed: true}},
		Status:     StatusPending,
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)
	assert.Equal(t, original, clone)

	clone.Activities[0].Completed = true
	clone.Title = "changed"
	assert.False(t, original.Activities[0].Completed)
	assert.Equal(t, "Groceries", original.Title)
}

func TestTaskCloneNil(t *testing.T) {
	var task *Task
	assert.Nil(t, task.Clone())
}

func TestTaskJSONFieldNames(t *testing.T) {
	task := Task{
		ID:         "t-1",
		UserID:     "u-1",
		Activities: []Activity{{Text: "milk", Completed: true}},
	}

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"id", "title", "description", "priority", "userId", "createdAt", "activities", "status"} {
		assert.Contains(t, doc, key)
	}

	activities, ok := doc["activities"].([]any)
	require.True(t, ok)
	entry := activities[0].(map[string]any)
	assert.Equal(t, "milk", entry["text"])
	assert.Equal(t, true, entry["completed"])
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityLow))
	assert.True(t, ValidPriority(PriorityMedium))
	assert.True(t, ValidPriority(PriorityHigh))
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus("done"))
	assert.False(t, ValidStatus(""))
}

func TestIsCompleted(t *testing.T) {
	assert.True(t, (&Task{Status: StatusCompleted}).IsCompleted())
	assert.False(t, (&Task{Status: StatusPending}).IsCompleted())
	var task *Task
	assert.False(t, task.IsCompleted())
}

package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "mutations")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndBatch(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Enqueue(Item{
		Entity:    EntityTask,
		Operation: OperationCreate,
		TaskID:    "t-1",
		UserID:    "u-1",
		Data:      json.RawMessage(`{"id":"t-1"}`),
	}))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t-1", items[0].TaskID)
	assert.Equal(t, OperationCreate, items[0].Operation)
	assert.NotEmpty(t, items[0].ID, "ids are assigned on enqueue")
	assert.Equal(t, 3, items[0].Priority, "priority defaults to the middle band")
}

func TestBatchOrderedByPriority(t *testing.T) {
	store := openStore(t)

	now := time.Now()
	require.NoError(t, store.Enqueue(Item{Entity: EntityTask, Operation: OperationUpdate, TaskID: "low", Priority: 5, Timestamp: now}))
	require.NoError(t, store.Enqueue(Item{Entity: EntityTask, Operation: OperationDelete, TaskID: "high", Priority: 1, Timestamp: now}))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "high", items[0].TaskID, "urgent operations drain first")
}

func TestRemove(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, TaskID: "t-1"}))
	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))
	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestCleanupDropsOldItems(t *testing.T) {
	store := openStore(t)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, TaskID: "stale", Timestamp: old}))
	require.NoError(t, store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, TaskID: "fresh"}))

	require.NoError(t, store.Cleanup(time.Now().Add(-24*time.Hour)))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].TaskID)
}

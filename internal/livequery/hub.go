package livequery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
	"github.com/taskboard/backend/repository"
)

// SnapshotFunc receives a full replacement collection whenever the
// underlying store changes. Tasks are ordered by creation time, newest
// first.
type SnapshotFunc = func(tasks []domain.Task)

// ErrorFunc receives subscription failures. The subscription stays
// registered; the caller decides whether to tear it down and retry.
type ErrorFunc = func(err error)

type subscriber struct {
	ownerID    string
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

// Hub runs live queries over the task store. Each subscriber holds a
// per-owner filtered query (userId == ownerID, createdAt descending) and
// is handed the complete matching collection on every invalidation, never
// a diff.
type Hub struct {
	tasks        repository.TaskRepository
	logger       *zap.Logger
	queryTimeout time.Duration

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool

	// fanoutMu serializes deliveries so each subscription observes
	// snapshots in emission order.
	fanoutMu sync.Mutex
}

func NewHub(tasks repository.TaskRepository, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		tasks:        tasks,
		logger:       logger,
		queryTimeout: 5 * time.Second,
		subs:         make(map[int]*subscriber),
	}
}

// SubscribeTasks opens a live query for ownerID and returns the
// unsubscribe function. An empty ownerID never opens a query: the error
// callback fires immediately and the returned function is a no-op. The
// current collection is delivered before SubscribeTasks returns.
func (h *Hub) SubscribeTasks(ownerID string, onSnapshot SnapshotFunc, onError ErrorFunc) func() {
	if ownerID == "" {
		if onError != nil {
			onError(domain.WrapError(domain.ErrCodeSubscription, "owner id is required to listen for tasks", domain.ErrMissingUserID))
		}
		return func() {}
	}

	sub := &subscriber{ownerID: ownerID, onSnapshot: onSnapshot, onError: onError}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		if onError != nil {
			onError(domain.NewError(domain.ErrCodeSubscription, "live query hub is closed"))
		}
		return func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	h.deliver([]*subscriber{sub})

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Invalidate re-runs the owner's query and fans the fresh snapshot out to
// every matching subscriber. Mutating use cases call this after each
// successful write.
func (h *Hub) Invalidate(ownerID string) {
	if ownerID == "" {
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	var matched []*subscriber
	for _, sub := range h.subs {
		if sub.ownerID == ownerID {
			matched = append(matched, sub)
		}
	}
	h.mu.Unlock()

	if len(matched) == 0 {
		return
	}
	h.deliver(matched)
}

// Close drops every subscription. Late invalidations become no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subs = make(map[int]*subscriber)
}

func (h *Hub) deliver(subs []*subscriber) {
	h.fanoutMu.Lock()
	defer h.fanoutMu.Unlock()

	// one query per distinct owner in the batch
	snapshots := make(map[string][]domain.Task)
	failures := make(map[string]error)

	for _, sub := range subs {
		if _, seen := snapshots[sub.ownerID]; seen {
			continue
		}
		if _, seen := failures[sub.ownerID]; seen {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.queryTimeout)
		tasks, err := h.tasks.List(ctx, repository.TaskFilter{UserID: sub.ownerID})
		cancel()
		if err != nil {
			h.logger.Warn("live query failed", zap.String("owner_id", sub.ownerID), zap.Error(err))
			failures[sub.ownerID] = domain.WrapError(domain.ErrCodeSubscription, "live query failed", err)
			continue
		}
		if tasks == nil {
			tasks = []domain.Task{}
		}
		snapshots[sub.ownerID] = tasks
	}

	for _, sub := range subs {
		if err, ok := failures[sub.ownerID]; ok {
			if sub.onError != nil {
				sub.onError(err)
			}
			continue
		}
		if sub.onSnapshot != nil {
			// each subscriber gets its own copy; snapshots are owned by
			// the receiver once delivered
			tasks := snapshots[sub.ownerID]
			out := make([]domain.Task, len(tasks))
			for i := range tasks {
				out[i] = *tasks[i].Clone()
			}
			sub.onSnapshot(out)
		}
	}
}

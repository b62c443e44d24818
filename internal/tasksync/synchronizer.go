// Package tasksync keeps a dashboard view's task collection mirroring the
// store's live query, and hosts the mutation handlers that act on it.
package tasksync

import (
	"sync"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
)

// State is the synchronizer's lifecycle position.
type State int

const (
	// StateIdle: no identity yet, or torn down.
	StateIdle State = iota
	// StateLoading: subscription opening, first snapshot pending.
	StateLoading
	// StateSynced: at least one snapshot received.
	StateSynced
	// StateError: the subscription failed; the last good collection is
	// kept visible.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSynced:
		return "synced"
	case StateError:
		return "error"
	}
	return "unknown"
}

// SubscribeStore is the subscription half of the task store client.
type SubscribeStore interface {
	SubscribeTasks(ownerID string, onSnapshot func(tasks []domain.Task), onError func(err error)) (cancel func())
}

// View is what the synchronizer publishes to the presentation layer.
type View struct {
	State State
	Tasks []domain.Task
	Err   string
}

// Synchronizer owns one live subscription per mounted dashboard view. The
// local task collection is replaced wholesale on every snapshot; mutation
// handlers may swap individual tasks through ReplaceLocal but never touch
// snapshot data in place.
type Synchronizer struct {
	store    SubscribeStore
	logger   *zap.Logger
	onChange func(View)
	redirect func()

	mu         sync.Mutex
	state      State
	tasks      []domain.Task
	errMsg     string
	ownerID    string
	generation int
	cancel     func()
	settled    bool
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithOnChange registers the view callback invoked after every published
// change.
func WithOnChange(fn func(View)) Option {
	return func(s *Synchronizer) { s.onChange = fn }
}

// WithRedirect registers the navigation-away signal fired when identity is
// lost after loading has settled.
func WithRedirect(fn func()) Option {
	return func(s *Synchronizer) { s.redirect = fn }
}

func NewSynchronizer(store SubscribeStore, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		store:  store,
		logger: logger,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetIdentity drives the state machine. A non-empty ownerID opens the
// subscription (Idle -> Loading); an empty one tears it down (any state ->
// Idle), clears the local collection, and fires the redirect signal when
// loading had already settled.
func (s *Synchronizer) SetIdentity(ownerID string) {
	if ownerID == "" {
		s.teardown(true)
		return
	}

	s.mu.Lock()
	if s.ownerID == ownerID && s.cancel != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// switching identities releases the previous subscription first
	s.teardown(false)

	s.mu.Lock()
	s.ownerID = ownerID
	s.state = StateLoading
	s.errMsg = ""
	s.generation++
	gen := s.generation
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)

	cancel := s.store.SubscribeTasks(ownerID,
		func(tasks []domain.Task) { s.onSnapshot(gen, tasks) },
		func(err error) { s.onError(gen, err) },
	)

	s.mu.Lock()
	if s.generation != gen {
		// torn down while the subscription was opening
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()
}

// Unmount releases the subscription without a redirect signal.
func (s *Synchronizer) Unmount() {
	s.teardown(false)
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Tasks returns a copy of the local task collection.
func (s *Synchronizer) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTasks(s.tasks)
}

// ErrorMessage returns the persistent subscription error, empty when
// healthy.
func (s *Synchronizer) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// TaskByID returns a copy of the local task with the given id, nil when
// absent.
func (s *Synchronizer) TaskByID(id string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i].Clone()
		}
	}
	return nil
}

// ReplaceLocal swaps the task with matching id in the local collection,
// preserving its position, and reports whether a task was replaced. This
// is the only mutation path the handlers may use.
func (s *Synchronizer) ReplaceLocal(task *domain.Task) bool {
	if task == nil {
		return false
	}

	s.mu.Lock()
	replaced := false
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = *task.Clone()
			replaced = true
			break
		}
	}
	var view View
	if replaced {
		view = s.viewLocked()
	}
	s.mu.Unlock()

	if replaced {
		s.emit(view)
	}
	return replaced
}

func (s *Synchronizer) onSnapshot(gen int, tasks []domain.Task) {
	s.mu.Lock()
	if gen != s.generation {
		// late callback from a released subscription
		s.mu.Unlock()
		return
	}
	s.tasks = tasks
	s.state = StateSynced
	s.errMsg = ""
	s.settled = true
	view := s.viewLocked()
	s.mu.Unlock()

	s.emit(view)
}

func (s *Synchronizer) onError(gen int, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if s.state != StateLoading && s.state != StateSynced {
		s.mu.Unlock()
		return
	}
	// the last good collection stays visible
	s.state = StateError
	s.errMsg = err.Error()
	s.settled = true
	view := s.viewLocked()
	s.mu.Unlock()

	s.logger.Warn("task subscription failed", zap.Error(err))
	s.emit(view)
}

func (s *Synchronizer) teardown(identityLost bool) {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.generation++
	wasSettled := s.settled
	changed := s.state != StateIdle || len(s.tasks) > 0
	s.state = StateIdle
	s.tasks = nil
	s.errMsg = ""
	s.ownerID = ""
	redirect := s.redirect
	view := s.viewLocked()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if changed {
		s.emit(view)
	}
	if identityLost && wasSettled && redirect != nil {
		redirect()
	}
}

func (s *Synchronizer) viewLocked() View {
	return View{
		State: s.state,
		Tasks: copyTasks(s.tasks),
		Err:   s.errMsg,
	}
}

func (s *Synchronizer) emit(view View) {
	if s.onChange != nil {
		s.onChange(view)
	}
}

func copyTasks(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return nil
	}
	out := make([]domain.Task, len(tasks))
	for i := range tasks {
		out[i] = *tasks[i].Clone()
	}
	return out
}

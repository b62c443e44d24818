package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/taskboard/backend/domain"
)

// Identity is the authenticated user's reference as seen by views.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// State is the provider's observable value: the current identity (nil
// when signed out) and whether the first auth notification is still
// pending.
type State struct {
	Identity *Identity
	Loading  bool
}

// SubscribeFunc attaches a listener to the auth source and returns the
// release function. The source must deliver the current state immediately
// on attach.
type SubscribeFunc func(fn func(user *domain.User)) (cancel func())

// Provider is the process-scoped session observable. It holds exactly one
// upstream auth subscription, opened by Start and released by Close, and
// republishes identity changes to any number of watchers.
type Provider struct {
	subscribe SubscribeFunc
	logger    *zap.Logger

	mu       sync.Mutex
	state    State
	watchers map[int]func(State)
	nextID   int
	cancel   func()
	started  bool
}

func NewProvider(subscribe SubscribeFunc, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		subscribe: subscribe,
		logger:    logger,
		state:     State{Loading: true},
		watchers:  make(map[int]func(State)),
	}
}

// Start opens the upstream subscription. Calling Start twice is a no-op;
// the provider never holds more than one upstream listener.
func (p *Provider) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	cancel := p.subscribe(p.onAuthChange)

	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
}

// Close releases the upstream subscription. Watchers keep the last
// observed state.
func (p *Provider) Close() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.started = false
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Current returns the present state.
func (p *Provider) Current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Watch registers a state listener. The current state is delivered
// immediately; the returned function removes the listener.
func (p *Provider) Watch(fn func(State)) func() {
	if fn == nil {
		return func() {}
	}

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	current := p.state
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.watchers, id)
		p.mu.Unlock()
	}
}

func (p *Provider) onAuthChange(user *domain.User) {
	var identity *Identity
	if user != nil {
		identity = &Identity{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
	}

	p.mu.Lock()
	p.state = State{Identity: identity, Loading: false}
	state := p.state
	fns := make([]func(State), 0, len(p.watchers))
	for _, fn := range p.watchers {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	if identity == nil {
		p.logger.Debug("session cleared")
	} else {
		p.logger.Debug("session changed", zap.String("user_id", identity.ID))
	}

	for _, fn := range fns {
		fn(state)
	}
}

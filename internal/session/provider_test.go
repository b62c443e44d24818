package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/backend/domain"
)

// fakeAuthSource mimics the auth event stream: one listener at a time,
// current state delivered on attach.
type fakeAuthSource struct {
	current  *domain.User
	listener func(user *domain.User)
	attaches int
	cancels  int
}

func (f *fakeAuthSource) subscribe(fn func(user *domain.User)) func() {
	f.attaches++
	f.listener = fn
	fn(f.current)
	return func() {
		f.cancels++
		f.listener = nil
	}
}

func (f *fakeAuthSource) emit(user *domain.User) {
	f.current = user
	if f.listener != nil {
		f.listener(user)
	}
}

func TestProviderLoadingUntilFirstNotification(t *testing.T) {
	src := &fakeAuthSource{}
	p := NewProvider(src.subscribe, nil)

	state := p.Current()
	assert.True(t, state.Loading)
	assert.Nil(t, state.Identity)

	p.Start()
	state = p.Current()
	assert.False(t, state.Loading, "the first notification settles loading even when signed out")
	assert.Nil(t, state.Identity)
}

func TestProviderStartIsIdempotent(t *testing.T) {
	src := &fakeAuthSource{}
	p := NewProvider(src.subscribe, nil)

	p.Start()
	p.Start()
	assert.Equal(t, 1, src.attaches, "exactly one upstream subscription")
}

func TestProviderPublishesIdentity(t *testing.T) {
	src := &fakeAuthSource{}
	p := NewProvider(src.subscribe, nil)
	p.Start()

	src.emit(&domain.User{ID: "u-1", Email: "kim@example.com", DisplayName: "Kim"})

	state := p.Current()
	require.NotNil(t, state.Identity)
	assert.Equal(t, "u-1", state.Identity.ID)
	assert.Equal(t, "kim@example.com", state.Identity.Email)
	assert.Equal(t, "Kim", state.Identity.DisplayName)

	src.emit(nil)
	assert.Nil(t, p.Current().Identity)
	assert.False(t, p.Current().Loading)
}

func TestWatchDeliversCurrentStateImmediately(t *testing.T) {
	src := &fakeAuthSource{current: &domain.User{ID: "u-1"}}
	p := NewProvider(src.subscribe, nil)
	p.Start()

	var states []State
	stop := p.Watch(func(s State) { states = append(states, s) })
	defer stop()

	require.Len(t, states, 1)
	require.NotNil(t, states[0].Identity)
	assert.Equal(t, "u-1", states[0].Identity.ID)
}

func TestWatchReceivesChanges(t *testing.T) {
	src := &fakeAuthSource{}
	p := NewProvider(src.subscribe, nil)
	p.Start()

	var states []State
	stop := p.Watch(func(s State) { states = append(states, s) })

	src.emit(&domain.User{ID: "u-1"})
	src.emit(nil)

	require.Len(t, states, 3, "immediate delivery plus two changes")
	assert.Nil(t, states[0].Identity)
	assert.NotNil(t, states[1].Identity)
	assert.Nil(t, states[2].Identity)

	stop()
	src.emit(&domain.User{ID: "u-2"})
	assert.Len(t, states, 3, "released watcher receives nothing")
}

func TestCloseReleasesUpstream(t *testing.T) {
	src := &fakeAuthSource{}
	p := NewProvider(src.subscribe, nil)
	p.Start()
	src.emit(&domain.User{ID: "u-1"})

	p.Close()
	assert.Equal(t, 1, src.cancels)

	// last observed state survives close
	state := p.Current()
	require.NotNil(t, state.Identity)
	assert.Equal(t, "u-1", state.Identity.ID)
}

func TestWatchNilListener(t *testing.T) {
	p := NewProvider((&fakeAuthSource{}).subscribe, nil)
	assert.NotPanics(t, func() { p.Watch(nil)() })
}

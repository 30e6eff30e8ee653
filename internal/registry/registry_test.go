package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"verideal_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMember struct {
	mu     sync.Mutex
	authed bool
	events []models.AuthEventType
}

func (f *fakeMember) HandleAuthEvent(_ context.Context, ev models.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev.Type)
	f.authed = ev.Type == models.AuthSignedIn
	return nil
}

func (f *fakeMember) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authed
}

func TestGet_CreatesAndSignsIn(t *testing.T) {
	created := 0
	r := New("test", time.Second, func(string) *fakeMember {
		created++
		return &fakeMember{}
	})

	m1, err := r.Get(context.Background(), "u1")
	require.NoError(t, err)
	m2, err := r.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Same(t, m1, m2)
	assert.Equal(t, 1, created)
	assert.Equal(t, []models.AuthEventType{models.AuthSignedIn}, m1.events)
}

func TestSignedOut_EvictsAfterLinger(t *testing.T) {
	r := New("test", time.Second, func(string) *fakeMember { return &fakeMember{} })
	var scheduled func()
	r.afterFunc = func(d time.Duration, f func()) *time.Timer {
		assert.Equal(t, time.Second, d)
		scheduled = f
		return nil
	}

	ctx := context.Background()
	r.HandleAuthEvent(ctx, models.AuthEvent{Type: models.AuthSignedIn, UserID: "u1"})
	m, ok := r.Peek("u1")
	require.True(t, ok)

	r.HandleAuthEvent(ctx, models.AuthEvent{Type: models.AuthSignedOut, UserID: "u1"})
	assert.False(t, m.Authenticated())
	assert.Equal(t, 1, r.Len())

	require.NotNil(t, scheduled)
	scheduled()
	assert.Equal(t, 0, r.Len())
}

func TestSignedOut_KeepsMemberThatSignedBackIn(t *testing.T) {
	r := New("test", time.Second, func(string) *fakeMember { return &fakeMember{} })
	var scheduled func()
	r.afterFunc = func(_ time.Duration, f func()) *time.Timer {
		scheduled = f
		return nil
	}

	ctx := context.Background()
	r.HandleAuthEvent(ctx, models.AuthEvent{Type: models.AuthSignedIn, UserID: "u1"})
	r.HandleAuthEvent(ctx, models.AuthEvent{Type: models.AuthSignedOut, UserID: "u1"})
	_, err := r.Get(ctx, "u1")
	require.NoError(t, err)

	scheduled()
	assert.Equal(t, 1, r.Len())
}

func TestSignedOut_UnknownUserIsIgnored(t *testing.T) {
	r := New("test", time.Second, func(string) *fakeMember { return &fakeMember{} })
	r.HandleAuthEvent(context.Background(), models.AuthEvent{Type: models.AuthSignedOut, UserID: "ghost"})
	assert.Equal(t, 0, r.Len())
}

// Package registry keeps one live synchronizer per signed-in user.
package registry

import (
	"context"
	"log"
	"sync"
	"time"

	"verideal_back_end/internal/models"
)

// Member is a per-user synchronizer driven by auth events.
type Member interface {
	HandleAuthEvent(ctx context.Context, ev models.AuthEvent) error
	Authenticated() bool
}

type Registry[T Member] struct {
	name    string
	mu      sync.Mutex
	members map[string]T
	create  func(userID string) T
	// linger keeps a signed-out member around until its sign-out guard closes.
	linger    time.Duration
	afterFunc func(time.Duration, func()) *time.Timer
}

func New[T Member](name string, linger time.Duration, create func(userID string) T) *Registry[T] {
	return &Registry[T]{
		name:      name,
		members:   make(map[string]T),
		create:    create,
		linger:    linger,
		afterFunc: time.AfterFunc,
	}
}

// Get returns the user's member, creating and signing it in when needed.
// Callers reach here only with a verified session.
func (r *Registry[T]) Get(ctx context.Context, userID string) (T, error) {
	r.mu.Lock()
	m, ok := r.members[userID]
	if !ok {
		m = r.create(userID)
		r.members[userID] = m
	}
	r.mu.Unlock()

	if !m.Authenticated() {
		if err := m.HandleAuthEvent(ctx, models.AuthEvent{Type: models.AuthSignedIn, UserID: userID}); err != nil {
			return m, err
		}
	}
	return m, nil
}

// Peek returns the member without creating or signing it in.
func (r *Registry[T]) Peek(userID string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[userID]
	return m, ok
}

// HandleAuthEvent is registered as an auth subscriber.
func (r *Registry[T]) HandleAuthEvent(ctx context.Context, ev models.AuthEvent) {
	switch ev.Type {
	case models.AuthSignedIn:
		if _, err := r.Get(ctx, ev.UserID); err != nil {
			log.Printf("⚠️ %s load on sign-in failed for %s: %v", r.name, ev.UserID, err)
		}

	case models.AuthSignedOut:
		m, ok := r.Peek(ev.UserID)
		if !ok {
			return
		}
		if err := m.HandleAuthEvent(ctx, ev); err != nil {
			log.Printf("⚠️ %s sign-out failed for %s: %v", r.name, ev.UserID, err)
		}
		r.afterFunc(r.linger, func() { r.evict(ev.UserID, m) })
	}
}

// evict drops m unless the user signed back in meanwhile.
func (r *Registry[T]) evict(userID string, m T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.members[userID]; ok && any(cur) == any(m) && !m.Authenticated() {
		delete(r.members, userID)
	}
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

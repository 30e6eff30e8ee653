// Package cart mirrors each signed-in user's cart rows and keeps them in
// step with the remote table.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store"
)

// Notifier is told about every committed change so other connections can resync.
type Notifier interface {
	Notify(ctx context.Context, userID string, event string)
}

const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

// State is a read-only copy of a synchronizer.
type State struct {
	Items         []models.CartLine `json:"items"`
	Authenticated bool              `json:"authenticated"`
	Loading       bool              `json:"loading"`
	SyncError     string            `json:"sync_error,omitempty"`
}

func (s State) Cart(userID string) models.Cart {
	return models.Cart{UserID: userID, Items: s.Items}
}

type Synchronizer struct {
	userID   string
	store    store.CartStore
	notifier Notifier
	guard    time.Duration
	now      func() time.Time

	// ops serializes mutations; mu guards the fields below.
	ops             sync.Mutex
	mu              sync.RWMutex
	authenticated   bool
	loading         bool
	items           []models.CartLine
	syncErr         error
	signingOutUntil time.Time
}

func NewSynchronizer(userID string, cs store.CartStore, notifier Notifier, guard time.Duration) *Synchronizer {
	return &Synchronizer{
		userID:   userID,
		store:    cs,
		notifier: notifier,
		guard:    guard,
		now:      time.Now,
		items:    []models.CartLine{},
	}
}

func (s *Synchronizer) UserID() string {
	return s.userID
}

func (s *Synchronizer) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.CartLine, len(s.items))
	copy(items, s.items)
	st := State{Items: items, Authenticated: s.authenticated, Loading: s.loading}
	if s.syncErr != nil {
		st.SyncError = s.syncErr.Error()
	}
	return st
}

func (s *Synchronizer) find(productID int64) (models.CartLine, bool) {
	for _, l := range s.items {
		if l.ProductID == productID {
			return l, true
		}
	}
	return models.CartLine{}, false
}

// fail records err in the error slot and returns it.
func (s *Synchronizer) fail(format string, err error) error {
	wrapped := fmt.Errorf(format+": %w", err)
	s.mu.Lock()
	s.syncErr = wrapped
	s.mu.Unlock()
	log.Printf("❌ Cart %s: %v", s.userID, wrapped)
	return wrapped
}

// apply replaces or appends the written row and clears the error slot.
func (s *Synchronizer) apply(saved models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.items {
		if l.ProductID == saved.ProductID {
			s.items[i] = saved
			s.syncErr = nil
			return
		}
	}
	s.items = append(s.items, saved)
	s.syncErr = nil
}

func (s *Synchronizer) notify(ctx context.Context, event string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, s.userID, event)
	}
}

// AddLine merges line into the cart; an existing row gains line.Quantity.
func (s *Synchronizer) AddLine(ctx context.Context, line models.CartLine) (models.CartLine, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.CartLine{}, models.ErrAuthRequired
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	saved, err := s.store.IncrementLine(ctx, s.userID, line)
	if err != nil {
		return models.CartLine{}, s.fail("failed to save item", err)
	}
	s.apply(saved)
	s.notify(ctx, EventUpdated)
	log.Printf("🛒 Product %d added to cart of %s (qty %d)", saved.ProductID, s.userID, saved.Quantity)
	return saved, nil
}

func (s *Synchronizer) RemoveLine(ctx context.Context, productID int64) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.ErrAuthRequired
	}
	if err := s.store.DeleteLine(ctx, s.userID, productID); err != nil {
		return s.fail("failed to remove item", err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, l := range s.items {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	s.items = kept
	s.syncErr = nil
	s.mu.Unlock()

	s.notify(ctx, EventUpdated)
	return nil
}

// SetQuantity overwrites the quantity of a line already in the cart.
// It does nothing for quantities below 1, unknown lines, or a signed-out user.
func (s *Synchronizer) SetQuantity(ctx context.Context, productID int64, qty int) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if qty < 1 || !s.Authenticated() {
		return nil
	}
	s.mu.RLock()
	line, ok := s.find(productID)
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	line.Quantity = qty
	saved, err := s.store.UpsertLine(ctx, s.userID, line)
	if err != nil {
		return s.fail("failed to update quantity", err)
	}
	s.apply(saved)
	s.notify(ctx, EventUpdated)
	return nil
}

// Clear deletes every row. It is refused while the sign-out guard is open.
func (s *Synchronizer) Clear(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.RLock()
	authed, guardOpen := s.authenticated, s.now().Before(s.signingOutUntil)
	s.mu.RUnlock()

	if guardOpen {
		log.Printf("⚠️ Cart clear for %s skipped during sign-out", s.userID)
		return models.ErrSigningOut
	}
	if !authed {
		return nil
	}

	if err := s.store.ClearCart(ctx, s.userID); err != nil {
		return s.fail("failed to clear cart", err)
	}

	s.mu.Lock()
	s.items = []models.CartLine{}
	s.syncErr = nil
	s.mu.Unlock()

	s.notify(ctx, EventCleared)
	log.Printf("🗑️ Cart cleared for %s", s.userID)
	return nil
}

// Refresh reloads from the store and reconciles with the local copy.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.ErrAuthRequired
	}
	return s.load(ctx)
}

func (s *Synchronizer) load(ctx context.Context) error {
	started := s.now()
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	fetched, err := s.store.ListCart(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.syncErr = fmt.Errorf("failed to load cart: %w", err)
		log.Printf("❌ Cart %s: %v", s.userID, s.syncErr)
		return s.syncErr
	}
	s.items = Reconcile(s.items, fetched, started)
	s.syncErr = nil
	return nil
}

// Reconcile merges an authoritative fetch into the local lines. A local line
// newer than its fetched row wins (the read was stale), and a local line
// absent from the fetch survives only if it was written after the fetch began.
func Reconcile(local, fetched []models.CartLine, fetchStarted time.Time) []models.CartLine {
	byID := make(map[int64]models.CartLine, len(local))
	for _, l := range local {
		byID[l.ProductID] = l
	}

	out := make([]models.CartLine, 0, len(fetched))
	seen := make(map[int64]bool, len(fetched))
	for _, f := range fetched {
		seen[f.ProductID] = true
		if l, ok := byID[f.ProductID]; ok && l.NewerThan(f) {
			out = append(out, l)
			continue
		}
		out = append(out, f)
	}
	for _, l := range local {
		if !seen[l.ProductID] && l.UpdatedAt.After(fetchStarted) {
			out = append(out, l)
		}
	}
	return out
}

func (s *Synchronizer) HandleAuthEvent(ctx context.Context, ev models.AuthEvent) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	switch ev.Type {
	case models.AuthSignedIn:
		s.mu.Lock()
		s.authenticated = true
		s.mu.Unlock()
		return s.load(ctx)

	case models.AuthSignedOut:
		// Memory only: rows stay in the store for the next sign-in.
		s.mu.Lock()
		s.authenticated = false
		s.items = []models.CartLine{}
		s.syncErr = nil
		s.signingOutUntil = s.now().Add(s.guard)
		s.mu.Unlock()
		return nil
	}
	return errors.New("unknown auth event " + string(ev.Type))
}

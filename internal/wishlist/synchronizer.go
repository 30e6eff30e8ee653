// Package wishlist mirrors each signed-in user's saved products.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/registry"
	"verideal_back_end/internal/store"
)

// DuplicateMessage is shown when a product is already saved.
const DuplicateMessage = "Item is already in your wishlist"

type State struct {
	Items         []models.WishlistEntry `json:"items"`
	Authenticated bool                   `json:"authenticated"`
	Loading       bool                   `json:"loading"`
	SyncError     string                 `json:"sync_error,omitempty"`
}

type Synchronizer struct {
	userID string
	store  store.WishlistStore

	ops           sync.Mutex
	mu            sync.RWMutex
	authenticated bool
	loading       bool
	items         []models.WishlistEntry
	syncErr       error
}

func NewSynchronizer(userID string, ws store.WishlistStore) *Synchronizer {
	return &Synchronizer{userID: userID, store: ws, items: []models.WishlistEntry{}}
}

func (s *Synchronizer) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.WishlistEntry, len(s.items))
	copy(items, s.items)
	st := State{Items: items, Authenticated: s.authenticated, Loading: s.loading}
	if s.syncErr != nil {
		st.SyncError = s.syncErr.Error()
	}
	return st
}

func (s *Synchronizer) Contains(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.items {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Synchronizer) fail(format string, err error) error {
	wrapped := fmt.Errorf(format+": %w", err)
	s.mu.Lock()
	s.syncErr = wrapped
	s.mu.Unlock()
	log.Printf("❌ Wishlist %s: %v", s.userID, wrapped)
	return wrapped
}

// AddEntry saves the product and puts it at the front of the list.
func (s *Synchronizer) AddEntry(ctx context.Context, entry models.WishlistEntry) (models.WishlistEntry, error) {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.WishlistEntry{}, models.ErrAuthRequired
	}
	if s.Contains(entry.ProductID) {
		return models.WishlistEntry{}, models.ErrDuplicateEntry
	}

	entry.UserID = s.userID
	saved, err := s.store.InsertEntry(ctx, entry)
	if errors.Is(err, models.ErrDuplicateEntry) {
		// Saved from another device; pick it up on the next refresh.
		return models.WishlistEntry{}, models.ErrDuplicateEntry
	}
	if err != nil {
		return models.WishlistEntry{}, s.fail("failed to save item", err)
	}

	s.mu.Lock()
	s.items = append([]models.WishlistEntry{saved}, s.items...)
	s.syncErr = nil
	s.mu.Unlock()

	log.Printf("⭐ Product %d added to wishlist of %s", saved.ProductID, s.userID)
	return saved, nil
}

func (s *Synchronizer) RemoveEntry(ctx context.Context, productID int64) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.ErrAuthRequired
	}
	if err := s.store.DeleteEntry(ctx, s.userID, productID); err != nil {
		return s.fail("failed to remove item", err)
	}

	s.mu.Lock()
	kept := make([]models.WishlistEntry, 0, len(s.items))
	for _, e := range s.items {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	s.items = kept
	s.syncErr = nil
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if !s.Authenticated() {
		return models.ErrAuthRequired
	}
	return s.load(ctx)
}

func (s *Synchronizer) load(ctx context.Context) error {
	started := time.Now()
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	fetched, err := s.store.ListWishlist(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.syncErr = fmt.Errorf("failed to load wishlist: %w", err)
		return s.syncErr
	}
	s.items = Reconcile(s.items, fetched, started)
	s.syncErr = nil
	return nil
}

// Reconcile takes the fetched list as authoritative, keeping local entries
// the fetch could not have seen yet. The result stays newest first.
func Reconcile(local, fetched []models.WishlistEntry, fetchStarted time.Time) []models.WishlistEntry {
	seen := make(map[int64]bool, len(fetched))
	for _, f := range fetched {
		seen[f.ProductID] = true
	}
	out := make([]models.WishlistEntry, 0, len(fetched))
	for _, l := range local {
		if !seen[l.ProductID] && l.CreatedAt.After(fetchStarted) {
			out = append(out, l)
		}
	}
	return append(out, fetched...)
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
		s.mu.Lock()
		s.authenticated = false
		s.items = []models.WishlistEntry{}
		s.syncErr = nil
		s.mu.Unlock()
		return nil
	}
	return errors.New("unknown auth event " + string(ev.Type))
}

type Registry = registry.Registry[*Synchronizer]

func NewRegistry(ws store.WishlistStore, linger time.Duration) *Registry {
	return registry.New("wishlist", linger, func(userID string) *Synchronizer {
		return NewSynchronizer(userID, ws)
	})
}

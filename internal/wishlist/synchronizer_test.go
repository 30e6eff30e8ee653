package wishlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id int64) models.WishlistEntry {
	return models.WishlistEntry{ProductID: id, Name: "Product"}
}

func signedIn(t *testing.T, ws *storetest.Wishlists) *Synchronizer {
	t.Helper()
	s := NewSynchronizer("u1", ws)
	require.NoError(t, s.HandleAuthEvent(context.Background(), models.AuthEvent{Type: models.AuthSignedIn, UserID: "u1"}))
	return s
}

func TestAddEntry_RequiresAuthentication(t *testing.T) {
	s := NewSynchronizer("u1", storetest.NewWishlists())
	_, err := s.AddEntry(context.Background(), entry(1))
	assert.ErrorIs(t, err, models.ErrAuthRequired)
}

func TestAddEntry_NewestFirst(t *testing.T) {
	s := signedIn(t, storetest.NewWishlists())
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := s.AddEntry(ctx, entry(id))
		require.NoError(t, err)
	}

	ids := []int64{}
	for _, e := range s.Snapshot().Items {
		ids = append(ids, e.ProductID)
		assert.Equal(t, "u1", e.UserID)
	}
	assert.Equal(t, []int64{3, 2, 1}, ids)
}

func TestAddEntry_DuplicateLeavesListUnchanged(t *testing.T) {
	s := signedIn(t, storetest.NewWishlists())
	ctx := context.Background()
	_, err := s.AddEntry(ctx, entry(1))
	require.NoError(t, err)

	_, err = s.AddEntry(ctx, entry(1))
	assert.ErrorIs(t, err, models.ErrDuplicateEntry)
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestAddEntry_StoreSideDuplicate(t *testing.T) {
	ws := storetest.NewWishlists()
	s := signedIn(t, ws)
	_, err := ws.InsertEntry(context.Background(), models.WishlistEntry{UserID: "u1", ProductID: 7})
	require.NoError(t, err)

	_, err = s.AddEntry(context.Background(), entry(7))
	assert.ErrorIs(t, err, models.ErrDuplicateEntry)
	assert.Empty(t, s.Snapshot().Items)
	assert.Empty(t, s.Snapshot().SyncError)
}

func TestAddEntry_StoreFailure(t *testing.T) {
	ws := storetest.NewWishlists()
	s := signedIn(t, ws)
	ws.Err = errors.New("unavailable")

	_, err := s.AddEntry(context.Background(), entry(1))
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Items)
	assert.Contains(t, s.Snapshot().SyncError, "unavailable")
}

func TestRemoveEntry(t *testing.T) {
	s := signedIn(t, storetest.NewWishlists())
	ctx := context.Background()
	for _, id := range []int64{1, 2} {
		_, err := s.AddEntry(ctx, entry(id))
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveEntry(ctx, 1))
	require.Len(t, s.Snapshot().Items, 1)
	assert.Equal(t, int64(2), s.Snapshot().Items[0].ProductID)
	assert.False(t, s.Contains(1))
}

func TestSignInLoadsAndSignOutClearsMemory(t *testing.T) {
	ws := storetest.NewWishlists()
	_, err := ws.InsertEntry(context.Background(), models.WishlistEntry{UserID: "u1", ProductID: 4})
	require.NoError(t, err)

	s := signedIn(t, ws)
	require.Len(t, s.Snapshot().Items, 1)

	require.NoError(t, s.HandleAuthEvent(context.Background(), models.AuthEvent{Type: models.AuthSignedOut}))
	assert.Empty(t, s.Snapshot().Items)

	stored, err := ws.ListWishlist(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestReconcile_KeepsEntriesWrittenDuringFetch(t *testing.T) {
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	local := []models.WishlistEntry{
		{ProductID: 9, CreatedAt: started.Add(time.Second)},
		{ProductID: 8, CreatedAt: started.Add(-time.Hour)},
	}
	fetched := []models.WishlistEntry{{ProductID: 2}, {ProductID: 1}}

	got := Reconcile(local, fetched, started)

	ids := []int64{}
	for _, e := range got {
		ids = append(ids, e.ProductID)
	}
	assert.Equal(t, []int64{9, 2, 1}, ids)
}

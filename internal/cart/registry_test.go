package cart

import (
	"context"
	"testing"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SignInLoadsStoredCart(t *testing.T) {
	cs := storetest.NewCarts()
	cs.Put("u1", shirt(2))
	r := NewRegistry(cs, nil, time.Second)

	r.HandleAuthEvent(context.Background(), models.AuthEvent{Type: models.AuthSignedIn, UserID: "u1"})

	s, ok := r.Peek("u1")
	require.True(t, ok)
	st := s.Snapshot()
	assert.True(t, st.Authenticated)
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)
}

func TestRegistry_GetSignsInLazily(t *testing.T) {
	r := NewRegistry(storetest.NewCarts(), nil, time.Second)

	s, err := r.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "u2", s.UserID())
}

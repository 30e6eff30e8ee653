package cart

import (
	"time"

	"verideal_back_end/internal/registry"
	"verideal_back_end/internal/store"
)

type Registry = registry.Registry[*Synchronizer]

// NewRegistry builds one synchronizer per user on demand. guard is the
// window after sign-out during which Clear is refused.
func NewRegistry(cs store.CartStore, notifier Notifier, guard time.Duration) *Registry {
	return registry.New("cart", guard, func(userID string) *Synchronizer {
		return NewSynchronizer(userID, cs, notifier, guard)
	})
}

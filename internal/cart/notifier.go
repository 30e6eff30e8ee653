package cart

import (
	"context"
	"log"

	"verideal_back_end/internal/cache"
)

// RedisNotifier publishes on cart:<userID>; websocket connections listen there.
type RedisNotifier struct {
	cache *cache.Store
}

func NewRedisNotifier(c *cache.Store) *RedisNotifier {
	return &RedisNotifier{cache: c}
}

func Channel(userID string) string {
	return "cart:" + userID
}

func (n *RedisNotifier) Notify(ctx context.Context, userID, event string) {
	if err := n.cache.Publish(ctx, Channel(userID), event); err != nil {
		log.Printf("⚠️ Cart notification for %s failed: %v", userID, err)
	}
}

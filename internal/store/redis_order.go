package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"verideal_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// LastOrderTTL bounds how long the confirmation page can show an order.
const LastOrderTTL = 24 * time.Hour

// RedisOrderStore is an ephemeral per-user record; there is no durable order history.
type RedisOrderStore struct {
	rdb *redis.Client
}

func NewRedisOrderStore(rdb *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{rdb: rdb}
}

func lastOrderKey(userID string) string {
	return "order:last:" + userID
}

func (s *RedisOrderStore) SaveOrder(ctx context.Context, order models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, lastOrderKey(order.UserID), data, LastOrderTTL).Err(); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (s *RedisOrderStore) LastOrder(ctx context.Context, userID string) (models.Order, error) {
	data, err := s.rdb.Get(ctx, lastOrderKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Order{}, models.ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("load order: %w", err)
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return models.Order{}, fmt.Errorf("decode order: %w", err)
	}
	return order, nil
}

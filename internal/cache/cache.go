package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON decodes the cached value under key into dst. A miss reports false with no error.
func (s *Store) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		s.rdb.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, data, ttl).Err()
}

// Remember serves key from Redis, or calls load and caches its result.
// Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if s != nil {
		hit, err := s.GetJSON(ctx, key, &cached)
		if err != nil {
			log.Printf("⚠️ Cache read %s: %v", key, err)
		} else if hit {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if s != nil {
		if err := s.SetJSON(ctx, key, value, ttl); err != nil {
			log.Printf("⚠️ Cache write %s: %v", key, err)
		}
	}
	return value, nil
}

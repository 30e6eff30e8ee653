package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps the shared Redis client with the key conventions used across the service.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Client() *redis.Client {
	return s.rdb
}

// --- JWT blacklist (revocation before expiry) ---

func (s *Store) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, fmt.Sprintf("blacklist:%s", tokenID), "revoked", ttl).Err()
}

func (s *Store) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	exists, err := s.rdb.Exists(ctx, fmt.Sprintf("blacklist:%s", tokenID)).Result()
	if err != nil {
		log.Printf("⚠️ Blacklist check failed: %v", err)
		return false
	}
	return exists > 0
}

// --- One-time sign-in codes ---

func (s *Store) StoreOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.rdb.Set(ctx, "otp:"+email, code, ttl).Err()
}

// ConsumeOTP returns the pending code for email and deletes it in the same round trip.
func (s *Store) ConsumeOTP(ctx context.Context, email string) (string, error) {
	code, err := s.rdb.GetDel(ctx, "otp:"+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return code, err
}

// --- Generic cache ---

func (s *Store) SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *Store) GetCache(ctx context.Context, key string) (string, error) {
	return s.rdb.Get(ctx, key).Result()
}

func (s *Store) DeleteCache(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

// --- Rate limiting ---

// IncrementRateLimit bumps the counter and starts the window on first hit.
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *Store) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

func (s *Store) RateLimitTTL(ctx context.Context, key string) time.Duration {
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func (s *Store) ResetRateLimit(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// --- Pub/sub ---

func (s *Store) Publish(ctx context.Context, channel string, payload interface{}) error {
	return s.rdb.Publish(ctx, channel, payload).Err()
}

func (s *Store) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, channel)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"verideal_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisRatingStore keeps one hash per product: rating:<id> {rate, count}.
type RedisRatingStore struct {
	rdb *redis.Client
}

func NewRedisRatingStore(rdb *redis.Client) *RedisRatingStore {
	return &RedisRatingStore{rdb: rdb}
}

func ratingKey(productID int64) string {
	return fmt.Sprintf("rating:%d", productID)
}

func readRating(ctx context.Context, c redis.Cmdable, key string) (models.RatingState, bool, error) {
	fields, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return models.RatingState{}, false, err
	}
	if len(fields) == 0 {
		return models.RatingState{}, false, nil
	}
	rate, err := strconv.ParseFloat(fields["rate"], 64)
	if err != nil {
		return models.RatingState{}, false, fmt.Errorf("corrupt rate in %s: %w", key, err)
	}
	count, err := strconv.Atoi(fields["count"])
	if err != nil {
		return models.RatingState{}, false, fmt.Errorf("corrupt count in %s: %w", key, err)
	}
	return models.RatingState{Rate: rate, Count: count}, true, nil
}

func (s *RedisRatingStore) GetRating(ctx context.Context, productID int64) (models.RatingState, bool, error) {
	return readRating(ctx, s.rdb, ratingKey(productID))
}

// UpdateRating runs fn inside WATCH/MULTI and starts over if another writer
// touched the key in between.
func (s *RedisRatingStore) UpdateRating(ctx context.Context, productID int64, fn RatingMutation) (models.RatingState, error) {
	key := ratingKey(productID)
	var result models.RatingState

	txf := func(tx *redis.Tx) error {
		current, found, err := readRating(ctx, tx, key)
		if err != nil {
			return err
		}
		next, keep, err := fn(current, found)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if keep {
				pipe.HSet(ctx, key, "rate", strconv.FormatFloat(next.Rate, 'g', -1, 64), "count", next.Count)
			} else {
				pipe.Del(ctx, key)
			}
			return nil
		})
		result = next
		return err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return models.RatingState{}, err
	}
	return models.RatingState{}, models.ErrWriteConflict
}

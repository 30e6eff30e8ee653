package store

import (
	"context"
	"errors"
	"fmt"

	"verideal_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaReviewStore struct {
	db SessionProvider
}

func NewScyllaReviewStore(db SessionProvider) *ScyllaReviewStore {
	return &ScyllaReviewStore{db: db}
}

func (s *ScyllaReviewStore) GetReview(ctx context.Context, userID string, productID int64) (models.Review, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.Review{}, err
	}

	review := models.Review{UserID: userID, ProductID: productID}
	err = session.Query(`SELECT rating, experience, created_at FROM reviews_by_user
		WHERE user_id = ? AND product_id = ?`, userID, productID).
		WithContext(ctx).Scan(&review.Rating, &review.Experience, &review.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.Review{}, models.ErrReviewNotFound
	}
	if err != nil {
		return models.Review{}, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (s *ScyllaReviewStore) InsertReview(ctx context.Context, review models.Review) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	applied, err := session.Query(`INSERT INTO reviews_by_user (user_id, product_id, rating, experience, created_at)
		VALUES (?, ?, ?, ?, ?) IF NOT EXISTS`,
		review.UserID, review.ProductID, review.Rating, review.Experience, review.CreatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	if !applied {
		return models.ErrAlreadyReviewed
	}
	return nil
}

// DeleteReview uses IF EXISTS so two concurrent retractions cannot both succeed.
func (s *ScyllaReviewStore) DeleteReview(ctx context.Context, userID string, productID int64) (models.Review, error) {
	review, err := s.GetReview(ctx, userID, productID)
	if err != nil {
		return models.Review{}, err
	}

	session, err := s.db.Session()
	if err != nil {
		return models.Review{}, err
	}
	applied, err := session.Query(`DELETE FROM reviews_by_user WHERE user_id = ? AND product_id = ? IF EXISTS`,
		userID, productID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return models.Review{}, fmt.Errorf("delete review: %w", err)
	}
	if !applied {
		return models.Review{}, models.ErrReviewNotFound
	}
	return review, nil
}

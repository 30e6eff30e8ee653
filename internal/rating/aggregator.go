// Package rating maintains per-product review aggregates.
package rating

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store"
)

// BaselineSource returns the catalog's own rating for a product.
type BaselineSource interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
}

type Aggregator struct {
	reviews  store.ReviewStore
	ratings  store.RatingStore
	baseline BaselineSource
	now      func() time.Time
}

func NewAggregator(reviews store.ReviewStore, ratings store.RatingStore, baseline BaselineSource) *Aggregator {
	return &Aggregator{
		reviews:  reviews,
		ratings:  ratings,
		baseline: baseline,
		now:      time.Now,
	}
}

func (a *Aggregator) baselineFor(ctx context.Context, productID int64) models.RatingState {
	if a.baseline == nil {
		return models.RatingState{}
	}
	p, err := a.baseline.GetProduct(ctx, productID)
	if err != nil {
		log.Printf("⚠️ No catalog baseline for product %d: %v", productID, err)
		return models.RatingState{}
	}
	return p.Rating
}

// CurrentState returns the stored aggregate, or the catalog baseline when none exists.
func (a *Aggregator) CurrentState(ctx context.Context, productID int64) (models.RatingState, error) {
	state, found, err := a.ratings.GetRating(ctx, productID)
	if err != nil {
		return models.RatingState{}, fmt.Errorf("read rating: %w", err)
	}
	if found {
		return state, nil
	}
	return a.baselineFor(ctx, productID), nil
}

func (a *Aggregator) UserReview(ctx context.Context, userID string, productID int64) (models.Review, error) {
	return a.reviews.GetReview(ctx, userID, productID)
}

func (a *Aggregator) IsReviewed(ctx context.Context, userID string, productID int64) (bool, error) {
	_, err := a.reviews.GetReview(ctx, userID, productID)
	if errors.Is(err, models.ErrReviewNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SubmitReview records the user's single review and folds it into the aggregate.
func (a *Aggregator) SubmitReview(ctx context.Context, userID string, productID int64, rating int, text string) (models.RatingState, error) {
	if userID == "" {
		return models.RatingState{}, models.ErrAuthRequired
	}
	text = strings.TrimSpace(text)
	if rating < 1 || rating > 5 || text == "" {
		return models.RatingState{}, models.ErrInvalidReview
	}

	review := models.Review{
		UserID:     userID,
		ProductID:  productID,
		Rating:     rating,
		Experience: text,
		CreatedAt:  a.now().UTC(),
	}
	if err := a.reviews.InsertReview(ctx, review); err != nil {
		return models.RatingState{}, err
	}

	// Fetched up front so the catalog call stays outside the optimistic transaction.
	baseline := a.baselineFor(ctx, productID)
	next, err := a.ratings.UpdateRating(ctx, productID, func(cur models.RatingState, found bool) (models.RatingState, bool, error) {
		if !found {
			cur = baseline
		}
		return FoldIn(cur, rating), true, nil
	})
	if err != nil {
		// Undo the review so the user can submit again.
		if _, delErr := a.reviews.DeleteReview(ctx, userID, productID); delErr != nil {
			log.Printf("❌ Review rollback failed for %s/%d: %v", userID, productID, delErr)
		}
		return models.RatingState{}, fmt.Errorf("update rating: %w", err)
	}

	log.Printf("⭐ Review %d/5 on product %d by %s (now %.2f over %d)", rating, productID, userID, next.Rate, next.Count)
	return next, nil
}

// RetractReview removes the user's review and reverses its contribution.
func (a *Aggregator) RetractReview(ctx context.Context, userID string, productID int64) (models.RatingState, error) {
	if userID == "" {
		return models.RatingState{}, models.ErrAuthRequired
	}

	review, err := a.reviews.DeleteReview(ctx, userID, productID)
	if err != nil {
		return models.RatingState{}, err
	}

	baseline := a.baselineFor(ctx, productID)
	next, err := a.ratings.UpdateRating(ctx, productID, func(cur models.RatingState, found bool) (models.RatingState, bool, error) {
		// The review was never folded into a stored aggregate; leave the baseline alone.
		if !found {
			return baseline, false, nil
		}
		out := FoldOut(cur, review.Rating)
		return out, out.Count > 0, nil
	})
	if err != nil {
		if insErr := a.reviews.InsertReview(ctx, review); insErr != nil {
			log.Printf("❌ Review restore failed for %s/%d: %v", userID, productID, insErr)
		}
		return models.RatingState{}, fmt.Errorf("update rating: %w", err)
	}

	log.Printf("🗑️ Review on product %d retracted by %s", productID, userID)
	if next.Count == 0 {
		return a.baselineFor(ctx, productID), nil
	}
	return next, nil
}

package store

import (
	"context"

	"verideal_back_end/internal/models"
)

// CartStore is the remote table of cart lines keyed by (user, product).
type CartStore interface {
	ListCart(ctx context.Context, userID string) ([]models.CartLine, error)
	// IncrementLine adds line.Quantity to the stored quantity atomically,
	// creating the row when absent, and returns the row as written.
	IncrementLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error)
	// UpsertLine writes the line with its quantity as-is.
	UpsertLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error)
	DeleteLine(ctx context.Context, userID string, productID int64) error
	ClearCart(ctx context.Context, userID string) error
}

// WishlistStore returns entries newest first.
type WishlistStore interface {
	ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	// InsertEntry fails with models.ErrDuplicateEntry when the product is already present.
	InsertEntry(ctx context.Context, entry models.WishlistEntry) (models.WishlistEntry, error)
	DeleteEntry(ctx context.Context, userID string, productID int64) error
}

type ReviewStore interface {
	// GetReview fails with models.ErrReviewNotFound.
	GetReview(ctx context.Context, userID string, productID int64) (models.Review, error)
	// InsertReview fails with models.ErrAlreadyReviewed.
	InsertReview(ctx context.Context, review models.Review) error
	// DeleteReview returns the removed review, or models.ErrReviewNotFound.
	DeleteReview(ctx context.Context, userID string, productID int64) (models.Review, error)
}

// RatingMutation derives the next aggregate from the current one. found is
// false when no aggregate is stored. Returning keep=false deletes the aggregate.
type RatingMutation func(current models.RatingState, found bool) (next models.RatingState, keep bool, err error)

type RatingStore interface {
	GetRating(ctx context.Context, productID int64) (models.RatingState, bool, error)
	// UpdateRating applies fn under optimistic concurrency control.
	UpdateRating(ctx context.Context, productID int64, fn RatingMutation) (models.RatingState, error)
}

type OrderStore interface {
	SaveOrder(ctx context.Context, order models.Order) error
	// LastOrder fails with models.ErrNotFound once the record has expired.
	LastOrder(ctx context.Context, userID string) (models.Order, error)
}

type UserStore interface {
	// CreateUser fails with models.ErrDuplicateEntry when the email is taken.
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID string) (models.User, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
}

var (
	_ CartStore     = (*ScyllaCartStore)(nil)
	_ CartStore     = (*PostgresCartStore)(nil)
	_ WishlistStore = (*ScyllaWishlistStore)(nil)
	_ WishlistStore = (*PostgresWishlistStore)(nil)
	_ ReviewStore   = (*ScyllaReviewStore)(nil)
	_ RatingStore   = (*RedisRatingStore)(nil)
	_ OrderStore    = (*RedisOrderStore)(nil)
	_ UserStore     = (*ScyllaUserStore)(nil)
	_ ProfileStore  = (*ScyllaUserStore)(nil)
)

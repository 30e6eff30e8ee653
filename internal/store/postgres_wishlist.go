package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verideal_back_end/internal/models"
)

type PostgresWishlistStore struct {
	db *sql.DB
}

func NewPostgresWishlistStore(db *sql.DB) *PostgresWishlistStore {
	return &PostgresWishlistStore{db: db}
}

func (s *PostgresWishlistStore) ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, product_id, name, price, image, category, description, created_at
		FROM wishlist WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WishlistEntry{}
	for rows.Next() {
		var e models.WishlistEntry
		if err := rows.Scan(&e.UserID, &e.ProductID, &e.Name, &e.Price, &e.Image,
			&e.Category, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// InsertEntry relies on ON CONFLICT DO NOTHING: no returned row means duplicate.
func (s *PostgresWishlistStore) InsertEntry(ctx context.Context, entry models.WishlistEntry) (models.WishlistEntry, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wishlist (user_id, product_id, name, price, image, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING created_at`,
		entry.UserID, entry.ProductID, entry.Name, entry.Price, entry.Image, entry.Category, entry.Description).
		Scan(&entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WishlistEntry{}, models.ErrDuplicateEntry
	}
	if err != nil {
		return models.WishlistEntry{}, fmt.Errorf("insert wishlist entry: %w", mapPQError(err))
	}
	return entry, nil
}

func (s *PostgresWishlistStore) DeleteEntry(ctx context.Context, userID string, productID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return err
}

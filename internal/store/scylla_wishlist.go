package store

import (
	"context"
	"fmt"
	"sort"

	"verideal_back_end/internal/models"
)

type ScyllaWishlistStore struct {
	db SessionProvider
}

func NewScyllaWishlistStore(db SessionProvider) *ScyllaWishlistStore {
	return &ScyllaWishlistStore{db: db}
}

func (s *ScyllaWishlistStore) ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, price, image, category, description, created_at
		FROM wishlist_items WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	entries := []models.WishlistEntry{}
	var (
		entry models.WishlistEntry
		price float64
	)
	for iter.Scan(&entry.ProductID, &entry.Name, &price, &entry.Image,
		&entry.Category, &entry.Description, &entry.CreatedAt) {
		entry.UserID = userID
		entry.Price = priceFromDouble(price)
		entries = append(entries, entry)
		entry = models.WishlistEntry{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	// Clustering is by product id; callers expect newest first.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (s *ScyllaWishlistStore) InsertEntry(ctx context.Context, entry models.WishlistEntry) (models.WishlistEntry, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.WishlistEntry{}, err
	}

	entry.CreatedAt = nowUTC()
	applied, err := session.Query(`INSERT INTO wishlist_items
		(user_id, product_id, name, price, image, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		entry.UserID, entry.ProductID, entry.Name, priceToDouble(entry.Price),
		entry.Image, entry.Category, entry.Description, entry.CreatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return models.WishlistEntry{}, fmt.Errorf("insert wishlist entry: %w", err)
	}
	if !applied {
		return models.WishlistEntry{}, models.ErrDuplicateEntry
	}
	return entry, nil
}

func (s *ScyllaWishlistStore) DeleteEntry(ctx context.Context, userID string, productID int64) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}
	// Conditional like the insert; a missing row is already deleted.
	_, err = session.Query(`DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ? IF EXISTS`, userID, productID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
	return err
}

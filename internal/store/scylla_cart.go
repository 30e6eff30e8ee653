package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verideal_back_end/internal/models"

	"github.com/gocql/gocql"
)

// Every write to cart_items is a lightweight transaction. Scylla gives no
// compare-and-set guarantee on rows that also receive plain writes.
type ScyllaCartStore struct {
	db SessionProvider
}

func NewScyllaCartStore(db SessionProvider) *ScyllaCartStore {
	return &ScyllaCartStore{db: db}
}

const cartColumns = `product_id, name, price, quantity, image, category, description, created_at, updated_at`

// cartRows is the conditional-write surface the retry loops run against.
type cartRows interface {
	getLine(ctx context.Context, userID string, productID int64) (models.CartLine, error)
	insertIfAbsent(ctx context.Context, userID string, line models.CartLine) (bool, error)
	// updateIfQuantity writes line when the stored quantity is still expected.
	updateIfQuantity(ctx context.Context, userID string, line models.CartLine, expected int) (bool, error)
	overwriteIfExists(ctx context.Context, userID string, line models.CartLine) (bool, error)
	deleteIfExists(ctx context.Context, userID string, productID int64) error
}

type scyllaCartRows struct {
	session *gocql.Session
}

func (s *ScyllaCartStore) rows() (*scyllaCartRows, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}
	return &scyllaCartRows{session: session}, nil
}

func (s *ScyllaCartStore) ListCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	session, err := s.db.Session()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT `+cartColumns+` FROM cart_items WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	lines := []models.CartLine{}
	var (
		line  models.CartLine
		price float64
	)
	for iter.Scan(&line.ProductID, &line.Name, &price, &line.Quantity, &line.Image,
		&line.Category, &line.Description, &line.CreatedAt, &line.UpdatedAt) {
		line.Price = priceFromDouble(price)
		lines = append(lines, line)
		line = models.CartLine{}
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

func (r *scyllaCartRows) getLine(ctx context.Context, userID string, productID int64) (models.CartLine, error) {
	var (
		line  models.CartLine
		price float64
	)
	err := r.session.Query(`SELECT `+cartColumns+` FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).WithContext(ctx).
		Scan(&line.ProductID, &line.Name, &price, &line.Quantity, &line.Image,
			&line.Category, &line.Description, &line.CreatedAt, &line.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.CartLine{}, models.ErrNotFound
	}
	if err != nil {
		return models.CartLine{}, err
	}
	line.Price = priceFromDouble(price)
	return line, nil
}

func (r *scyllaCartRows) insertIfAbsent(ctx context.Context, userID string, line models.CartLine) (bool, error) {
	return r.session.Query(`INSERT INTO cart_items (user_id, `+cartColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) IF NOT EXISTS`,
		userID, line.ProductID, line.Name, priceToDouble(line.Price), line.Quantity,
		line.Image, line.Category, line.Description, line.CreatedAt, line.UpdatedAt).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
}

func (r *scyllaCartRows) updateIfQuantity(ctx context.Context, userID string, line models.CartLine, expected int) (bool, error) {
	return r.session.Query(`UPDATE cart_items
		SET quantity = ?, name = ?, price = ?, image = ?, updated_at = ?
		WHERE user_id = ? AND product_id = ? IF quantity = ?`,
		line.Quantity, line.Name, priceToDouble(line.Price), line.Image, line.UpdatedAt,
		userID, line.ProductID, expected).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
}

func (r *scyllaCartRows) overwriteIfExists(ctx context.Context, userID string, line models.CartLine) (bool, error) {
	return r.session.Query(`UPDATE cart_items
		SET quantity = ?, name = ?, price = ?, image = ?, category = ?, description = ?, updated_at = ?
		WHERE user_id = ? AND product_id = ? IF EXISTS`,
		line.Quantity, line.Name, priceToDouble(line.Price), line.Image, line.Category,
		line.Description, line.UpdatedAt, userID, line.ProductID).
		WithContext(ctx).MapScanCAS(map[string]interface{}{})
}

// deleteIfExists treats an already missing row as deleted.
func (r *scyllaCartRows) deleteIfExists(ctx context.Context, userID string, productID int64) error {
	_, err := r.session.Query(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ? IF EXISTS`,
		userID, productID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	return err
}

// IncrementLine runs a lightweight-transaction loop: insert if absent,
// otherwise update only if the quantity is still the one just read.
func (s *ScyllaCartStore) IncrementLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	rows, err := s.rows()
	if err != nil {
		return models.CartLine{}, err
	}
	return incrementLine(ctx, rows, userID, line, nowUTC)
}

func incrementLine(ctx context.Context, rows cartRows, userID string, line models.CartLine, now func() time.Time) (models.CartLine, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		ts := now()
		current, err := rows.getLine(ctx, userID, line.ProductID)

		switch {
		case errors.Is(err, models.ErrNotFound):
			fresh := line
			fresh.CreatedAt, fresh.UpdatedAt = ts, ts
			applied, err := rows.insertIfAbsent(ctx, userID, fresh)
			if err != nil {
				return models.CartLine{}, fmt.Errorf("insert cart line: %w", err)
			}
			if applied {
				return fresh, nil
			}

		case err != nil:
			return models.CartLine{}, fmt.Errorf("read cart line: %w", err)

		default:
			next := current
			next.Quantity = current.Quantity + line.Quantity
			next.Name, next.Price, next.Image = line.Name, line.Price, line.Image
			next.UpdatedAt = ts
			applied, err := rows.updateIfQuantity(ctx, userID, next, current.Quantity)
			if err != nil {
				return models.CartLine{}, fmt.Errorf("update cart line: %w", err)
			}
			if applied {
				return next, nil
			}
		}
	}
	return models.CartLine{}, models.ErrWriteConflict
}

func (s *ScyllaCartStore) UpsertLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	rows, err := s.rows()
	if err != nil {
		return models.CartLine{}, err
	}
	return upsertLine(ctx, rows, userID, line, nowUTC)
}

// upsertLine updates the row if present, else inserts it, retrying when a
// concurrent writer creates or removes the row in between.
func upsertLine(ctx context.Context, rows cartRows, userID string, line models.CartLine, now func() time.Time) (models.CartLine, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		ts := now()
		if line.CreatedAt.IsZero() {
			line.CreatedAt = ts
		}
		line.UpdatedAt = ts

		applied, err := rows.overwriteIfExists(ctx, userID, line)
		if err != nil {
			return models.CartLine{}, fmt.Errorf("upsert cart line: %w", err)
		}
		if applied {
			return line, nil
		}
		applied, err = rows.insertIfAbsent(ctx, userID, line)
		if err != nil {
			return models.CartLine{}, fmt.Errorf("upsert cart line: %w", err)
		}
		if applied {
			return line, nil
		}
	}
	return models.CartLine{}, models.ErrWriteConflict
}

func (s *ScyllaCartStore) DeleteLine(ctx context.Context, userID string, productID int64) error {
	rows, err := s.rows()
	if err != nil {
		return err
	}
	if err := rows.deleteIfExists(ctx, userID, productID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

// ClearCart deletes row by row; conditional deletes need the full primary key.
func (s *ScyllaCartStore) ClearCart(ctx context.Context, userID string) error {
	lines, err := s.ListCart(ctx, userID)
	if err != nil {
		return err
	}
	rows, err := s.rows()
	if err != nil {
		return err
	}
	return clearLines(ctx, rows, userID, lines)
}

func clearLines(ctx context.Context, rows cartRows, userID string, lines []models.CartLine) error {
	for _, line := range lines {
		if err := rows.deleteIfExists(ctx, userID, line.ProductID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
	}
	return nil
}

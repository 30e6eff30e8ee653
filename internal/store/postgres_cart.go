package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verideal_back_end/internal/models"

	"github.com/lib/pq"
)

// PostgresCartStore merges quantities server-side with ON CONFLICT DO UPDATE.
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

const pgCartReturning = `RETURNING product_id, name, price, quantity, image, category, description, created_at, updated_at`

func scanCartLine(row interface{ Scan(...interface{}) error }) (models.CartLine, error) {
	var line models.CartLine
	err := row.Scan(&line.ProductID, &line.Name, &line.Price, &line.Quantity, &line.Image,
		&line.Category, &line.Description, &line.CreatedAt, &line.UpdatedAt)
	return line, err
}

// mapPQError turns constraint violations into domain errors.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return models.ErrDuplicateEntry
		case "23514":
			return models.ErrInvalidInput
		}
	}
	return err
}

func (s *PostgresCartStore) ListCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, name, price, quantity, image, category, description, created_at, updated_at
		FROM cart WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *PostgresCartStore) IncrementLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO cart (user_id, product_id, name, price, quantity, image, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = cart.quantity + EXCLUDED.quantity,
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			updated_at = now()
		`+pgCartReturning,
		userID, line.ProductID, line.Name, line.Price, line.Quantity, line.Image, line.Category, line.Description)

	saved, err := scanCartLine(row)
	if err != nil {
		return models.CartLine{}, fmt.Errorf("increment cart line: %w", mapPQError(err))
	}
	return saved, nil
}

func (s *PostgresCartStore) UpsertLine(ctx context.Context, userID string, line models.CartLine) (models.CartLine, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO cart (user_id, product_id, name, price, quantity, image, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, product_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			updated_at = now()
		`+pgCartReturning,
		userID, line.ProductID, line.Name, line.Price, line.Quantity, line.Image, line.Category, line.Description)

	saved, err := scanCartLine(row)
	if err != nil {
		return models.CartLine{}, fmt.Errorf("upsert cart line: %w", mapPQError(err))
	}
	return saved, nil
}

func (s *PostgresCartStore) DeleteLine(ctx context.Context, userID string, productID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1 AND product_id = $2`, userID, productID)
	return err
}

func (s *PostgresCartStore) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}

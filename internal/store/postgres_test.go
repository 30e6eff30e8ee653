package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"verideal_back_end/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var cartCols = []string{"product_id", "name", "price", "quantity", "image", "category", "description", "created_at", "updated_at"}

func TestPostgresCartStore_IncrementLineMergesServerSide(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresCartStore(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("quantity = cart.quantity + EXCLUDED.quantity")).
		WillReturnRows(sqlmock.NewRows(cartCols).AddRow(5, "Shirt", "10.00", 3, "img", "clothing", "", now, now))

	line, err := s.IncrementLine(context.Background(), "u1", models.CartLine{
		ProductID: 5, Name: "Shirt", Price: decimal.RequireFromString("10"), Quantity: 1, Image: "img", Category: "clothing",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, line.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCartStore_CheckViolationIsInvalidInput(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresCartStore(db)

	mock.ExpectQuery("INSERT INTO cart").WillReturnError(&pq.Error{Code: "23514"})

	_, err := s.UpsertLine(context.Background(), "u1", models.CartLine{ProductID: 5, Quantity: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestPostgresCartStore_ListCart(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresCartStore(db)
	now := time.Now()

	mock.ExpectQuery("SELECT product_id").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cartCols).
			AddRow(1, "A", "1.50", 2, "", "", "", now, now).
			AddRow(2, "B", "3.00", 1, "", "", "", now, now))

	lines, err := s.ListCart(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "1.5", lines[0].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWishlistStore_DuplicateInsert(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresWishlistStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, product_id) DO NOTHING")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

	_, err := s.InsertEntry(context.Background(), models.WishlistEntry{UserID: "u1", ProductID: 9})
	assert.ErrorIs(t, err, models.ErrDuplicateEntry)
}

func TestPostgresWishlistStore_Insert(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresWishlistStore(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO wishlist").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	entry, err := s.InsertEntry(context.Background(), models.WishlistEntry{UserID: "u1", ProductID: 9, Name: "Lamp"})
	require.NoError(t, err)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, "Lamp", entry.Name)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WishlistEntry struct {
	UserID      string          `json:"user_id" db:"user_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	Name        string          `json:"name" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"product_price"`
	Image       string          `json:"image" db:"product_image"`
	Category    string          `json:"category,omitempty" db:"product_category"`
	Description string          `json:"description,omitempty" db:"product_description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type Wishlist struct {
	UserID string          `json:"user_id"`
	Items  []WishlistEntry `json:"items"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product row of a user's cart, unique per (user, product).
type CartLine struct {
	ProductID   int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LineTotal returns price × quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewerThan reports whether l was written after other. UpdatedAt is the row version.
func (l CartLine) NewerThan(other CartLine) bool {
	return l.UpdatedAt.After(other.UpdatedAt)
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartLine `json:"items"`
}

// Subtotal is zero for an empty cart.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount sums quantities, not lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

package models

import "github.com/shopspring/decimal"

// Product is the normalised shape of a catalog product.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category,omitempty"`
	SubCategory string          `json:"subCategory,omitempty"`
	Rating      RatingState     `json:"rating"`
}

// CartLine builds the cart row for quantity items of p.
func (p Product) CartLine(quantity int) CartLine {
	return CartLine{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    quantity,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
	}
}

// WishlistEntry builds the wishlist row for p.
func (p Product) WishlistEntry() WishlistEntry {
	return WishlistEntry{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Description: p.Description,
	}
}

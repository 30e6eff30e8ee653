package models

import (
	"math"
	"time"
)

// Review is the single review a user may leave on a product.
type Review struct {
	UserID     string    `json:"user_id" db:"user_id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	Rating     int       `json:"rating" db:"rating"` // 1-5
	Experience string    `json:"experience" db:"experience"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RatingState is the running average of a product's reviews.
type RatingState struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Stars rounds the rate to the nearest whole star for display.
func (r RatingState) Stars() int {
	if r.Count == 0 {
		return 0
	}
	return int(math.Round(r.Rate))
}

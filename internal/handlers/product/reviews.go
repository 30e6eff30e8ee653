package product

import (
	"context"
	"errors"
	"net/http"

	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Reviews is the rating aggregator as seen by HTTP.
type Reviews interface {
	CurrentState(ctx context.Context, productID int64) (models.RatingState, error)
	UserReview(ctx context.Context, userID string, productID int64) (models.Review, error)
	SubmitReview(ctx context.Context, userID string, productID int64, rating int, text string) (models.RatingState, error)
	RetractReview(ctx context.Context, userID string, productID int64) (models.RatingState, error)
}

type ReviewHandler struct {
	reviews Reviews
}

func NewReviewHandler(reviews Reviews) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// GET /api/products/:id/rating
func (h *ReviewHandler) GetRating(c *gin.Context) {
	id, ok := handlers.ProductID(c, "id")
	if !ok {
		return
	}
	state, err := h.reviews.CurrentState(c.Request.Context(), id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "rating": state, "stars": state.Stars()})
}

// GET /api/products/:id/review
func (h *ReviewHandler) GetReview(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	id, ok := handlers.ProductID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviews.UserReview(c.Request.Context(), userID, id)
	if errors.Is(err, models.ErrReviewNotFound) {
		c.JSON(http.StatusOK, gin.H{"reviewed": false})
		return
	}
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewed": true, "review": review})
}

// POST /api/products/:id/review
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	id, ok := handlers.ProductID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Rating     int    `json:"rating"`
		Experience string `json:"experience"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": err.Error()})
		return
	}

	state, err := h.reviews.SubmitReview(c.Request.Context(), userID, id, req.Rating, req.Experience)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review submitted", "rating": state})
}

// DELETE /api/products/:id/review
func (h *ReviewHandler) RetractReview(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	id, ok := handlers.ProductID(c, "id")
	if !ok {
		return
	}

	state, err := h.reviews.RetractReview(c.Request.Context(), userID, id)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review removed", "rating": state})
}

// Package handlers holds the helpers shared by the HTTP handler packages.
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"verideal_back_end/internal/auth"
	"verideal_back_end/internal/checkout"
	"verideal_back_end/internal/middleware"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/wishlist"

	"github.com/gin-gonic/gin"
)

// Error translates a service error into a JSON response.
func Error(c *gin.Context, err error) {
	var tooMany *auth.ErrTooManyAttempts
	switch {
	case errors.Is(err, models.ErrAuthRequired), errors.Is(err, models.ErrTokenRevoked):
		middleware.Unauthorized(c, "Please sign in to continue")
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &tooMany):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       tooMany.Error(),
			"retry_after": int(tooMany.RetryAfter.Seconds()),
		})
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyReviewed),
		errors.Is(err, models.ErrSigningOut),
		errors.Is(err, models.ErrWriteConflict),
		errors.Is(err, checkout.ErrInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidReview):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// DuplicateWishlist is the 409 body for a product already saved.
func DuplicateWishlist(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{"error": wishlist.DuplicateMessage})
}

// ProductID parses the named path parameter. It writes a 400 and returns
// false when the value is not a positive integer.
func ProductID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return 0, false
	}
	return id, true
}

// UserID returns the signed-in user set by middleware.AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		middleware.Unauthorized(c, "Please sign in to continue")
		return "", false
	}
	return userID, true
}

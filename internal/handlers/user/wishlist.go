package user

import (
	"context"
	"errors"
	"log"
	"net/http"

	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/wishlist"

	"github.com/gin-gonic/gin"
)

type WishlistRegistry interface {
	Get(ctx context.Context, userID string) (*wishlist.Synchronizer, error)
}

type WishlistHandler struct {
	lists    WishlistRegistry
	products ProductSource
}

func NewWishlistHandler(lists WishlistRegistry, products ProductSource) *WishlistHandler {
	return &WishlistHandler{lists: lists, products: products}
}

func (h *WishlistHandler) synchronizer(c *gin.Context) (*wishlist.Synchronizer, bool) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return nil, false
	}
	s, err := h.lists.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("⚠️ Wishlist load for %s: %v", userID, err)
	}
	return s, true
}

// GET /api/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	if c.Query("refresh") == "true" {
		if err := s.Refresh(c.Request.Context()); err != nil {
			handlers.Error(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// POST /api/wishlist/:productId
func (h *WishlistHandler) AddEntry(c *gin.Context) {
	productID, ok := handlers.ProductID(c, "productId")
	if !ok {
		return
	}
	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	entry, err := s.AddEntry(c.Request.Context(), product.WishlistEntry())
	if errors.Is(err, models.ErrDuplicateEntry) {
		handlers.DuplicateWishlist(c)
		return
	}
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "wishlist": s.Snapshot()})
}

// DELETE /api/wishlist/:productId
func (h *WishlistHandler) RemoveEntry(c *gin.Context) {
	productID, ok := handlers.ProductID(c, "productId")
	if !ok {
		return
	}
	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	if err := s.RemoveEntry(c.Request.Context(), productID); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

package user

import (
	"context"
	"log"
	"net/http"

	"verideal_back_end/internal/cart"
	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// CartRegistry hands out the signed-in user's cart synchronizer.
type CartRegistry interface {
	Get(ctx context.Context, userID string) (*cart.Synchronizer, error)
}

// ProductSource resolves a product id to the catalog row copied into the cart.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
}

type CartHandler struct {
	carts    CartRegistry
	products ProductSource
}

func NewCartHandler(carts CartRegistry, products ProductSource) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

func (h *CartHandler) synchronizer(c *gin.Context) (*cart.Synchronizer, bool) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return nil, false
	}
	s, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		// the synchronizer keeps the error in its SyncError slot
		log.Printf("⚠️ Cart load for %s: %v", userID, err)
	}
	return s, true
}

func cartResponse(userID string, st cart.State) gin.H {
	return gin.H{
		"items":         st.Items,
		"authenticated": st.Authenticated,
		"loading":       st.Loading,
		"sync_error":    st.SyncError,
		"totals":        models.ComputeTotals(st.Cart(userID)),
	}
}

//
// 🛒 GET /api/cart?refresh=true
//
func (h *CartHandler) GetCart(c *gin.Context) {
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
	c.JSON(http.StatusOK, cartResponse(s.UserID(), s.Snapshot()))
}

//
// 🟢 POST /api/cart/add
//
func (h *CartHandler) AddLine(c *gin.Context) {
	var input struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.ProductID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	product, err := h.products.GetProduct(c.Request.Context(), input.ProductID)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	line, err := s.AddLine(c.Request.Context(), product.CartLine(input.Quantity))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	resp := cartResponse(s.UserID(), s.Snapshot())
	resp["line"] = line
	c.JSON(http.StatusOK, resp)
}

//
// ✏️ PUT /api/cart/:productId
//
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := handlers.ProductID(c, "productId")
	if !ok {
		return
	}
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	if err := s.SetQuantity(c.Request.Context(), productID, input.Quantity); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.UserID(), s.Snapshot()))
}

//
// 🗑️ DELETE /api/cart/:productId
//
func (h *CartHandler) RemoveLine(c *gin.Context) {
	productID, ok := handlers.ProductID(c, "productId")
	if !ok {
		return
	}
	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	if err := s.RemoveLine(c.Request.Context(), productID); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.UserID(), s.Snapshot()))
}

//
// 🗑️ DELETE /api/cart
//
func (h *CartHandler) Clear(c *gin.Context) {
	s, ok := h.synchronizer(c)
	if !ok {
		return
	}
	if err := s.Clear(c.Request.Context()); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.UserID(), s.Snapshot()))
}

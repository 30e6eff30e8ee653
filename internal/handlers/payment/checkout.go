package payment

import (
	"context"
	"errors"
	"log"
	"net/http"

	"verideal_back_end/internal/cart"
	"verideal_back_end/internal/checkout"
	"verideal_back_end/internal/handlers"
	"verideal_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

type CartRegistry interface {
	Get(ctx context.Context, userID string) (*cart.Synchronizer, error)
}

// Checkout is the order assembler as seen by HTTP.
type Checkout interface {
	Summary(c checkout.Cart) models.OrderTotals
	Submit(ctx context.Context, userID string, c checkout.Cart, form checkout.Form, method models.PaymentMethod) (checkout.Result, error)
	Status(userID string) checkout.Status
	Session(ctx context.Context, id string) (models.PaymentSession, error)
	LastOrder(ctx context.Context, userID string) (models.Order, error)
}

type CheckoutHandler struct {
	checkout Checkout
	carts    CartRegistry
}

func NewCheckoutHandler(co Checkout, carts CartRegistry) *CheckoutHandler {
	return &CheckoutHandler{checkout: co, carts: carts}
}

func (h *CheckoutHandler) cart(c *gin.Context) (string, *cart.Synchronizer, bool) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return "", nil, false
	}
	s, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		log.Printf("⚠️ Cart load for %s: %v", userID, err)
	}
	return userID, s, true
}

//
// 🧾 GET /api/checkout/summary
//
func (h *CheckoutHandler) Summary(c *gin.Context) {
	userID, s, ok := h.cart(c)
	if !ok {
		return
	}
	st := s.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"items":      st.Items,
		"totals":     h.checkout.Summary(s),
		"status":     h.checkout.Status(userID),
		"empty":      len(st.Items) == 0,
		"sync_error": st.SyncError,
	})
}

type submitRequest struct {
	checkout.Form
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

//
// 💳 POST /api/checkout
//
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if !req.PaymentMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported payment method"})
		return
	}

	userID, s, ok := h.cart(c)
	if !ok {
		return
	}

	res, err := h.checkout.Submit(c.Request.Context(), userID, s, req.Form, req.PaymentMethod)
	switch {
	case err == nil && res.Status == checkout.StatusRedirected:
		c.JSON(http.StatusOK, gin.H{"status": res.Status, "session_id": res.Session.ID, "url": res.Session.URL})
	case err == nil:
		c.JSON(http.StatusCreated, res)
	case len(res.Errors) > 0:
		c.JSON(http.StatusUnprocessableEntity, res)
	case errors.Is(err, models.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"status": res.Status, "error": "Your cart is empty"})
	case res.Status == checkout.StatusFailed:
		c.JSON(http.StatusBadGateway, gin.H{"status": res.Status, "error": res.Message})
	default:
		handlers.Error(c, err)
	}
}

//
// 🔍 GET /api/checkout/session/:id
//
func (h *CheckoutHandler) Session(c *gin.Context) {
	session, err := h.checkout.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

//
// 📦 GET /api/orders/last
//
func (h *CheckoutHandler) LastOrder(c *gin.Context) {
	userID, ok := handlers.UserID(c)
	if !ok {
		return
	}
	order, err := h.checkout.LastOrder(c.Request.Context(), userID)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

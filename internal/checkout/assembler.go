// Package checkout validates the checkout form and turns a cart into either
// a hosted payment session or a confirmed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"verideal_back_end/internal/cart"
	"verideal_back_end/internal/models"
	"verideal_back_end/internal/store"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusProcessing Status = "processing"
	StatusRedirected Status = "redirected"
	StatusConfirmed  Status = "confirmed"
	StatusFailed     Status = "failed"
)

var ErrInProgress = errors.New("an order is already being processed")

// PaymentProvider creates and looks up hosted payment sessions.
type PaymentProvider interface {
	CreateSession(ctx context.Context, items []models.CartLine, customer models.CustomerInfo) (models.PaymentSession, error)
	GetSession(ctx context.Context, id string) (models.PaymentSession, error)
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order models.Order) error
}

// Cart is the signed-in user's cart synchronizer.
type Cart interface {
	Snapshot() cart.State
	Clear(ctx context.Context) error
}

// Result is where a submission ended up.
type Result struct {
	Status  Status                 `json:"status"`
	Errors  FieldErrors            `json:"errors,omitempty"`
	Order   *models.Order          `json:"order,omitempty"`
	Session *models.PaymentSession `json:"session,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type Assembler struct {
	payments PaymentProvider
	mailer   Mailer
	orders   store.OrderStore
	now      func() time.Time

	mu     sync.Mutex
	status map[string]Status
}

func NewAssembler(payments PaymentProvider, mailer Mailer, orders store.OrderStore) *Assembler {
	return &Assembler{
		payments: payments,
		mailer:   mailer,
		orders:   orders,
		now:      time.Now,
		status:   make(map[string]Status),
	}
}

// Status reports the user's current checkout state.
func (a *Assembler) Status(userID string) Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.status[userID]; ok {
		return s
	}
	return StatusIdle
}

// transition moves userID to next. Entering validating or processing is
// refused while another submission is processing.
func (a *Assembler) transition(userID string, next Status) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if (next == StatusValidating || next == StatusProcessing) && a.status[userID] == StatusProcessing {
		return ErrInProgress
	}
	a.status[userID] = next
	return nil
}

// Summary computes the totals shown next to the form.
func (a *Assembler) Summary(c Cart) models.OrderTotals {
	return models.ComputeTotals(c.Snapshot().Cart(""))
}

// Submit runs one checkout attempt. A failed attempt may be submitted again.
func (a *Assembler) Submit(ctx context.Context, userID string, c Cart, form Form, method models.PaymentMethod) (Result, error) {
	if err := a.transition(userID, StatusValidating); err != nil {
		return Result{Status: StatusProcessing}, err
	}

	snapshot := c.Snapshot()
	if !snapshot.Authenticated {
		a.transition(userID, StatusIdle)
		return Result{Status: StatusIdle}, models.ErrAuthRequired
	}
	if len(snapshot.Items) == 0 {
		a.transition(userID, StatusIdle)
		return Result{Status: StatusIdle}, models.ErrEmptyCart
	}

	if errs := Validate(form, method, a.now()); len(errs) > 0 {
		return Result{Status: StatusValidating, Errors: errs}, models.ErrInvalidInput
	}

	if err := a.transition(userID, StatusProcessing); err != nil {
		return Result{Status: StatusProcessing}, err
	}

	if method.Hosted() {
		return a.redirect(ctx, userID, snapshot.Items, form.CustomerInfo)
	}
	return a.confirm(ctx, userID, c, snapshot.Items, form.CustomerInfo, method)
}

func (a *Assembler) fail(userID string, err error) (Result, error) {
	a.transition(userID, StatusFailed)
	log.Printf("❌ Checkout failed for %s: %v", userID, err)
	return Result{Status: StatusFailed, Message: GenericFailureText}, err
}

func (a *Assembler) redirect(ctx context.Context, userID string, items []models.CartLine, customer models.CustomerInfo) (Result, error) {
	if a.payments == nil {
		return a.fail(userID, models.ErrNotConfigured)
	}
	session, err := a.payments.CreateSession(ctx, items, customer)
	if err != nil {
		return a.fail(userID, fmt.Errorf("create payment session: %w", err))
	}
	a.transition(userID, StatusRedirected)
	log.Printf("💳 Payment session %s created for %s", session.ID, userID)
	return Result{Status: StatusRedirected, Session: &session}, nil
}

func (a *Assembler) confirm(ctx context.Context, userID string, c Cart, items []models.CartLine,
	customer models.CustomerInfo, method models.PaymentMethod) (Result, error) {

	now := a.now().UTC()
	totals := models.ComputeTotals(models.Cart{Items: items})
	order := models.Order{
		ID:            fmt.Sprintf("ORDER-%d", now.UnixMilli()),
		UserID:        userID,
		Items:         items,
		CustomerInfo:  customer,
		PaymentMethod: method,
		Subtotal:      totals.Subtotal,
		ShippingFee:   totals.ShippingFee,
		Tax:           totals.Tax,
		Total:         totals.Total,
		OrderDate:     now,
		Status:        models.OrderStatusConfirmed,
	}

	if err := a.orders.SaveOrder(ctx, order); err != nil {
		return a.fail(userID, fmt.Errorf("save order: %w", err))
	}

	if a.mailer != nil {
		if err := a.mailer.SendOrderConfirmation(ctx, order); err != nil {
			log.Printf("⚠️ Confirmation email for %s failed: %v", order.ID, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		log.Printf("⚠️ Cart not cleared after %s: %v", order.ID, err)
	}

	a.transition(userID, StatusConfirmed)
	log.Printf("✅ Order %s confirmed for %s (%s)", order.ID, userID, order.Total.StringFixed(2))
	return Result{Status: StatusConfirmed, Order: &order}, nil
}

func (a *Assembler) LastOrder(ctx context.Context, userID string) (models.Order, error) {
	return a.orders.LastOrder(ctx, userID)
}

// Session looks up a hosted payment session for the results page.
func (a *Assembler) Session(ctx context.Context, id string) (models.PaymentSession, error) {
	if a.payments == nil {
		return models.PaymentSession{}, models.ErrNotConfigured
	}
	if id == "" {
		return models.PaymentSession{}, models.ErrInvalidInput
	}
	return a.payments.GetSession(ctx, id)
}

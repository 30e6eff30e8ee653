package services

import (
	"context"
	"errors"
	"testing"

	"verideal_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
)

func newTestStripe() *StripeService {
	return &StripeService{
		currency:   "usd",
		successURL: "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  "http://localhost:3000/checkout",
	}
}

func TestStripeService_CreateSession(t *testing.T) {
	svc := newTestStripe()
	var got *stripe.CheckoutSessionParams
	svc.create = func(p *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		got = p
		return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/cs_test_1"}, nil
	}

	items := []models.CartLine{
		{ProductID: 1, Name: "Backpack", Price: decimal.RequireFromString("109.95"), Quantity: 2, Image: "https://img/1.jpg"},
		{ProductID: 2, Name: "T-shirt", Price: decimal.RequireFromString("22.3"), Quantity: 1},
	}
	session, err := svc.CreateSession(context.Background(), items, models.CustomerInfo{Email: "a@b.co", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", session.URL)

	require.NotNil(t, got)
	assert.Equal(t, "payment", *got.Mode)
	assert.Equal(t, "a@b.co", *got.CustomerEmail)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, int64(10995), *got.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(2), *got.LineItems[0].Quantity)
	assert.Len(t, got.LineItems[0].PriceData.ProductData.Images, 1)
	assert.Equal(t, int64(2230), *got.LineItems[1].PriceData.UnitAmount)
	assert.Empty(t, got.LineItems[1].PriceData.ProductData.Images)
}

func TestStripeService_CreateSession_EmptyCart(t *testing.T) {
	svc := newTestStripe()
	_, err := svc.CreateSession(context.Background(), nil, models.CustomerInfo{})
	assert.ErrorIs(t, err, models.ErrEmptyCart)
}

func TestStripeService_CreateSession_ProviderError(t *testing.T) {
	svc := newTestStripe()
	svc.create = func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		return nil, errors.New("card_declined")
	}
	_, err := svc.CreateSession(context.Background(), []models.CartLine{{Name: "x", Price: decimal.NewFromInt(1), Quantity: 1}}, models.CustomerInfo{})
	assert.ErrorContains(t, err, "card_declined")
}

func TestStripeService_GetSession(t *testing.T) {
	svc := newTestStripe()
	svc.get = func(id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		if id != "cs_test_1" {
			return nil, &stripe.Error{HTTPStatusCode: 404}
		}
		return &stripe.CheckoutSession{
			ID:              id,
			Status:          stripe.CheckoutSessionStatusComplete,
			PaymentStatus:   stripe.CheckoutSessionPaymentStatusPaid,
			AmountTotal:     3227,
			Currency:        "usd",
			CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "a@b.co"},
		}, nil
	}

	session, err := svc.GetSession(context.Background(), "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "complete", session.Status)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, int64(3227), session.AmountTotal)
	assert.Equal(t, "a@b.co", session.CustomerEmail)

	_, err = svc.GetSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

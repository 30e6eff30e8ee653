package services

import (
	"context"
	"fmt"
	"log"

	"verideal_back_end/internal/config"
	"verideal_back_end/internal/models"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
)

// StripeService opens hosted Checkout Sessions for a cart.
type StripeService struct {
	currency   string
	successURL string
	cancelURL  string

	create func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	get    func(string, *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeService returns nil when no secret key is configured.
func NewStripeService(cfg config.StripeConfig) *StripeService {
	if cfg.SecretKey == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY not set, hosted payments disabled")
		return nil
	}
	stripe.Key = cfg.SecretKey
	log.Println("✅ Stripe configured")
	return &StripeService{
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		create:     session.New,
		get:        session.Get,
	}
}

// toCents converts a decimal price to the smallest currency unit.
func toCents(line models.CartLine) int64 {
	return line.Price.Shift(2).Round(0).IntPart()
}

func (s *StripeService) lineItems(items []models.CartLine) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Image != "" {
			product.Images = []*string{stripe.String(item.Image)}
		}
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(s.currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(toCents(item)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return out
}

func (s *StripeService) CreateSession(ctx context.Context, items []models.CartLine, customer models.CustomerInfo) (models.PaymentSession, error) {
	if len(items) == 0 {
		return models.PaymentSession{}, models.ErrEmptyCart
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  s.lineItems(items),
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
	}
	if customer.Email != "" {
		params.CustomerEmail = stripe.String(customer.Email)
	}
	params.Context = ctx
	params.AddMetadata("customer_name", customer.FirstName+" "+customer.LastName)
	params.AddMetadata("pincode", customer.Pincode)

	cs, err := s.create(params)
	if err != nil {
		return models.PaymentSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return toPaymentSession(cs), nil
}

func (s *StripeService) GetSession(ctx context.Context, id string) (models.PaymentSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	cs, err := s.get(id, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.HTTPStatusCode == 404 {
			return models.PaymentSession{}, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
		}
		return models.PaymentSession{}, fmt.Errorf("stripe session %s: %w", id, err)
	}
	return toPaymentSession(cs), nil
}

func toPaymentSession(cs *stripe.CheckoutSession) models.PaymentSession {
	ps := models.PaymentSession{
		ID:            cs.ID,
		URL:           cs.URL,
		Status:        string(cs.Status),
		PaymentStatus: string(cs.PaymentStatus),
		CustomerEmail: cs.CustomerEmail,
		AmountTotal:   cs.AmountTotal,
		Currency:      string(cs.Currency),
	}
	if ps.CustomerEmail == "" && cs.CustomerDetails != nil {
		ps.CustomerEmail = cs.CustomerDetails.Email
	}
	return ps
}

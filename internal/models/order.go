package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentPayPal     PaymentMethod = "paypal"
	PaymentStripe     PaymentMethod = "stripe"
)

// Hosted reports whether the method hands off to a hosted payment session.
func (m PaymentMethod) Hosted() bool {
	return m == PaymentStripe
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentStripe:
		return true
	}
	return false
}

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
}

// Order is immutable once assembled; Status is fixed at creation.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []CartLine      `json:"items"`
	CustomerInfo  CustomerInfo    `json:"customerInfo"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	OrderDate     time.Time       `json:"orderDate"`
	Status        string          `json:"status"`
}

const OrderStatusConfirmed = "confirmed"

// PaymentSession is a hosted checkout session created with the payment provider.
type PaymentSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	AmountTotal   int64  `json:"amount_total,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"verideal_back_end/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	sent []Email
	from string
	err  error
}

func (r *recordingTransport) Send(_ context.Context, from string, e Email) error {
	if r.err != nil {
		return r.err
	}
	r.from = from
	r.sent = append(r.sent, e)
	return nil
}

func sampleOrder() models.Order {
	items := []models.CartLine{
		{ProductID: 1, Name: "Backpack <XL>", Price: decimal.RequireFromString("10.50"), Quantity: 2},
	}
	totals := models.ComputeTotals(models.Cart{Items: items})
	return models.Order{
		ID:    "ORDER-1710061200000",
		Items: items,
		CustomerInfo: models.CustomerInfo{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Address: "1 Main St", City: "Pune", State: "MH", Pincode: "411001",
		},
		Subtotal:    totals.Subtotal,
		ShippingFee: totals.ShippingFee,
		Tax:         totals.Tax,
		Total:       totals.Total,
	}
}

func TestMailer_SendOrderConfirmation(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailerWithTransport(tr, "VeriDeal <noreply@verideal.shop>", "", "http://localhost:3000", 5*time.Minute)

	require.NoError(t, m.SendOrderConfirmation(context.Background(), sampleOrder()))
	require.Len(t, tr.sent, 1)

	e := tr.sent[0]
	assert.Equal(t, "ada@example.com", e.To)
	assert.Equal(t, "Your Order Confirmation (#ORDER-1710061200000)", e.Subject)
	assert.Contains(t, e.HTML, "Thank you for your order, Ada!")
	assert.Contains(t, e.HTML, "$21.00")
	assert.Contains(t, e.HTML, "$28.67")
	assert.Contains(t, e.HTML, "Pune, MH 411001")
	assert.Contains(t, e.HTML, "Backpack &lt;XL&gt;")
	assert.Contains(t, e.HTML, "cid:order-qr")
	require.Len(t, e.Inline, 1)
	assert.Equal(t, orderQRCid, e.Inline[0].ContentID)
}

func TestMailer_SendOrderConfirmation_NoEmail(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailerWithTransport(tr, "noreply@verideal.shop", "", "", time.Minute)
	order := sampleOrder()
	order.CustomerInfo.Email = ""

	err := m.SendOrderConfirmation(context.Background(), order)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, tr.sent)
}

func TestMailer_SendOrderConfirmation_TransportError(t *testing.T) {
	tr := &recordingTransport{err: errors.New("connection refused")}
	m := NewMailerWithTransport(tr, "noreply@verideal.shop", "", "", time.Minute)
	assert.ErrorContains(t, m.SendOrderConfirmation(context.Background(), sampleOrder()), "connection refused")
}

func TestMailer_SendOTP(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailerWithTransport(tr, "noreply@verideal.shop", "", "", 5*time.Minute)

	require.NoError(t, m.SendOTP(context.Background(), "ada@example.com", "123456"))
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].HTML, "123456")
	assert.Contains(t, tr.sent[0].HTML, "5 minutes")
}

func TestMailer_SendContact(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailerWithTransport(tr, "noreply@verideal.shop", "support@verideal.shop", "", time.Minute)

	require.NoError(t, m.SendContact(context.Background(), "Ada", "ada@example.com", "<b>hi</b>"))
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "support@verideal.shop", tr.sent[0].To)
	assert.Equal(t, "New Contact Message", tr.sent[0].Subject)
	assert.Contains(t, tr.sent[0].HTML, "&lt;b&gt;hi&lt;/b&gt;")

	noInbox := NewMailerWithTransport(tr, "noreply@verideal.shop", "", "", time.Minute)
	assert.ErrorIs(t, noInbox.SendContact(context.Background(), "Ada", "a@b.co", "hi"), models.ErrNotConfigured)
}

func TestMailer_SendWelcome(t *testing.T) {
	tr := &recordingTransport{}
	m := NewMailerWithTransport(tr, "noreply@verideal.shop", "", "http://localhost:3000", time.Minute)

	require.NoError(t, m.SendWelcome(context.Background(), "ada@example.com", ""))
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].HTML, "Hello ada@example.com")
	assert.Contains(t, tr.sent[0].HTML, "http://localhost:3000/products")
}

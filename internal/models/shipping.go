package models

import "github.com/shopspring/decimal"

// Flat charges applied at checkout.
var (
	StandardShippingFee = decimal.RequireFromString("5.99")
	TaxRate             = decimal.RequireFromString("0.08")
)

// OrderTotals is the price breakdown shown on the checkout summary.
type OrderTotals struct {
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals applies the flat shipping fee and the tax rate to the cart.
func ComputeTotals(cart Cart) OrderTotals {
	subtotal := cart.Subtotal()
	tax := subtotal.Mul(TaxRate).Round(2)
	return OrderTotals{
		ItemCount:   cart.ItemCount(),
		Subtotal:    subtotal,
		ShippingFee: StandardShippingFee,
		Tax:         tax,
		Total:       subtotal.Add(StandardShippingFee).Add(tax),
	}
}

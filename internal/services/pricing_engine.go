package services

import (
	"github.com/shopspring/decimal"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// Pricing policy for virtual orders. The marketplace applies 8% tax and a
// flat shipping fee to every staff-created order; discounts are fixed at zero.
var (
	taxRate      = decimal.NewFromFloat(0.08)
	shippingFlat = decimal.NewFromFloat(5.00)
)

// ComputeTotals derives the pricing summary from the cart lines. It is pure:
// totals are recomputed from the latest cart content on every call and carry
// full precision. Rounding to two fraction digits happens only when a handler
// formats the value for display.
func ComputeTotals(lines []domain.CartLine) domain.Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal())
	}

	shipping := shippingFlat
	tax := subtotal.Mul(taxRate)
	discount := decimal.Zero

	return domain.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Discount: discount,
		Total:    subtotal.Add(tax).Add(shipping).Sub(discount),
	}
}

// LineProfit returns the display margin for a single cart line.
func LineProfit(line domain.CartLine) decimal.Decimal {
	return line.Profit()
}

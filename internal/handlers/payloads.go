package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/money"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/services"
)

// amountPayload carries a money value twice: the exact figure for machine
// consumption and the grouped two-digit rendering for the console UI.
type amountPayload struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func buildAmount(d decimal.Decimal) amountPayload {
	return amountPayload{Amount: money.Fixed(d), Display: money.Format(d)}
}

type cartLinePayload struct {
	Key       string        `json:"key"`
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	SalePrice amountPayload `json:"salePrice"`
	Quantity  int           `json:"quantity"`
	Subtotal  amountPayload `json:"subtotal"`
	Profit    amountPayload `json:"profit"`
}

type totalsPayload struct {
	Subtotal amountPayload `json:"subtotal"`
	Tax      amountPayload `json:"tax"`
	Shipping amountPayload `json:"shipping"`
	Discount amountPayload `json:"discount"`
	Total    amountPayload `json:"total"`
}

type cartPayload struct {
	ShopID string            `json:"shopId,omitempty"`
	Lines  []cartLinePayload `json:"lines"`
	Totals totalsPayload     `json:"totals"`
}

func buildCartPayload(shopID string, lines []domain.CartLine, totals domain.Totals) cartPayload {
	payload := cartPayload{
		ShopID: shopID,
		Lines:  make([]cartLinePayload, 0, len(lines)),
		Totals: buildTotalsPayload(totals),
	}
	for _, line := range lines {
		payload.Lines = append(payload.Lines, cartLinePayload{
			Key:       line.Key,
			ProductID: line.ProductID,
			Name:      line.Name,
			ImageURL:  line.ImageURL,
			SalePrice: buildAmount(line.SalePrice),
			Quantity:  line.Quantity,
			Subtotal:  buildAmount(line.Subtotal()),
			Profit:    buildAmount(line.Profit()),
		})
	}
	return payload
}

func buildTotalsPayload(totals domain.Totals) totalsPayload {
	return totalsPayload{
		Subtotal: buildAmount(totals.Subtotal),
		Tax:      buildAmount(totals.Tax),
		Shipping: buildAmount(totals.Shipping),
		Discount: buildAmount(totals.Discount),
		Total:    buildAmount(totals.Total),
	}
}

type productPayload struct {
	ID        string        `json:"id"`
	ShopID    string        `json:"shopId"`
	Name      string        `json:"name"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	SalePrice amountPayload `json:"salePrice"`
	Profit    amountPayload `json:"profit"`
	Stock     int           `json:"stock"`
}

func buildProductPayload(p domain.Product) productPayload {
	return productPayload{
		ID:        p.ID,
		ShopID:    p.ShopID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		SalePrice: buildAmount(p.SalePrice),
		Profit:    buildAmount(p.Profit()),
		Stock:     p.Stock,
	}
}

type confirmationPayload struct {
	ID        string            `json:"id"`
	User      domain.User       `json:"user"`
	ShopID    string            `json:"shopId,omitempty"`
	AddressID string            `json:"addressId,omitempty"`
	Lines     []cartLinePayload `json:"lines"`
	Totals    totalsPayload     `json:"totals"`
	CreatedAt string            `json:"createdAt"`
}

func buildConfirmationPayload(c domain.OrderConfirmation) confirmationPayload {
	lines := make([]cartLinePayload, 0, len(c.Lines))
	for _, line := range c.Lines {
		subtotal := line.SalePrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		profit := line.SalePrice.Sub(line.CostPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, cartLinePayload{
			ProductID: line.ProductID,
			Name:      line.Name,
			SalePrice: buildAmount(line.SalePrice),
			Quantity:  line.Quantity,
			Subtotal:  buildAmount(subtotal),
			Profit:    buildAmount(profit),
		})
	}
	return confirmationPayload{
		ID:        c.ID,
		User:      c.User,
		ShopID:    c.ShopID,
		AddressID: c.AddressID,
		Lines:     lines,
		Totals:    buildTotalsPayload(c.Totals),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

type checkoutPayload struct {
	State   services.SubmissionState `json:"state"`
	OrderID string                   `json:"orderId,omitempty"`
	Failure string                   `json:"failure,omitempty"`
}

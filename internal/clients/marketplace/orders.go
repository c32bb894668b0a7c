package marketplace

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// CreateOrderRequest is the payload posted to the marketplace when a reviewed
// virtual order is confirmed.
type CreateOrderRequest struct {
	UserID    string             `json:"userId"`
	ShopID    string             `json:"shopId"`
	AddressID string             `json:"addressId,omitempty"`
	Lines     []domain.OrderLine `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Tax       decimal.Decimal    `json:"tax"`
	Shipping  decimal.Decimal    `json:"shipping"`
	Discount  decimal.Decimal    `json:"discount"`
	Total     decimal.Decimal    `json:"total"`
}

// CreateOrderResult is the marketplace's acknowledgement of a created order.
type CreateOrderResult struct {
	OrderID string `json:"id"`
	Status  string `json:"status"`
}

// CreateOrder submits a composed order. The call either fully succeeds or
// fully fails; the marketplace never persists a partial order.
func (c *Client) CreateOrder(ctx context.Context, token string, order CreateOrderRequest) (CreateOrderResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "orders", order, token)
	if err != nil {
		return CreateOrderResult{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return CreateOrderResult{}, c.errorFromResponse(resp)
	}
	return decodeJSON[CreateOrderResult](resp, "order")
}

package services

import (
	"context"
	"errors"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// OrderPlacer is the slice of the marketplace API that accepts composed orders.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, token string, order marketplace.CreateOrderRequest) (marketplace.CreateOrderResult, error)
}

// OrderService drives a session's Checkout through submission: it sends the
// reviewed snapshot to the marketplace and settles the machine with the
// outcome. On success the session cart is cleared; on failure it is kept
// exactly as it was so the attempt can be retried.
type OrderService struct {
	placer OrderPlacer
	logger func(ctx context.Context, event string, fields map[string]any)
}

// OrderServiceDeps lists the collaborators required by NewOrderService.
type OrderServiceDeps struct {
	Placer OrderPlacer
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// NewOrderService validates deps and constructs an OrderService.
func NewOrderService(deps OrderServiceDeps) (*OrderService, error) {
	if deps.Placer == nil {
		return nil, errors.New("order service: placer is required")
	}
	svc := &OrderService{placer: deps.Placer, logger: deps.Logger}
	if svc.logger == nil {
		svc.logger = func(context.Context, string, map[string]any) {}
	}
	return svc, nil
}

// Submit sends the session's reviewed order to the marketplace. The snapshot
// captured at review time is what gets submitted, regardless of cart edits
// made while the review was open.
func (s *OrderService) Submit(ctx context.Context, token string, session *PosSession) (domain.OrderConfirmation, error) {
	if session == nil {
		return domain.OrderConfirmation{}, errors.New("order service: nil session")
	}
	snapshot, err := session.beginSubmit()
	if err != nil {
		return domain.OrderConfirmation{}, err
	}

	result, err := s.placer.CreateOrder(ctx, token, marketplace.CreateOrderRequest{
		UserID:    snapshot.User.ID,
		ShopID:    snapshot.ShopID,
		AddressID: snapshot.AddressID,
		Lines:     snapshot.Lines,
		Subtotal:  snapshot.Totals.Subtotal,
		Tax:       snapshot.Totals.Tax,
		Shipping:  snapshot.Totals.Shipping,
		Discount:  snapshot.Totals.Discount,
		Total:     snapshot.Totals.Total,
	})
	if err != nil {
		translated := translateClientError(err)
		session.failSubmit(translated.Error())
		s.logger(ctx, "orders.submit_failed", map[string]any{
			"confirmation_id": snapshot.ID,
			"user_id":         snapshot.User.ID,
			"error":           translated.Error(),
		})
		return domain.OrderConfirmation{}, translated
	}

	session.completeSubmit(result.OrderID)
	s.logger(ctx, "orders.submitted", map[string]any{
		"confirmation_id": snapshot.ID,
		"order_id":        result.OrderID,
		"user_id":         snapshot.User.ID,
		"total":           snapshot.Totals.Total.StringFixed(2),
	})
	return snapshot, nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

func reviewedSession(t *testing.T) (*PosSession, *marketplace.Static, *OrderService) {
	t.Helper()
	registry := testRegistry(t, fixedClock(), 0)
	session := registry.Create()

	if err := session.SelectCustomer(domain.User{ID: "user-1", Email: "a@b.c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.AddProduct(testProduct("p1", "10.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.AddProduct(testProduct("p2", "5.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.AdjustQuantity(session.CartLines()[0].Key, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := session.OpenReview(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	static := marketplace.NewStatic()
	svc, err := NewOrderService(OrderServiceDeps{Placer: static})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return session, static, svc
}

func TestOrderServiceSubmitSuccessClearsCart(t *testing.T) {
	session, static, svc := reviewedSession(t)

	confirmation, err := svc.Submit(context.Background(), "token", session)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := confirmation.Totals.Total.StringFixed(2); got != "32.00" {
		t.Fatalf("expected total 32.00, got %s", got)
	}

	state, orderID, failure := session.CheckoutStatus()
	if state != SubmissionCompleted || orderID == "" || failure != "" {
		t.Fatalf("expected Completed with order id, got %s %q %q", state, orderID, failure)
	}
	if len(session.CartLines()) != 0 {
		t.Fatalf("expected cart cleared after success")
	}

	orders := static.Orders()
	if len(orders) != 1 {
		t.Fatalf("expected 1 submitted order, got %d", len(orders))
	}
	if orders[0].UserID != "user-1" || len(orders[0].Lines) != 2 {
		t.Fatalf("unexpected submitted order %+v", orders[0])
	}
	if got := orders[0].Total.StringFixed(2); got != "32.00" {
		t.Fatalf("expected submitted total 32.00, got %s", got)
	}
}

func TestOrderServiceSubmitFailureKeepsCart(t *testing.T) {
	session, static, svc := reviewedSession(t)
	static.FailNext = &marketplace.APIError{StatusCode: 502, Message: "upstream down"}
	linesBefore := session.CartLines()

	_, err := svc.Submit(context.Background(), "token", session)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	state, _, failure := session.CheckoutStatus()
	if state != SubmissionFailed || failure == "" {
		t.Fatalf("expected Failed with message, got %s %q", state, failure)
	}
	if len(session.CartLines()) != len(linesBefore) {
		t.Fatalf("expected cart preserved on failure")
	}

	// The kept snapshot allows a retry without recomposing the order.
	if _, ok := session.Confirmation(); !ok {
		t.Fatalf("expected snapshot retained for retry")
	}
}

func TestOrderServiceSubmitRequiresOpenReview(t *testing.T) {
	registry := testRegistry(t, fixedClock(), 0)
	session := registry.Create()
	static := marketplace.NewStatic()
	svc, err := NewOrderService(OrderServiceDeps{Placer: static})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Submit(context.Background(), "token", session); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict without a review, got %v", err)
	}
	if len(static.Orders()) != 0 {
		t.Fatalf("expected no order submitted")
	}
}

package services

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

func testCheckout() *Checkout {
	seq := 0
	newID := func() string {
		seq++
		return "confirm-" + strconv.Itoa(seq)
	}
	now := func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return NewCheckout(newID, now)
}

func cartWithLines(prices ...string) *Cart {
	cart := NewCart(fixedClock())
	for i, p := range prices {
		cart.AddLine(testProduct("p"+strconv.Itoa(i+1), p))
	}
	return cart
}

func TestCheckoutOpenReviewRefusesEmptyCart(t *testing.T) {
	checkout := testCheckout()

	_, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", NewCart(fixedClock()))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty cart, got %v", err)
	}
	if checkout.State() != SubmissionIdle {
		t.Fatalf("expected state to stay Idle, got %s", checkout.State())
	}
}

func TestCheckoutSnapshotImmuneToCartEdits(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00", "5.00")

	snapshot, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "addr-1", cart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Edits made while the review is open must not reach the snapshot.
	cart.AddLine(testProduct("p9", "100.00"))
	cart.AdjustQuantity(cart.Lines()[0].Key, 5)

	kept, ok := checkout.Confirmation()
	if !ok {
		t.Fatalf("expected an open confirmation")
	}
	if len(kept.Lines) != 2 {
		t.Fatalf("expected snapshot to keep 2 lines, got %d", len(kept.Lines))
	}
	if kept.Lines[0].Quantity != 1 {
		t.Fatalf("expected snapshot quantity 1, got %d", kept.Lines[0].Quantity)
	}
	if got := kept.Totals.Total.StringFixed(2); got != snapshot.Totals.Total.StringFixed(2) {
		t.Fatalf("expected totals frozen at %s, got %s", snapshot.Totals.Total.StringFixed(2), got)
	}
}

func TestCheckoutRefusesSecondReview(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00")

	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second review, got %v", err)
	}
}

func TestCheckoutCancelReturnsToIdle(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00")

	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkout.CancelReview(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.State() != SubmissionIdle {
		t.Fatalf("expected Idle after cancel, got %s", checkout.State())
	}
	if _, ok := checkout.Confirmation(); ok {
		t.Fatalf("expected snapshot dropped on cancel")
	}
}

func TestCheckoutAtMostOneSubmissionInFlight(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00")
	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := checkout.BeginSubmit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := checkout.BeginSubmit(); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double submit, got %v", err)
	}
	if err := checkout.CancelReview(); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected cancel refused while in flight, got %v", err)
	}
}

func TestCheckoutCompleteAndFailTransitions(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00")
	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := checkout.BeginSubmit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkout.CompleteSubmit("order-77"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.State() != SubmissionCompleted || checkout.OrderID() != "order-77" {
		t.Fatalf("expected Completed with order-77, got %s %q", checkout.State(), checkout.OrderID())
	}

	// A fresh attempt can open from a terminal state.
	if _, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart); err != nil {
		t.Fatalf("unexpected error opening after completion: %v", err)
	}
	if _, err := checkout.BeginSubmit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkout.FailSubmit("backend rejected"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.State() != SubmissionFailed || checkout.Failure() != "backend rejected" {
		t.Fatalf("expected Failed with message, got %s %q", checkout.State(), checkout.Failure())
	}
	if !checkout.State().IsTerminal() {
		t.Fatalf("expected Failed to be terminal")
	}
}

func TestCheckoutRetriesSameSnapshotAfterFailure(t *testing.T) {
	checkout := testCheckout()
	cart := cartWithLines("10.00")
	first, err := checkout.OpenReview(domain.User{ID: "user-1"}, "shop-1", "", cart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := checkout.BeginSubmit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := checkout.FailSubmit("backend down"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A new confirm click retries the identical snapshot, even though the
	// live cart changed after the review opened.
	cart.AddLine(testProduct("p9", "100.00"))
	retried, err := checkout.BeginSubmit()
	if err != nil {
		t.Fatalf("expected retry from Failed to be allowed, got %v", err)
	}
	if retried.ID != first.ID || len(retried.Lines) != 1 {
		t.Fatalf("expected the original snapshot back, got %+v", retried)
	}
	if checkout.Failure() != "" {
		t.Fatalf("expected the failure message cleared on retry, got %q", checkout.Failure())
	}
	if err := checkout.CompleteSubmit("order-88"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if checkout.State() != SubmissionCompleted {
		t.Fatalf("expected Completed after retry, got %s", checkout.State())
	}
}

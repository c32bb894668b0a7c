package services

import (
	"fmt"
	"time"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// SubmissionState tracks where an order attempt is in its lifecycle.
type SubmissionState string

const (
	// SubmissionIdle means no confirmation view is open.
	SubmissionIdle SubmissionState = "IDLE"
	// SubmissionReviewing means a snapshot is open and awaiting a decision.
	SubmissionReviewing SubmissionState = "REVIEWING"
	// SubmissionSubmitting means the order is in flight to the marketplace.
	SubmissionSubmitting SubmissionState = "SUBMITTING"
	// SubmissionCompleted means the marketplace accepted the order.
	SubmissionCompleted SubmissionState = "COMPLETED"
	// SubmissionFailed means the marketplace rejected the order or the call
	// failed; the cart is untouched so the operator can retry.
	SubmissionFailed SubmissionState = "FAILED"
)

// IsTerminal reports whether the state ends an attempt.
func (s SubmissionState) IsTerminal() bool {
	return s == SubmissionCompleted || s == SubmissionFailed
}

// Checkout is the per-session order submission machine. It owns the immutable
// confirmation snapshot: once a review opens, later cart edits do not change
// what confirming will submit. At most one submission is in flight at a time.
type Checkout struct {
	state        SubmissionState
	confirmation *domain.OrderConfirmation
	orderID      string
	failure      string
	newID        func() string
	now          func() time.Time
}

// NewCheckout constructs an idle Checkout.
func NewCheckout(newID func() string, now func() time.Time) *Checkout {
	if now == nil {
		now = time.Now
	}
	return &Checkout{state: SubmissionIdle, newID: newID, now: now}
}

// State returns the current lifecycle state.
func (c *Checkout) State() SubmissionState { return c.state }

// Failure returns the message recorded by the last failed attempt.
func (c *Checkout) Failure() string { return c.failure }

// OrderID returns the marketplace order ID after a completed attempt.
func (c *Checkout) OrderID() string { return c.orderID }

// Confirmation returns a copy of the open snapshot, or false when none is open.
func (c *Checkout) Confirmation() (domain.OrderConfirmation, bool) {
	if c.confirmation == nil {
		return domain.OrderConfirmation{}, false
	}
	return cloneConfirmation(*c.confirmation), true
}

// OpenReview captures a confirmation snapshot from the cart and moves to
// Reviewing. It refuses an empty cart and refuses to open while an earlier
// attempt is still reviewing or submitting. Opening from a terminal state
// starts a fresh attempt.
func (c *Checkout) OpenReview(user domain.User, shopID, addressID string, cart *Cart) (domain.OrderConfirmation, error) {
	switch c.state {
	case SubmissionReviewing, SubmissionSubmitting:
		return domain.OrderConfirmation{}, fmt.Errorf("%w: an order review is already in progress", ErrConflict)
	}
	if user.ID == "" {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: a customer must be selected before review", ErrInvalidInput)
	}
	if cart == nil || cart.Len() == 0 {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: cannot review an empty order", ErrInvalidInput)
	}

	lines := make([]domain.OrderLine, 0, cart.Len())
	for _, line := range cart.Lines() {
		lines = append(lines, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			SalePrice: line.SalePrice,
			CostPrice: line.CostPrice,
			Quantity:  line.Quantity,
		})
	}
	snapshot := domain.OrderConfirmation{
		ID:        c.newID(),
		User:      user,
		ShopID:    shopID,
		AddressID: addressID,
		Lines:     lines,
		Totals:    cart.Totals(),
		CreatedAt: c.now().UTC(),
	}
	c.state = SubmissionReviewing
	c.confirmation = &snapshot
	c.orderID = ""
	c.failure = ""
	return cloneConfirmation(snapshot), nil
}

// CancelReview discards the open snapshot and returns to Idle. Cancelling
// while submitting is refused; the in-flight call must settle first.
func (c *Checkout) CancelReview() error {
	switch c.state {
	case SubmissionReviewing:
		c.state = SubmissionIdle
		c.confirmation = nil
		return nil
	case SubmissionSubmitting:
		return fmt.Errorf("%w: submission already in flight", ErrConflict)
	default:
		return fmt.Errorf("%w: no review is open", ErrConflict)
	}
}

// BeginSubmit moves to Submitting and hands back the snapshot that must be
// sent. Allowed from Reviewing, and from Failed while the snapshot from the
// failed attempt is still held, so a re-click of confirm retries the same
// order. Any other state is refused, which keeps at most one attempt in
// flight.
func (c *Checkout) BeginSubmit() (domain.OrderConfirmation, error) {
	retryable := c.state == SubmissionFailed && c.confirmation != nil
	if c.state != SubmissionReviewing && !retryable {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: no reviewed order to submit", ErrConflict)
	}
	c.state = SubmissionSubmitting
	c.failure = ""
	return cloneConfirmation(*c.confirmation), nil
}

// CompleteSubmit records acceptance and moves to Completed.
func (c *Checkout) CompleteSubmit(orderID string) error {
	if c.state != SubmissionSubmitting {
		return fmt.Errorf("%w: no submission in flight", ErrConflict)
	}
	c.state = SubmissionCompleted
	c.orderID = orderID
	c.confirmation = nil
	return nil
}

// FailSubmit records the failure and moves to Failed. The snapshot is kept so
// a further confirm click can retry the same order.
func (c *Checkout) FailSubmit(message string) error {
	if c.state != SubmissionSubmitting {
		return fmt.Errorf("%w: no submission in flight", ErrConflict)
	}
	c.state = SubmissionFailed
	c.failure = message
	return nil
}

// Reset returns the machine to Idle, dropping any snapshot and outcome.
func (c *Checkout) Reset() {
	c.state = SubmissionIdle
	c.confirmation = nil
	c.orderID = ""
	c.failure = ""
}

func cloneConfirmation(c domain.OrderConfirmation) domain.OrderConfirmation {
	c.Lines = append([]domain.OrderLine(nil), c.Lines...)
	return c
}

package services

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// Cart is the ordered line collection for one composition session. Insertion
// order is preserved; the same product may appear as several distinct lines,
// so line identity is the ulid key assigned at insertion (the UI additionally
// disambiguates by position).
//
// All operations are synchronous in-memory mutations. Invalid input degrades
// to a no-op rather than an error; there is no failure path.
type Cart struct {
	lines []domain.CartLine
	newID func() string
	now   func() time.Time
}

// NewCart constructs an empty cart with the provided clock, defaulting to UTC now.
func NewCart(clock func() time.Time) *Cart {
	if clock == nil {
		clock = time.Now
	}
	return &Cart{
		lines: []domain.CartLine{},
		newID: func() string { return ulid.Make().String() },
		now:   func() time.Time { return clock().UTC() },
	}
}

// AddLine appends a new line with quantity 1 holding a snapshot of the given
// product. Duplicates are allowed; adding the same product twice yields two
// independent lines.
func (c *Cart) AddLine(product domain.Product) domain.CartLine {
	line := domain.CartLine{
		Key:       c.newID(),
		ProductID: strings.TrimSpace(product.ID),
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		SalePrice: product.SalePrice,
		CostPrice: product.CostPrice,
		Stock:     product.Stock,
		Quantity:  1,
		AddedAt:   c.now(),
	}
	c.lines = append(c.lines, line)
	return line
}

// AdjustQuantity applies delta to the line identified by key. The result is
// clamped at a minimum of 1; a decrement never removes the line. Unknown keys
// are a no-op. No stock ceiling is enforced here.
func (c *Cart) AdjustQuantity(key string, delta int) bool {
	idx := c.indexOf(key)
	if idx < 0 {
		return false
	}
	next := c.lines[idx].Quantity + delta
	if next < 1 {
		next = 1
	}
	c.lines[idx].Quantity = next
	return true
}

// RemoveLine deletes the line at the given position. Out-of-range indices are
// a no-op.
func (c *Cart) RemoveLine(index int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return true
}

// Clear empties the cart. Called after a successful submission.
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart content in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	dup := make([]domain.CartLine, len(c.lines))
	copy(dup, c.lines)
	return dup
}

// Totals recomputes the pricing summary from the current cart content.
func (c *Cart) Totals() domain.Totals {
	return ComputeTotals(c.lines)
}

func (c *Cart) indexOf(key string) int {
	target := strings.TrimSpace(key)
	if target == "" {
		return -1
	}
	for i, line := range c.lines {
		if line.Key == target {
			return i
		}
	}
	return -1
}

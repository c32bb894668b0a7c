package services

import (
	"testing"
	"time"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
}

func testProduct(id, price string) domain.Product {
	return domain.Product{
		ID:        id,
		ShopID:    "shop-1",
		Name:      "Product " + id,
		SalePrice: money(price),
		CostPrice: money("1.00"),
		Stock:     10,
	}
}

func TestCartAddLineDuplicatesStayDistinct(t *testing.T) {
	cart := NewCart(fixedClock())

	first := cart.AddLine(testProduct("p1", "10.00"))
	second := cart.AddLine(testProduct("p1", "10.00"))

	if cart.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", cart.Len())
	}
	if first.Key == second.Key {
		t.Fatalf("expected distinct line keys, both were %q", first.Key)
	}
	if first.Quantity != 1 || second.Quantity != 1 {
		t.Fatalf("expected both quantities 1, got %d and %d", first.Quantity, second.Quantity)
	}
}

func TestCartAddLineSnapshotsProduct(t *testing.T) {
	cart := NewCart(fixedClock())
	product := testProduct("p1", "10.00")

	line := cart.AddLine(product)

	// Catalog changes after insertion must not reach the line.
	product.SalePrice = money("99.99")
	product.Name = "renamed"

	got := cart.Lines()[0]
	if !got.SalePrice.Equal(money("10.00")) {
		t.Fatalf("expected snapshot price 10.00, got %s", got.SalePrice)
	}
	if got.Name != line.Name {
		t.Fatalf("expected snapshot name %q, got %q", line.Name, got.Name)
	}
}

func TestCartAdjustQuantityClampsAtOne(t *testing.T) {
	cart := NewCart(fixedClock())
	line := cart.AddLine(testProduct("p1", "10.00"))
	if !cart.AdjustQuantity(line.Key, 2) {
		t.Fatalf("expected increment to succeed")
	}

	if !cart.AdjustQuantity(line.Key, -1000) {
		t.Fatalf("expected clamped decrement to succeed")
	}

	if got := cart.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", got)
	}
	if cart.Len() != 1 {
		t.Fatalf("expected line to survive the decrement, got %d lines", cart.Len())
	}
}

func TestCartAdjustQuantityUnknownKey(t *testing.T) {
	cart := NewCart(fixedClock())
	cart.AddLine(testProduct("p1", "10.00"))

	if cart.AdjustQuantity("no-such-key", 1) {
		t.Fatalf("expected unknown key to be a no-op")
	}
	if got := cart.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected quantity unchanged at 1, got %d", got)
	}
}

func TestCartRemoveLineByPosition(t *testing.T) {
	cart := NewCart(fixedClock())
	cart.AddLine(testProduct("p1", "10.00"))
	cart.AddLine(testProduct("p2", "5.00"))
	cart.AddLine(testProduct("p3", "2.00"))

	if !cart.RemoveLine(1) {
		t.Fatalf("expected removal at index 1 to succeed")
	}

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after removal, got %d", len(lines))
	}
	if lines[0].ProductID != "p1" || lines[1].ProductID != "p3" {
		t.Fatalf("expected p1 then p3, got %s then %s", lines[0].ProductID, lines[1].ProductID)
	}

	totals := cart.Totals()
	if got := totals.Subtotal.StringFixed(2); got != "12.00" {
		t.Fatalf("expected subtotal 12.00 after removal, got %s", got)
	}
}

func TestCartRemoveLineOutOfRange(t *testing.T) {
	cart := NewCart(fixedClock())
	cart.AddLine(testProduct("p1", "10.00"))

	if cart.RemoveLine(-1) || cart.RemoveLine(1) {
		t.Fatalf("expected out-of-range removals to be no-ops")
	}
	if cart.Len() != 1 {
		t.Fatalf("expected cart untouched, got %d lines", cart.Len())
	}
}

func TestCartClear(t *testing.T) {
	cart := NewCart(fixedClock())
	cart.AddLine(testProduct("p1", "10.00"))
	cart.AddLine(testProduct("p2", "5.00"))

	cart.Clear()

	if cart.Len() != 0 {
		t.Fatalf("expected empty cart, got %d lines", cart.Len())
	}
	if got := cart.Totals().Subtotal; !got.IsZero() {
		t.Fatalf("expected zero subtotal after clear, got %s", got)
	}
}

func TestCartLinesReturnsCopy(t *testing.T) {
	cart := NewCart(fixedClock())
	cart.AddLine(testProduct("p1", "10.00"))

	lines := cart.Lines()
	lines[0].Quantity = 99

	if got := cart.Lines()[0].Quantity; got != 1 {
		t.Fatalf("expected internal state unchanged, got quantity %d", got)
	}
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCartLedgerAdd ensures adding the same book twice bumps the
// quantity instead of creating a second line.
func TestCartLedgerAdd(t *testing.T) {
	ledger := NewCartLedger()
	book := Book{ID: "b:1", Title: "Test book title", Price: 100}

	ledger.Add(book)
	ledger.Add(book)

	assert.Equal(t, 1, len(ledger.Items))
	assert.Equal(t, 2, ledger.Items[0].Quantity)
	assert.False(t, ledger.IsEmpty())
}

// TestCartLedgerAddKeysOnBookID ensures cart membership is keyed on the
// book id so a re-fetched catalog copy of the same book merges into the
// existing line.
func TestCartLedgerAddKeysOnBookID(t *testing.T) {
	ledger := NewCartLedger()
	ledger.Add(Book{ID: "b:1", Title: "Test book title", Price: 100})
	ledger.Add(Book{ID: "b:1", Title: "Test book title", Price: 100, Summary: "refreshed copy"})

	assert.Equal(t, 1, len(ledger.Items))
	assert.Equal(t, 2, ledger.Items[0].Quantity)
}

// TestCartLedgerSetQuantity ensures quantity updates apply to the right
// line and that values below 1 are clamped to 1.
func TestCartLedgerSetQuantity(t *testing.T) {
	ledger := NewCartLedger()
	ledger.Add(Book{ID: "b:1", Price: 100})
	ledger.Add(Book{ID: "b:2", Price: 200})

	t.Run("should pass: plain update", func(t *testing.T) {
		ledger.SetQuantity("b:1", 5)
		assert.Equal(t, 5, ledger.Items[0].Quantity)
	})

	t.Run("should pass: zero clamps to one", func(t *testing.T) {
		ledger.SetQuantity("b:1", 0)
		assert.Equal(t, 1, ledger.Items[0].Quantity)
	})

	t.Run("should pass: negative clamps to one", func(t *testing.T) {
		ledger.SetQuantity("b:2", -3)
		assert.Equal(t, 1, ledger.Items[1].Quantity)
	})

	t.Run("should pass: unknown book id is a no-op", func(t *testing.T) {
		ledger.SetQuantity("b:404", 9)
		assert.Equal(t, 2, len(ledger.Items))
		assert.Equal(t, 1, ledger.Items[0].Quantity)
		assert.Equal(t, 1, ledger.Items[1].Quantity)
	})
}

// TestCartLedgerRemove ensures a removed book can be added back as a
// fresh line with quantity 1.
func TestCartLedgerRemove(t *testing.T) {
	ledger := NewCartLedger()
	book := Book{ID: "b:1", Price: 100}
	ledger.Add(book)
	ledger.SetQuantity("b:1", 4)

	ledger.Remove("b:1")
	assert.True(t, ledger.IsEmpty())

	ledger.Add(book)
	assert.Equal(t, 1, len(ledger.Items))
	assert.Equal(t, 1, ledger.Items[0].Quantity)
}

// TestCartLedgerClear ensures clearing empties the ledger unconditionally.
func TestCartLedgerClear(t *testing.T) {
	ledger := NewCartLedger()
	ledger.Add(Book{ID: "b:1", Price: 100})
	ledger.Add(Book{ID: "b:2", Price: 200})

	ledger.Clear()
	assert.True(t, ledger.IsEmpty())
	assert.Equal(t, int64(0), ledger.Total())
}

// TestCartLedgerTotal ensures the cart total always equals the sum of
// the displayed per-line subtotals.
func TestCartLedgerTotal(t *testing.T) {
	ledger := NewCartLedger()
	ledger.Add(Book{ID: "b:1", Price: 100, DiscountPercent: 20})
	ledger.Add(Book{ID: "b:2", Price: 250})
	ledger.SetQuantity("b:1", 3)

	var sum int64
	for _, item := range ledger.Items {
		sum += item.Subtotal()
	}
	assert.Equal(t, sum, ledger.Total())
	// 3 x 80 + 1 x 250
	assert.Equal(t, int64(490), ledger.Total())
}

// TestCartLedgerSnapshot ensures a taken snapshot is immune to later
// ledger mutations.
func TestCartLedgerSnapshot(t *testing.T) {
	ledger := NewCartLedger()
	ledger.Add(Book{ID: "b:1", Title: "Test book title", Author: "Jerome Amon", Price: 100, DiscountPercent: 20})
	ledger.SetQuantity("b:1", 2)

	lines := ledger.Snapshot()
	ledger.SetQuantity("b:1", 9)
	ledger.Add(Book{ID: "b:2", Price: 300})

	assert.Equal(t, 1, len(lines))
	assert.Equal(t, "b:1", lines[0].BookID)
	assert.Equal(t, "Test book title", lines[0].Title)
	assert.Equal(t, "Jerome Amon", lines[0].Author)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(80), lines[0].UnitPrice)
	assert.Equal(t, int64(160), lines[0].Subtotal)
}

// TestEffectiveUnitPrice ensures discount rounding is half-up and
// applied once on the unit price.
func TestEffectiveUnitPrice(t *testing.T) {
	testCases := []struct {
		name     string
		price    int64
		discount int
		expected int64
	}{
		{"no discount", 100, 0, 100},
		{"negative discount reads as none", 100, -5, 100},
		{"plain discount", 100, 20, 80},
		{"rounds half up", 99, 50, 50},
		{"rounds down below half", 70, 33, 47},
		{"full discount", 100, 100, 0},
		{"zero price", 0, 40, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Book{Price: tc.price, DiscountPercent: tc.discount}
			assert.Equal(t, tc.expected, b.EffectiveUnitPrice())
		})
	}
}

// TestEffectiveUnitPriceNeverExceedsBase ensures a discounted price
// never goes above the base price.
func TestEffectiveUnitPriceNeverExceedsBase(t *testing.T) {
	for discount := 0; discount <= 100; discount++ {
		b := Book{Price: 999, DiscountPercent: discount}
		effective := b.EffectiveUnitPrice()
		assert.LessOrEqual(t, effective, b.Price)
		if discount > 0 {
			assert.Less(t, effective, b.Price)
		}
	}
}

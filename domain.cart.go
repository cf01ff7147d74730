package main

// CartItem pairs a book snapshot with the quantity selected by the
// user. The quantity never drops below 1 while the item is present.
type CartItem struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// Subtotal is the displayed per-line amount. The cart total is defined
// as the sum of these values so both can never diverge.
func (ci CartItem) Subtotal() int64 {
	return ci.Book.EffectiveUnitPrice() * int64(ci.Quantity)
}

// OrderLine is one line of an order snapshot taken at submission time.
type OrderLine struct {
	BookID    string `json:"bookId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Subtotal  int64  `json:"subtotal"`
}

// CartLedger holds the ordered set of selected books with quantities
// for one browsing session. Membership is keyed on the book id, never
// on object identity, so a re-fetched catalog cannot split a line in two.
type CartLedger struct {
	Items []CartItem `json:"items"`
}

// NewCartLedger returns an empty ledger.
func NewCartLedger() *CartLedger {
	return &CartLedger{Items: []CartItem{}}
}

// IsEmpty reports whether the ledger holds no item. Checkout visibility
// derives from this, there is no separately tracked state to drift.
func (cl *CartLedger) IsEmpty() bool {
	return len(cl.Items) == 0
}

// Add merges a book into the ledger: an existing line for the same book
// id gets its quantity incremented by one, otherwise a new line with
// quantity 1 is appended.
func (cl *CartLedger) Add(book Book) {
	for i := range cl.Items {
		if cl.Items[i].Book.ID == book.ID {
			cl.Items[i].Quantity++
			return
		}
	}
	cl.Items = append(cl.Items, CartItem{Book: book, Quantity: 1})
}

// SetQuantity updates the quantity of an existing line. Values below 1
// are clamped to 1: removal only happens through Remove. Unknown book
// ids are a no-op.
func (cl *CartLedger) SetQuantity(bookID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range cl.Items {
		if cl.Items[i].Book.ID == bookID {
			cl.Items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line holding the given book id if present.
func (cl *CartLedger) Remove(bookID string) {
	for i := range cl.Items {
		if cl.Items[i].Book.ID == bookID {
			cl.Items = append(cl.Items[:i], cl.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the ledger unconditionally.
func (cl *CartLedger) Clear() {
	cl.Items = []CartItem{}
}

// Total sums the per-line subtotals.
func (cl *CartLedger) Total() int64 {
	var total int64
	for _, item := range cl.Items {
		total += item.Subtotal()
	}
	return total
}

// Snapshot produces a defensive copy of the cart contents for order
// submission. Mutating the ledger afterwards does not alter an already
// taken snapshot.
func (cl *CartLedger) Snapshot() []OrderLine {
	lines := make([]OrderLine, 0, len(cl.Items))
	for _, item := range cl.Items {
		lines = append(lines, OrderLine{
			BookID:    item.Book.ID,
			Title:     item.Book.Title,
			Author:    item.Book.Author,
			Quantity:  item.Quantity,
			UnitPrice: item.Book.EffectiveUnitPrice(),
			Subtotal:  item.Subtotal(),
		})
	}
	return lines
}

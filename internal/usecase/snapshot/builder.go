package snapshot

import (
	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/orderbook/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/snapshot/v1"
)

// Builder materializes fixed-depth snapshot rows from book state and keeps
// the append-only output sequence of the run. Build is a pure function of
// the current ladders: building twice without an intervening event yields
// identical rows.
type Builder struct {
	depth int
	rows  []*snapshotv1.Row
}

// NewBuilder creates a Builder emitting the given number of levels per side.
func NewBuilder(depth int) *Builder {
	if depth < 1 {
		depth = 1
	}
	return &Builder{
		depth: depth,
	}
}

// Depth returns the configured number of levels per side.
func (b *Builder) Depth() int {
	return b.depth
}

// Build materializes one row for the triggering event from the book's
// current state. The row is not appended; see Append.
func (b *Builder) Build(event *eventreaderv1.OrderEvent, book orderbookv1.OrderBook) *snapshotv1.Row {
	bids, asks := book.Depth(b.depth)

	row := &snapshotv1.Row{
		Timestamp:     event.Timestamp,
		OrderID:       event.OrderID,
		Action:        event.Action,
		Price:         event.Price,
		Side:          event.Side,
		Quantity:      event.Quantity,
		BidPrices:     make([]float64, b.depth),
		BidQuantities: make([]int64, b.depth),
		AskPrices:     make([]float64, b.depth),
		AskQuantities: make([]int64, b.depth),
	}

	for i := 0; i < b.depth; i++ {
		row.BidPrices[i] = bids[i].Price
		row.BidQuantities[i] = bids[i].Quantity
		row.AskPrices[i] = asks[i].Price
		row.AskQuantities[i] = asks[i].Quantity
	}

	return row
}

// Append adds an emitted row to the output sequence.
func (b *Builder) Append(row *snapshotv1.Row) {
	b.rows = append(b.rows, row)
}

// Rows returns the emitted snapshot sequence in emission order.
func (b *Builder) Rows() []*snapshotv1.Row {
	return b.rows
}

// Last returns the most recently emitted row, or nil before the first event.
func (b *Builder) Last() *snapshotv1.Row {
	if len(b.rows) == 0 {
		return nil
	}
	return b.rows[len(b.rows)-1]
}

// Len returns the number of emitted rows.
func (b *Builder) Len() int {
	return len(b.rows)
}

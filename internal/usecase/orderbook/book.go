package orderbook

import (
	"fmt"

	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/orderbook/v1"
)

// Config holds the policy knobs of the book core.
type Config struct {
	// MatchingEnabled controls whether a marketable add executes against the
	// opposite side before resting its remainder.
	MatchingEnabled bool
	// ModifyPriceChangeRepriorities moves the order to the tail of its new
	// level when a modify changes price. When false the order is re-slotted
	// at its original arrival position within the new level's queue.
	ModifyPriceChangeRepriorities bool
	// ModifyQuantityOnlyRepriorities moves the order to the tail of its level
	// when a modify changes only quantity. When false the order keeps its
	// queue position and is updated in place.
	ModifyQuantityOnlyRepriorities bool
}

// Book reconstructs a single instrument's limit order book from a strictly
// ordered event stream. It owns the order registry and both ladders.
//
// Book is not safe for concurrent use: events for one instrument are applied
// by exactly one writer, in timestamp order. Parallelism across instruments
// is achieved by giving each instrument its own Book.
type Book struct {
	config Config

	orders map[string]*orderbookv1.Order // orderID -> order, the registry
	bids   *orderbookv1.Ladder
	asks   *orderbookv1.Ladder

	sequence int64 // arrival counter, assigned to orders on add
}

// Ensure Book implements the domain contract
var _ orderbookv1.OrderBook = (*Book)(nil)

// NewBook creates an empty book with the given policy configuration.
func NewBook(config Config) *Book {
	return &Book{
		config: config,
		orders: make(map[string]*orderbookv1.Order),
		bids:   orderbookv1.NewLadder(orderbookv1.SideBuy),
		asks:   orderbookv1.NewLadder(orderbookv1.SideSell),
	}
}

// ProcessEvent applies one event atomically: it either fully applies or
// rejects the event with the prior state untouched. Matches are returned
// for marketable adds when matching is enabled.
func (b *Book) ProcessEvent(event *eventreaderv1.OrderEvent) ([]orderbookv1.Match, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: nil event", orderbookv1.ErrInvalidEvent)
	}

	action, err := parseAction(event.Action)
	if err != nil {
		return nil, err
	}
	side, err := parseSide(event.Side)
	if err != nil {
		return nil, err
	}
	if event.OrderID == "" {
		return nil, fmt.Errorf("%w: empty order id", orderbookv1.ErrInvalidEvent)
	}

	switch action {
	case orderbookv1.ActionAdd:
		return b.applyAdd(event, side)
	case orderbookv1.ActionModify:
		return nil, b.applyModify(event)
	default:
		return nil, b.applyDelete(event)
	}
}

// applyAdd constructs an order from the event. A marketable add executes
// against the opposite side first when matching is enabled; any remainder
// rests at its own price.
func (b *Book) applyAdd(event *eventreaderv1.OrderEvent, side orderbookv1.Side) ([]orderbookv1.Match, error) {
	if _, exists := b.orders[event.OrderID]; exists {
		return nil, fmt.Errorf("%w: %s", orderbookv1.ErrDuplicateID, event.OrderID)
	}
	if event.Price <= 0 {
		return nil, fmt.Errorf("%w: price %v", orderbookv1.ErrInvalidEvent, event.Price)
	}
	if event.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity %d", orderbookv1.ErrInvalidEvent, event.Quantity)
	}

	order := orderbookv1.NewOrder(event.OrderID, side, event.Price, event.Quantity, event.Timestamp)
	b.sequence++
	order.Sequence = b.sequence

	var matches []orderbookv1.Match
	if b.config.MatchingEnabled {
		matches = b.match(order)
	}

	if order.Quantity > 0 {
		if err := b.sideLadder(side).Insert(order); err != nil {
			return nil, err
		}
		b.orders[order.ID] = order
	}

	if len(matches) > 0 {
		if err := b.checkNotCrossed(); err != nil {
			return matches, err
		}
	}

	return matches, nil
}

// applyModify looks the order up by id, applies the event's price and
// quantity, and re-slots it per the priority policy. Modify never matches.
func (b *Book) applyModify(event *eventreaderv1.OrderEvent) error {
	order, exists := b.orders[event.OrderID]
	if !exists {
		return fmt.Errorf("%w: %s", orderbookv1.ErrUnknownOrder, event.OrderID)
	}
	if event.Price <= 0 {
		return fmt.Errorf("%w: price %v", orderbookv1.ErrInvalidEvent, event.Price)
	}
	if event.Quantity <= 0 {
		return fmt.Errorf("%w: quantity %d", orderbookv1.ErrInvalidEvent, event.Quantity)
	}

	ladder := b.sideLadder(order.Side)
	priceChanged := event.Price != order.Price

	if !priceChanged && !b.config.ModifyQuantityOnlyRepriorities {
		// quantity-only update, queue position preserved
		if err := ladder.UpdateQuantity(order, event.Quantity); err != nil {
			return err
		}
		order.Timestamp = event.Timestamp
		order.Action = orderbookv1.ActionModify
		return nil
	}

	if err := ladder.Remove(order); err != nil {
		return err
	}

	order.Price = event.Price
	order.Quantity = event.Quantity
	order.Timestamp = event.Timestamp
	order.Action = orderbookv1.ActionModify

	if priceChanged && !b.config.ModifyPriceChangeRepriorities {
		return ladder.InsertBySequence(order)
	}
	return ladder.Insert(order)
}

// applyDelete removes the order from ladder and registry.
func (b *Book) applyDelete(event *eventreaderv1.OrderEvent) error {
	order, exists := b.orders[event.OrderID]
	if !exists {
		return fmt.Errorf("%w: %s", orderbookv1.ErrUnknownOrder, event.OrderID)
	}

	if err := b.sideLadder(order.Side).Remove(order); err != nil {
		return err
	}
	order.Action = orderbookv1.ActionDelete
	delete(b.orders, order.ID)

	return nil
}

// match executes an incoming order against the opposite side in price-time
// priority, decrementing both sides and evicting filled resting orders.
func (b *Book) match(incoming *orderbookv1.Order) []orderbookv1.Match {
	opposite := b.asks
	if incoming.IsAsk() {
		opposite = b.bids
	}

	var matches []orderbookv1.Match
	for incoming.Quantity > 0 {
		level := opposite.BestLevel()
		if level == nil || !incoming.Crosses(level.Price) {
			break
		}

		resting := level.Head()
		filled := min(incoming.Quantity, resting.Quantity)

		incoming.Quantity -= filled
		// keep the level aggregate in sync with the resting order
		_ = level.UpdateQuantity(resting.ID, resting.Quantity-filled)

		matches = append(matches, newMatch(incoming, resting, filled, level.Price))

		if resting.Quantity == 0 {
			_ = opposite.Remove(resting)
			delete(b.orders, resting.ID)
		}
	}

	return matches
}

// BestBid returns the best bid price or the no-bids sentinel.
func (b *Book) BestBid() float64 {
	return b.bids.BestPrice()
}

// BestAsk returns the best ask price or the no-asks sentinel.
func (b *Book) BestAsk() float64 {
	return b.asks.BestPrice()
}

// Quote returns the last known best bid/ask pair for the current state.
func (b *Book) Quote() orderbookv1.Quote {
	return orderbookv1.Quote{
		BidPrice: b.bids.BestPrice(),
		AskPrice: b.asks.BestPrice(),
	}
}

// Depth returns up to n levels per side, best-first, zero-padded.
func (b *Book) Depth(n int) (bids, asks []orderbookv1.LevelSummary) {
	return b.bids.Depth(n), b.asks.Depth(n)
}

// OrderCount returns the number of live orders in the registry.
func (b *Book) OrderCount() int {
	return len(b.orders)
}

// GetOrder returns the live order with the given id.
func (b *Book) GetOrder(orderID string) (*orderbookv1.Order, error) {
	order, exists := b.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", orderbookv1.ErrUnknownOrder, orderID)
	}
	return order, nil
}

// Bids returns the bid ladder.
func (b *Book) Bids() *orderbookv1.Ladder {
	return b.bids
}

// Asks returns the ask ladder.
func (b *Book) Asks() *orderbookv1.Ladder {
	return b.asks
}

// checkNotCrossed verifies the at-rest invariant: best bid strictly below
// best ask whenever both sides are populated.
func (b *Book) checkNotCrossed() error {
	if b.bids.IsEmpty() || b.asks.IsEmpty() {
		return nil
	}
	if b.bids.BestPrice() >= b.asks.BestPrice() {
		return fmt.Errorf("%w: best bid %v >= best ask %v",
			orderbookv1.ErrCrossedBook, b.bids.BestPrice(), b.asks.BestPrice())
	}
	return nil
}

func (b *Book) sideLadder(side orderbookv1.Side) *orderbookv1.Ladder {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

func newMatch(incoming, resting *orderbookv1.Order, filled int64, price float64) orderbookv1.Match {
	bid, ask := incoming, resting
	if incoming.IsAsk() {
		bid, ask = resting, incoming
	}
	return orderbookv1.Match{
		Ask:            ask,
		Bid:            bid,
		QuantityFilled: filled,
		Price:          price,
	}
}

func parseAction(code string) (orderbookv1.Action, error) {
	switch code {
	case "a", "add":
		return orderbookv1.ActionAdd, nil
	case "m", "modify":
		return orderbookv1.ActionModify, nil
	case "d", "delete":
		return orderbookv1.ActionDelete, nil
	default:
		return "", fmt.Errorf("%w: unrecognized action %q", orderbookv1.ErrInvalidEvent, code)
	}
}

func parseSide(code string) (orderbookv1.Side, error) {
	switch code {
	case "b", "buy":
		return orderbookv1.SideBuy, nil
	case "a", "s", "sell":
		return orderbookv1.SideSell, nil
	default:
		return "", fmt.Errorf("%w: unrecognized side %q", orderbookv1.ErrInvalidEvent, code)
	}
}

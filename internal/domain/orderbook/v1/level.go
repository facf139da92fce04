package orderbookv1

import (
	"container/list"
	"fmt"
)

// Level represents a price level in the book: a FIFO queue of the orders
// resting at one exact price on one side. An orderID index keeps removal
// and in-place updates O(1) regardless of queue depth.
//
// A Level is owned by exactly one Ladder and is never shared across
// goroutines; the book has a single writer.
type Level struct {
	Price         float64
	TotalQuantity int64

	orders *list.List               // FIFO of *Order
	index  map[string]*list.Element // orderID -> queue position
}

// NewLevel creates a new empty Level at the specified price.
func NewLevel(price float64) *Level {
	return &Level{
		Price:  price,
		orders: list.New(),
		index:  make(map[string]*list.Element),
	}
}

// Append adds an order to the tail of the level, behind all earlier arrivals.
func (l *Level) Append(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Quantity)
	}
	if _, exists := l.index[order.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, order.ID)
	}

	elem := l.orders.PushBack(order)
	l.index[order.ID] = elem
	l.TotalQuantity += order.Quantity
	order.Level = l

	return nil
}

// InsertBySequence adds an order in arrival-sequence position instead of at
// the tail, so an order re-slotted by a modify keeps its original time
// priority among the level's resting orders.
func (l *Level) InsertBySequence(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, order.Quantity)
	}
	if _, exists := l.index[order.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, order.ID)
	}

	var elem *list.Element
	for e := l.orders.Front(); e != nil; e = e.Next() {
		if e.Value.(*Order).Sequence > order.Sequence {
			elem = l.orders.InsertBefore(order, e)
			break
		}
	}
	if elem == nil {
		elem = l.orders.PushBack(order)
	}

	l.index[order.ID] = elem
	l.TotalQuantity += order.Quantity
	order.Level = l

	return nil
}

// Remove removes the order with the given id from the level and returns it.
func (l *Level) Remove(orderID string) (*Order, error) {
	elem, exists := l.index[orderID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	order := elem.Value.(*Order)
	l.orders.Remove(elem)
	delete(l.index, orderID)
	l.TotalQuantity -= order.Quantity
	order.Level = nil

	return order, nil
}

// UpdateQuantity sets the quantity of a resting order in place, keeping the
// level aggregate consistent. Queue position is preserved.
func (l *Level) UpdateQuantity(orderID string, quantity int64) error {
	elem, exists := l.index[orderID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	order := elem.Value.(*Order)
	l.TotalQuantity += quantity - order.Quantity
	order.Quantity = quantity

	return nil
}

// Head returns the order with the highest time priority at this level,
// or nil if the level is empty.
func (l *Level) Head() *Order {
	front := l.orders.Front()
	if front == nil {
		return nil
	}
	return front.Value.(*Order)
}

// Orders returns the level's orders in time priority order.
func (l *Level) Orders() []*Order {
	orders := make([]*Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*Order))
	}
	return orders
}

// OrderCount returns the number of orders at this level.
func (l *Level) OrderCount() int {
	return l.orders.Len()
}

// IsEmpty checks if the level has no orders.
func (l *Level) IsEmpty() bool {
	return l.orders.Len() == 0
}

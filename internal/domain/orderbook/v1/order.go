package orderbookv1

// Side represents which side of the book an order rests on.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Action represents the event type that produced an order's current state.
type Action string

const (
	// ActionAdd represents an order add event.
	ActionAdd Action = "add"
	// ActionModify represents an order modify event.
	ActionModify Action = "modify"
	// ActionDelete represents an order delete event.
	ActionDelete Action = "delete"
)

// Order represents a single live order in the book. Identity is immutable,
// economic attributes are mutated in place by the book so the ladder never
// holds a second copy of truth.
type Order struct {
	ID        string  `json:"id"`
	Side      Side    `json:"side"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	Timestamp int64   `json:"timestamp"`
	Action    Action  `json:"action"` // informational, last event applied
	Sequence  int64   `json:"sequence"` // arrival order, assigned by the book
	Level     *Level  `json:"-"`        // level currently holding the order
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id string, side Side, price float64, quantity int64, timestamp int64) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
		Action:    ActionAdd,
	}
}

// IsBid checks if the order is a bid (buy) order.
func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// IsAsk checks if the order is an ask (sell) order.
func (o *Order) IsAsk() bool {
	return o.Side == SideSell
}

// IsFilled checks if the order is filled (quantity is zero).
func (o *Order) IsFilled() bool {
	return o.Quantity == 0
}

// Crosses reports whether the order is marketable against the given
// opposite-side price.
func (o *Order) Crosses(oppositePrice float64) bool {
	if o.IsBid() {
		return o.Price >= oppositePrice
	}
	return o.Price <= oppositePrice
}

package orderbookv1

// Match represents an execution between an incoming order and a resting
// order, at the resting level's price.
type Match struct {
	Ask            *Order  `json:"ask"`
	Bid            *Order  `json:"bid"`
	QuantityFilled int64   `json:"quantityFilled"`
	Price          float64 `json:"price"`
}

// AskIsFilled checks if the ask order is filled.
func (m *Match) AskIsFilled() bool {
	return m.Ask.Quantity <= 0
}

// BidIsFilled checks if the bid order is filled.
func (m *Match) BidIsFilled() bool {
	return m.Bid.Quantity <= 0
}

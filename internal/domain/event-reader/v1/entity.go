package eventreaderv1

import "encoding/json"

// OrderEvent is one record of the order event feed. Action and side are
// carried as raw feed codes; the book owns the authoritative parsing so a
// malformed event is rejected in one place.
//
// Feed codes: action "a"/"add", "m"/"modify", "d"/"delete";
// side "b"/"buy", "a"/"s"/"sell".
type OrderEvent struct {
	Timestamp int64   `json:"timestamp"`
	OrderID   string  `json:"orderID"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Side      string  `json:"side"`
	Quantity  int64   `json:"quantity"`
	Offset    int64   `json:"offset"` // position in the source feed
}

// FromBytes decodes an order event from its JSON wire form.
func FromBytes(data []byte) (*OrderEvent, error) {
	var event OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

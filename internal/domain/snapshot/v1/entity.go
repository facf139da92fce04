package snapshotv1

import "encoding/json"

// NoLevelPrice is the price recorded for depth slots with no populated
// level. The paired quantity is always 0.
const NoLevelPrice float64 = 0

// Row is one materialized fixed-depth view of the book, emitted after
// processing one event. Rows are append-only; once emitted they are never
// mutated.
type Row struct {
	Timestamp int64   `json:"timestamp"`
	OrderID   string  `json:"orderID"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Side      string  `json:"side"`
	Quantity  int64   `json:"quantity"`

	// Depth arrays, ordered best to worst, zero-padded to the configured
	// depth when fewer levels are populated.
	BidPrices     []float64 `json:"bidPrices"`
	BidQuantities []int64   `json:"bidQuantities"`
	AskPrices     []float64 `json:"askPrices"`
	AskQuantities []int64   `json:"askQuantities"`
}

// ToBytes serializes a row to its JSON wire form.
func ToBytes(row *Row) []byte {
	data, _ := json.Marshal(row)
	return data
}

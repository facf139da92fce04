package orderbookv1

import (
	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
)

// Quote is the last known best bid/ask pair, carrying the empty-side
// sentinels when a side holds no orders.
type Quote struct {
	BidPrice float64 `json:"bidPrice"`
	AskPrice float64 `json:"askPrice"`
}

// OrderBook is the contract the engine and the snapshot builder consume.
type OrderBook interface {
	// ProcessEvent applies one add/modify/delete event atomically and returns
	// any matches produced by a marketable add. On error the book state is
	// untouched, except ErrCrossedBook which signals corrupted state and must
	// be treated as fatal.
	ProcessEvent(event *eventreaderv1.OrderEvent) ([]Match, error)

	// BestBid returns the best bid price or NoBidPrice.
	BestBid() float64
	// BestAsk returns the best ask price or NoAskPrice.
	BestAsk() float64
	// Quote returns the current best bid/ask pair.
	Quote() Quote
	// Depth returns up to n levels per side, best-first, zero-padded.
	Depth(n int) (bids, asks []LevelSummary)
	// OrderCount returns the number of live orders in the registry.
	OrderCount() int
}

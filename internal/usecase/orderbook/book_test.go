package orderbook

import (
	"math"
	"math/rand"
	"testing"

	eventreaderv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/event-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/exchange/services/book-reconstructor/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(ts int64, id, action string, price float64, side string, qty int64) *eventreaderv1.OrderEvent {
	return &eventreaderv1.OrderEvent{
		Timestamp: ts,
		OrderID:   id,
		Action:    action,
		Price:     price,
		Side:      side,
		Quantity:  qty,
	}
}

func newTestBook() *Book {
	return NewBook(Config{
		ModifyPriceChangeRepriorities: true,
	})
}

func newMatchingBook() *Book {
	return NewBook(Config{
		MatchingEnabled:               true,
		ModifyPriceChangeRepriorities: true,
	})
}

func TestBook_AddBothSides_NoMatching(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 105, "s", 5))
	require.NoError(t, err)

	assert.Equal(t, 100.0, book.BestBid())
	assert.Equal(t, 105.0, book.BestAsk())

	bids, asks := book.Depth(1)
	assert.Equal(t, []orderbookv1.LevelSummary{{Price: 100, Quantity: 10}}, bids)
	assert.Equal(t, []orderbookv1.LevelSummary{{Price: 105, Quantity: 5}}, asks)
}

func TestBook_MatchingDisabled_CrossingOrderRests(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "s", 5))
	require.NoError(t, err)
	matches, err := book.ProcessEvent(event(2, "2", "a", 101, "b", 5))
	require.NoError(t, err)

	// without matching the book may rest crossed, no executions happen
	assert.Empty(t, matches)
	assert.Equal(t, 2, book.OrderCount())
	assert.Equal(t, 101.0, book.BestBid())
	assert.Equal(t, 100.0, book.BestAsk())
}

func TestBook_DeleteReturnsEmptySide(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "1", "d", 100, "b", 10))
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.NoBidPrice, book.BestBid())
	assert.True(t, book.Bids().IsEmpty())
	assert.Equal(t, 0, book.OrderCount())
}

func TestBook_DuplicateAddRejected(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "1", "a", 101, "b", 5))
	assert.ErrorIs(t, err, orderbookv1.ErrDuplicateID)

	// prior state untouched
	assert.Equal(t, 100.0, book.BestBid())
	assert.Equal(t, 1, book.OrderCount())
}

func TestBook_ModifyDeleteUnknownOrderRejected(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "ghost", "m", 100, "b", 10))
	assert.ErrorIs(t, err, orderbookv1.ErrUnknownOrder)

	_, err = book.ProcessEvent(event(2, "ghost", "d", 100, "b", 10))
	assert.ErrorIs(t, err, orderbookv1.ErrUnknownOrder)
}

func TestBook_InvalidEventsRejected(t *testing.T) {
	book := newTestBook()

	cases := []struct {
		name string
		ev   *eventreaderv1.OrderEvent
	}{
		{"unrecognized action", event(1, "1", "x", 100, "b", 10)},
		{"unrecognized side", event(1, "1", "a", 100, "z", 10)},
		{"empty order id", event(1, "", "a", 100, "b", 10)},
		{"zero quantity", event(1, "1", "a", 100, "b", 0)},
		{"negative quantity", event(1, "1", "a", 100, "b", -5)},
		{"non-positive price", event(1, "1", "a", 0, "b", 10)},
		{"nil event", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := book.ProcessEvent(tc.ev)
			assert.ErrorIs(t, err, orderbookv1.ErrInvalidEvent)
			assert.Equal(t, 0, book.OrderCount())
		})
	}
}

func TestBook_FeedActionAndSideCodes(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "add", 100, "buy", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "add", 105, "sell", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(3, "1", "modify", 100, "buy", 7))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(4, "2", "delete", 105, "sell", 5))
	require.NoError(t, err)

	assert.Equal(t, int64(7), book.Bids().LevelQuantity(100))
	assert.True(t, book.Asks().IsEmpty())
}

func TestBook_ModifyPriceChangeMovesToTail(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 101, "b", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(3, "3", "a", 101, "b", 7))
	require.NoError(t, err)

	// order 1 moves up to 101 and queues behind 2 and 3
	_, err = book.ProcessEvent(event(4, "1", "m", 101, "b", 10))
	require.NoError(t, err)

	level := book.Bids().BestLevel()
	require.NotNil(t, level)
	orders := level.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "2", orders[0].ID)
	assert.Equal(t, "3", orders[1].ID)
	assert.Equal(t, "1", orders[2].ID)
	assert.Equal(t, int64(22), level.TotalQuantity)
}

func TestBook_ModifyPriceChangeKeepsArrivalPriority(t *testing.T) {
	book := NewBook(Config{ModifyPriceChangeRepriorities: false})

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 101, "b", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(3, "3", "a", 101, "b", 7))
	require.NoError(t, err)

	// order 1 arrived first, so it re-slots at the head of 101
	_, err = book.ProcessEvent(event(4, "1", "m", 101, "b", 10))
	require.NoError(t, err)

	orders := book.Bids().BestLevel().Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, "2", orders[1].ID)
	assert.Equal(t, "3", orders[2].ID)
}

func TestBook_ModifyQuantityOnlyKeepsPosition(t *testing.T) {
	book := newTestBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 100, "b", 5))
	require.NoError(t, err)

	_, err = book.ProcessEvent(event(3, "1", "m", 100, "b", 20))
	require.NoError(t, err)

	orders := book.Bids().BestLevel().Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, int64(20), orders[0].Quantity)
	assert.Equal(t, int64(25), book.Bids().LevelQuantity(100))
}

func TestBook_ModifyQuantityOnlyRepriorities(t *testing.T) {
	book := NewBook(Config{
		ModifyPriceChangeRepriorities:  true,
		ModifyQuantityOnlyRepriorities: true,
	})

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 100, "b", 5))
	require.NoError(t, err)

	_, err = book.ProcessEvent(event(3, "1", "m", 100, "b", 20))
	require.NoError(t, err)

	orders := book.Bids().BestLevel().Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "2", orders[0].ID)
	assert.Equal(t, "1", orders[1].ID)
}

func TestBook_ModifyNeverMatches(t *testing.T) {
	book := newMatchingBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 105, "s", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "2", "a", 100, "b", 10))
	require.NoError(t, err)

	// reprice the bid through the ask: rests crossed rather than executing
	matches, err := book.ProcessEvent(event(3, "2", "m", 106, "b", 10))
	require.NoError(t, err)

	assert.Empty(t, matches)
	assert.Equal(t, 2, book.OrderCount())
	assert.Equal(t, 106.0, book.BestBid())
}

func TestBook_MatchingPartialFillRemainderRests(t *testing.T) {
	book := newMatchingBook()

	// resting sell 5 @ 100; incoming buy 8 @ 100
	_, err := book.ProcessEvent(event(1, "1", "a", 100, "s", 5))
	require.NoError(t, err)
	matches, err := book.ProcessEvent(event(2, "2", "a", 100, "b", 8))
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(5), matches[0].QuantityFilled)
	assert.Equal(t, 100.0, matches[0].Price)
	assert.Equal(t, "1", matches[0].Ask.ID)
	assert.Equal(t, "2", matches[0].Bid.ID)

	// seller is gone, remainder of 3 rests on the bid side
	assert.True(t, book.Asks().IsEmpty())
	assert.Equal(t, 100.0, book.BestBid())
	assert.Equal(t, int64(3), book.Bids().LevelQuantity(100))
	assert.Equal(t, 1, book.OrderCount())
}

func TestBook_MatchingFullFillNothingRests(t *testing.T) {
	book := newMatchingBook()

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "s", 10))
	require.NoError(t, err)
	matches, err := book.ProcessEvent(event(2, "2", "a", 100, "b", 10))
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(10), matches[0].QuantityFilled)
	assert.Equal(t, 0, book.OrderCount())
	assert.True(t, book.Bids().IsEmpty())
	assert.True(t, book.Asks().IsEmpty())
}

func TestBook_MatchingWalksLevelsInPriceTimePriority(t *testing.T) {
	book := newMatchingBook()

	_, err := book.ProcessEvent(event(1, "s1", "a", 100, "s", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "s2", "a", 100, "s", 3))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(3, "s3", "a", 101, "s", 7))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(4, "s4", "a", 102, "s", 4))
	require.NoError(t, err)

	// buy 12 @ 101 sweeps both 100 orders then part of 101; 102 untouched
	matches, err := book.ProcessEvent(event(5, "b1", "a", 101, "b", 12))
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, "s1", matches[0].Ask.ID)
	assert.Equal(t, int64(5), matches[0].QuantityFilled)
	assert.Equal(t, "s2", matches[1].Ask.ID)
	assert.Equal(t, int64(3), matches[1].QuantityFilled)
	assert.Equal(t, "s3", matches[2].Ask.ID)
	assert.Equal(t, int64(4), matches[2].QuantityFilled)

	// incoming fully filled, nothing rests on the bid side
	assert.True(t, book.Bids().IsEmpty())
	assert.Equal(t, 101.0, book.BestAsk())
	assert.Equal(t, int64(3), book.Asks().LevelQuantity(101))
	assert.Equal(t, int64(4), book.Asks().LevelQuantity(102))
}

func TestBook_MatchingStopsAtNonMarketableLevel(t *testing.T) {
	book := newMatchingBook()

	_, err := book.ProcessEvent(event(1, "s1", "a", 100, "s", 5))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "s2", "a", 103, "s", 5))
	require.NoError(t, err)

	// buy 10 @ 101 fills 5 at 100, remainder rests at 101
	matches, err := book.ProcessEvent(event(3, "b1", "a", 101, "b", 10))
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, 101.0, book.BestBid())
	assert.Equal(t, int64(5), book.Bids().LevelQuantity(101))
	assert.Equal(t, 103.0, book.BestAsk())
}

func TestBook_MatchingSellIntoBids(t *testing.T) {
	book := newMatchingBook()

	_, err := book.ProcessEvent(event(1, "b1", "a", 101, "b", 4))
	require.NoError(t, err)
	_, err = book.ProcessEvent(event(2, "b2", "a", 100, "b", 6))
	require.NoError(t, err)

	matches, err := book.ProcessEvent(event(3, "s1", "a", 100, "s", 8))
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "b1", matches[0].Bid.ID)
	assert.Equal(t, 101.0, matches[0].Price)
	assert.Equal(t, int64(4), matches[0].QuantityFilled)
	assert.Equal(t, "b2", matches[1].Bid.ID)
	assert.Equal(t, 100.0, matches[1].Price)
	assert.Equal(t, int64(4), matches[1].QuantityFilled)

	assert.Equal(t, int64(2), book.Bids().LevelQuantity(100))
	assert.True(t, book.Asks().IsEmpty())
}

func TestBook_QuantityConservationDuringMatching(t *testing.T) {
	book := newMatchingBook()

	restingQty := int64(0)
	for i, qty := range []int64{5, 3, 7, 2} {
		price := 100.0 + float64(i%2)
		_, err := book.ProcessEvent(event(int64(i), string(rune('a'+i)), "a", price, "s", qty))
		require.NoError(t, err)
		restingQty += qty
	}

	incoming := int64(11)
	matches, err := book.ProcessEvent(event(10, "buyer", "a", 101, "b", incoming))
	require.NoError(t, err)

	var filled int64
	for _, m := range matches {
		filled += m.QuantityFilled
	}

	remaining := int64(0)
	if order, err := book.GetOrder("buyer"); err == nil {
		remaining = order.Quantity
	}
	assert.Equal(t, incoming-remaining, filled)

	// resting side shrank by exactly the filled quantity
	var askQty int64
	for _, lvl := range book.Asks().Depth(10) {
		askQty += lvl.Quantity
	}
	assert.Equal(t, restingQty-filled, askQty)
}

func TestBook_NeverCrossedAfterMatching(t *testing.T) {
	book := newMatchingBook()
	rng := rand.New(rand.NewSource(7))

	id := 0
	for i := 0; i < 500; i++ {
		id++
		side := "b"
		if rng.Intn(2) == 0 {
			side = "s"
		}
		price := 95 + float64(rng.Intn(10))
		qty := int64(rng.Intn(20) + 1)

		_, err := book.ProcessEvent(event(int64(i), string(rune(id)), "a", price, side, qty))
		require.NoError(t, err)

		if !book.Bids().IsEmpty() && !book.Asks().IsEmpty() {
			assert.Less(t, book.BestBid(), book.BestAsk())
		}
	}
}

func TestBook_TopOfBookMatchesResting(t *testing.T) {
	book := newTestBook()

	maxBid := 0.0
	minAsk := math.Inf(1)
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		price := 90 + float64(rng.Intn(20))
		if i%2 == 0 {
			_, err := book.ProcessEvent(event(int64(i), string(rune(1000+i)), "a", price, "b", 1))
			require.NoError(t, err)
			maxBid = math.Max(maxBid, price)
			assert.Equal(t, maxBid, book.BestBid())
		} else {
			_, err := book.ProcessEvent(event(int64(i), string(rune(1000+i)), "a", price, "s", 1))
			require.NoError(t, err)
			minAsk = math.Min(minAsk, price)
			assert.Equal(t, minAsk, book.BestAsk())
		}
	}
}

func TestBook_RoundTripDeletesEmptyTheBook(t *testing.T) {
	book := newTestBook()
	rng := rand.New(rand.NewSource(3))

	ids := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		id := string(rune(2000 + i))
		side := "b"
		if i%3 == 0 {
			side = "s"
		}
		_, err := book.ProcessEvent(event(int64(i), id, "a", 90+float64(rng.Intn(30)), side, int64(rng.Intn(50)+1)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// delete in random order
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	for i, id := range ids {
		_, err := book.ProcessEvent(event(int64(100+i), id, "d", 0, "b", 0))
		require.NoError(t, err)
	}

	assert.Equal(t, 0, book.OrderCount())
	assert.True(t, book.Bids().IsEmpty())
	assert.True(t, book.Asks().IsEmpty())
	assert.Equal(t, orderbookv1.NoBidPrice, book.BestBid())
	assert.True(t, math.IsInf(book.BestAsk(), 1))
}

func TestBook_QuoteCarriesSentinels(t *testing.T) {
	book := newTestBook()

	quote := book.Quote()
	assert.Equal(t, orderbookv1.NoBidPrice, quote.BidPrice)
	assert.True(t, math.IsInf(quote.AskPrice, 1))

	_, err := book.ProcessEvent(event(1, "1", "a", 100, "b", 10))
	require.NoError(t, err)

	quote = book.Quote()
	assert.Equal(t, 100.0, quote.BidPrice)
}

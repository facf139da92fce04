package orderbookv1

import (
	"fmt"
	"math"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// NoBidPrice is the best-bid value reported while the bid side is empty.
const NoBidPrice float64 = 0

// NoAskPrice is the best-ask value reported while the ask side is empty.
var NoAskPrice = math.Inf(1)

// LevelSummary is one (price, aggregated quantity) pair of a depth view.
type LevelSummary struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

// Ladder is one side of the book: price levels held in a red-black tree
// whose comparator is oriented so the leftmost node is always the best
// level (highest price for bids, lowest for asks). Best-price access is
// O(log n), level lookup O(log n), and depth(n) walks the tree in price
// priority order.
type Ladder struct {
	side Side
	tree *rbt.Tree[float64, *Level]
}

// NewLadder creates an empty ladder for the given side.
func NewLadder(side Side) *Ladder {
	var comparator func(a, b float64) int
	if side == SideBuy {
		// Bids iterate high to low
		comparator = func(a, b float64) int {
			if a > b {
				return -1
			} else if a < b {
				return 1
			}
			return 0
		}
	} else {
		// Asks iterate low to high
		comparator = func(a, b float64) int {
			if a < b {
				return -1
			} else if a > b {
				return 1
			}
			return 0
		}
	}

	return &Ladder{
		side: side,
		tree: rbt.NewWith[float64, *Level](comparator),
	}
}

// Side returns the side this ladder holds.
func (ld *Ladder) Side() Side {
	return ld.side
}

// Insert appends an order to the tail of its price's queue, creating the
// level lazily on first use.
func (ld *Ladder) Insert(order *Order) error {
	level, err := ld.levelFor(order)
	if err != nil {
		return err
	}
	if err := level.Append(order); err != nil {
		ld.dropIfEmpty(level)
		return err
	}
	return nil
}

// InsertBySequence adds an order at its arrival-sequence position within the
// price's queue instead of the tail. Used by modifies that keep priority.
func (ld *Ladder) InsertBySequence(order *Order) error {
	level, err := ld.levelFor(order)
	if err != nil {
		return err
	}
	if err := level.InsertBySequence(order); err != nil {
		ld.dropIfEmpty(level)
		return err
	}
	return nil
}

// Remove takes an order out of its level, destroying the level the moment
// its queue becomes empty.
func (ld *Ladder) Remove(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	level, found := ld.tree.Get(order.Price)
	if !found {
		return fmt.Errorf("%w: no level at price %v", ErrOrderNotFound, order.Price)
	}

	if _, err := level.Remove(order.ID); err != nil {
		return err
	}

	ld.dropIfEmpty(level)
	return nil
}

// UpdateQuantity updates a resting order's quantity in place, preserving its
// queue position.
func (ld *Ladder) UpdateQuantity(order *Order, quantity int64) error {
	if order == nil {
		return ErrNilOrder
	}

	level, found := ld.tree.Get(order.Price)
	if !found {
		return fmt.Errorf("%w: no level at price %v", ErrOrderNotFound, order.Price)
	}

	return level.UpdateQuantity(order.ID, quantity)
}

// BestPrice returns the best resting price, or the side's empty sentinel:
// 0 for bids, +Inf for asks.
func (ld *Ladder) BestPrice() float64 {
	node := ld.tree.Left()
	if node == nil {
		if ld.side == SideBuy {
			return NoBidPrice
		}
		return NoAskPrice
	}
	return node.Key
}

// BestLevel returns the best price level, or nil when the side is empty.
func (ld *Ladder) BestLevel() *Level {
	node := ld.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value
}

// LevelQuantity returns the aggregated live quantity at the given price,
// or 0 if the level does not exist.
func (ld *Ladder) LevelQuantity(price float64) int64 {
	level, found := ld.tree.Get(price)
	if !found {
		return 0
	}
	return level.TotalQuantity
}

// Depth returns up to n (price, aggregated quantity) pairs best-first,
// padding with zero-valued summaries when fewer than n levels exist.
func (ld *Ladder) Depth(n int) []LevelSummary {
	depth := make([]LevelSummary, n)

	it := ld.tree.Iterator()
	for i := 0; i < n && it.Next(); i++ {
		level := it.Value()
		depth[i] = LevelSummary{
			Price:    level.Price,
			Quantity: level.TotalQuantity,
		}
	}

	return depth
}

// IsEmpty returns true if the ladder has no levels.
func (ld *Ladder) IsEmpty() bool {
	return ld.tree.Empty()
}

// Len returns the number of populated price levels.
func (ld *Ladder) Len() int {
	return ld.tree.Size()
}

func (ld *Ladder) levelFor(order *Order) (*Level, error) {
	if order == nil {
		return nil, ErrNilOrder
	}
	if order.Price <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPrice, order.Price)
	}

	level, found := ld.tree.Get(order.Price)
	if !found {
		level = NewLevel(order.Price)
		ld.tree.Put(order.Price, level)
	}
	return level, nil
}

func (ld *Ladder) dropIfEmpty(level *Level) {
	if level.IsEmpty() {
		ld.tree.Remove(level.Price)
	}
}

package clob

import (
	"context"

	"github.com/shopspring/decimal"
)

// GuardedBook wraps a Book with an RWLock so many readers or one writer can
// use it concurrently. The guard is a policy layered over the index, not a
// property of it: the same Book type serves single-threaded callers
// directly.
//
// Read operations hold the read grant for their whole computation and
// return copies, never references into book-owned structures, so results
// stay valid after the grant is released. Orders reachable from the book
// are mutated only by whoever holds the write grant.
type GuardedBook struct {
	lock *RWLock
	book *Book
}

// NewGuardedBook creates an empty lock-protected order book.
func NewGuardedBook() *GuardedBook {
	return &GuardedBook{
		lock: NewRWLock(),
		book: NewBook(),
	}
}

// Add inserts a resting order under the write grant. Returns ErrTimeout if
// ctx expires before the grant is obtained, or ErrDuplicateOrder if the ID
// is already indexed.
func (g *GuardedBook) Add(ctx context.Context, order *Order) error {
	if err := g.lock.LockContext(ctx); err != nil {
		return err
	}
	defer g.lock.Unlock()

	return g.book.Add(order)
}

// Remove cancels an order by ID under the write grant and returns it.
// An unknown ID is not an error: the result is (nil, nil).
func (g *GuardedBook) Remove(ctx context.Context, id string) (*Order, error) {
	if err := g.lock.LockContext(ctx); err != nil {
		return nil, err
	}
	defer g.lock.Unlock()

	order, ok := g.book.Remove(id)
	if !ok {
		return nil, nil
	}
	return order, nil
}

// BestBid returns a copy of the best bid, or nil if no bids rest.
func (g *GuardedBook) BestBid() *Order {
	g.lock.RLock()
	defer g.lock.RUnlock()

	bid := g.book.BestBid()
	if bid == nil {
		return nil
	}
	return bid.Clone()
}

// BestAsk returns a copy of the best ask, or nil if no asks rest.
func (g *GuardedBook) BestAsk() *Order {
	g.lock.RLock()
	defer g.lock.RUnlock()

	ask := g.book.BestAsk()
	if ask == nil {
		return nil
	}
	return ask.Clone()
}

// BestBidPrice returns the highest bid price. ok is false if no bids rest.
func (g *GuardedBook) BestBidPrice() (decimal.Decimal, bool) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.BestBidPrice()
}

// BestAskPrice returns the lowest ask price. ok is false if no asks rest.
func (g *GuardedBook) BestAskPrice() (decimal.Decimal, bool) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.BestAskPrice()
}

// Spread returns best ask minus best bid. ok is false unless both sides
// are non-empty.
func (g *GuardedBook) Spread() (decimal.Decimal, bool) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.Spread()
}

// Depth returns up to levels aggregated price levels per side, best first.
// The whole aggregation runs under one read grant, so the two sides are a
// consistent view of a single book state.
func (g *GuardedBook) Depth(levels int) (bids, asks []PriceLevel) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.Depth(levels)
}

// Get returns a copy of the order with the given ID, or nil if absent.
func (g *GuardedBook) Get(id string) *Order {
	g.lock.RLock()
	defer g.lock.RUnlock()

	order := g.book.Get(id)
	if order == nil {
		return nil
	}
	return order.Clone()
}

// Bids returns independent copies of all resting bids in priority order.
func (g *GuardedBook) Bids() []*Order {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.Bids()
}

// Asks returns independent copies of all resting asks in priority order.
func (g *GuardedBook) Asks() []*Order {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.Asks()
}

// Len returns the total number of resting orders.
func (g *GuardedBook) Len() int {
	g.lock.RLock()
	defer g.lock.RUnlock()

	return g.book.Len()
}

// Reset clears all book state in place. Callers keep using the same
// GuardedBook afterwards; the book object is never swapped out from under
// concurrent readers.
func (g *GuardedBook) Reset() {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.book.Reset()
}

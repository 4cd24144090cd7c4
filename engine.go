package clob

import (
	"context"
	"fmt"
)

// Engine matches incoming orders against a guarded book under price-time
// priority. The engine itself is stateless; all state lives in the book.
type Engine struct {
	book *GuardedBook
}

// NewEngine creates a matching engine over the given book.
func NewEngine(book *GuardedBook) *Engine {
	return &Engine{book: book}
}

// Book returns the book this engine matches against.
func (e *Engine) Book() *GuardedBook {
	return e.book
}

// Process matches one incoming order against the book and returns the
// trades generated, oldest match first.
//
// The write grant is held for the entire matching transaction: best-quote
// lookup, crossing test, fills, removals and residual insertion all happen
// under one exclusive section. Two concurrent Process calls can therefore
// never consume the same resting quantity or observe a half-updated book.
//
// A limit residual is inserted into the book; a market residual is
// discarded, since market orders never rest. Returns ErrTimeout if ctx
// expires before the write grant is obtained; the book is untouched.
func (e *Engine) Process(ctx context.Context, order *Order) ([]*Trade, error) {
	if err := e.book.lock.LockContext(ctx); err != nil {
		return nil, err
	}
	defer e.book.lock.Unlock()

	book := e.book.book
	trades := make([]*Trade, 0, 4)

	for !order.IsFilled() {
		// No more liquidity on the opposite side ends the loop.
		resting := book.sideFor(order.Side.opposite()).best()
		if resting == nil {
			break
		}

		// Limit orders only match while the prices cross; market orders
		// take whatever the book offers.
		if order.Type == Limit {
			if order.Side == Buy && order.Price.LessThan(resting.Price) ||
				order.Side == Sell && order.Price.GreaterThan(resting.Price) {
				break
			}
		}

		qty := order.Remaining
		if resting.Remaining < qty {
			qty = resting.Remaining
		}

		// The trade executes at the resting order's price, so the
		// aggressor always gets price improvement, never worse than its
		// own limit.
		trade := newTrade(order, resting, resting.Price, qty)

		// qty is min-bounded above; a failed fill means the book or the
		// loop is corrupt and there is nothing sane to recover to.
		if err := order.Fill(qty); err != nil {
			panic(fmt.Sprintf("clob: taker %s: %v", order.ID, err))
		}
		if err := resting.Fill(qty); err != nil {
			panic(fmt.Sprintf("clob: maker %s: %v", resting.ID, err))
		}

		trades = append(trades, trade)

		if resting.IsFilled() {
			book.removeFilledHead(resting)
		}
	}

	if order.Type == Limit && !order.IsFilled() {
		if err := book.Add(order); err != nil {
			return trades, err
		}
	}

	return trades, nil
}

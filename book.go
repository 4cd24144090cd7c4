package clob

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// PriceLevel is one aggregated row of book depth: a price and the sum of
// remaining quantities of all orders resting at that price.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// priceLevel holds the FIFO queue of resting orders at one price.
// Orders are linked through their intrusive next/prev pointers; head is the
// oldest order and therefore the first to match.
type priceLevel struct {
	price decimal.Decimal
	head  *Order
	tail  *Order
	count int
}

// bookSide stores one side's price levels in a skip list ordered so the
// best price is at the front: descending for bids, ascending for asks.
type bookSide struct {
	side   Side
	levels *skiplist.SkipList
}

// newBidSide creates the bid side. The best (highest) price sorts first.
func newBidSide() *bookSide {
	return &bookSide{
		side: Buy,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.LessThan(d2) {
				return 1
			} else if d1.GreaterThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// newAskSide creates the ask side. The best (lowest) price sorts first.
func newAskSide() *bookSide {
	return &bookSide{
		side: Sell,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.GreaterThan(d2) {
				return 1
			} else if d1.LessThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// insert appends the order to the tail of its price's FIFO queue, creating
// the level if this is the first order at that price.
func (s *bookSide) insert(order *Order) {
	el := s.levels.Get(order.Price)
	if el != nil {
		lvl, _ := el.Value.(*priceLevel)
		order.prev = lvl.tail
		order.next = nil
		lvl.tail.next = order
		lvl.tail = order
		lvl.count++
		return
	}

	order.next = nil
	order.prev = nil
	s.levels.Set(order.Price, &priceLevel{
		price: order.Price,
		head:  order,
		tail:  order,
		count: 1,
	})
}

// remove unlinks the order from its price level and deletes the level if it
// becomes empty. A level never rests empty in the skip list.
func (s *bookSide) remove(order *Order) {
	el := s.levels.Get(order.Price)
	if el == nil {
		return
	}
	lvl, _ := el.Value.(*priceLevel)

	if order.prev != nil {
		order.prev.next = order.next
	} else {
		lvl.head = order.next
	}

	if order.next != nil {
		order.next.prev = order.prev
	} else {
		lvl.tail = order.prev
	}

	order.next = nil
	order.prev = nil
	lvl.count--

	if lvl.count == 0 {
		s.levels.RemoveElement(el)
	}
}

// best returns the head order of the best-priced level, or nil if the side
// is empty.
func (s *bookSide) best() *Order {
	el := s.levels.Front()
	if el == nil {
		return nil
	}

	lvl, _ := el.Value.(*priceLevel)
	return lvl.head
}

// removeHead pops the given order off the front of the best level, but only
// if it is identity-equal to the current head. Returns false otherwise.
func (s *bookSide) removeHead(order *Order) bool {
	el := s.levels.Front()
	if el == nil {
		return false
	}

	lvl, _ := el.Value.(*priceLevel)
	if lvl.head != order {
		return false
	}

	lvl.head = order.next
	if lvl.head != nil {
		lvl.head.prev = nil
	} else {
		lvl.tail = nil
	}
	order.next = nil
	order.prev = nil
	lvl.count--

	if lvl.count == 0 {
		s.levels.RemoveElement(el)
	}
	return true
}

// depth walks the best levels and aggregates remaining quantity per price.
// Read-only: it never mutates or removes anything it encounters.
func (s *bookSide) depth(levels int) []PriceLevel {
	result := make([]PriceLevel, 0, levels)

	el := s.levels.Front()
	for len(result) < levels && el != nil {
		lvl, _ := el.Value.(*priceLevel)

		var total int64
		for order := lvl.head; order != nil; order = order.next {
			total += order.Remaining
		}

		result = append(result, PriceLevel{Price: lvl.price, Quantity: total})
		el = el.Next()
	}

	return result
}

// snapshot returns independent copies of all resting orders in priority
// order, safe to read after any lock is released.
func (s *bookSide) snapshot() []*Order {
	result := make([]*Order, 0)

	el := s.levels.Front()
	for el != nil {
		lvl, _ := el.Value.(*priceLevel)
		for order := lvl.head; order != nil; order = order.next {
			result = append(result, order.Clone())
		}
		el = el.Next()
	}

	return result
}

// Book is the order book index: two price-ordered collections of FIFO
// queues plus an id lookup for O(1) cancellation. It holds no lock of its
// own; wrap it in a GuardedBook for concurrent use, or drive it from a
// single goroutine.
type Book struct {
	bids   *bookSide
	asks   *bookSide
	orders map[string]*Order
}

// NewBook creates an empty order book.
func NewBook() *Book {
	return &Book{
		bids:   newBidSide(),
		asks:   newAskSide(),
		orders: make(map[string]*Order),
	}
}

func (b *Book) sideFor(side Side) *bookSide {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// Add inserts a resting order into the side matching its side, appended to
// the tail of its price's FIFO queue. Returns ErrDuplicateOrder if an order
// with the same ID is already indexed; the existing entry is untouched.
func (b *Book) Add(order *Order) error {
	if _, exists := b.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}

	b.sideFor(order.Side).insert(order)
	b.orders[order.ID] = order
	return nil
}

// Remove cancels an order by ID, deleting it from its price queue and the
// id index. Returns the removed order, or false if no such order rests in
// the book.
func (b *Book) Remove(id string) (*Order, bool) {
	order, ok := b.orders[id]
	if !ok {
		return nil, false
	}

	delete(b.orders, id)
	b.sideFor(order.Side).remove(order)
	return order, true
}

// removeFilledHead removes a fully filled order from the front of its best
// price queue, but only if it is identity-equal to the current head. Callers
// must hold exclusive access to the book.
func (b *Book) removeFilledHead(order *Order) {
	if b.sideFor(order.Side).removeHead(order) {
		delete(b.orders, order.ID)
	}
}

// BestBid returns the highest-priced bid with FIFO priority, or nil.
func (b *Book) BestBid() *Order {
	return b.bids.best()
}

// BestAsk returns the lowest-priced ask with FIFO priority, or nil.
func (b *Book) BestAsk() *Order {
	return b.asks.best()
}

// BestBidPrice returns the highest bid price. ok is false if no bids rest.
func (b *Book) BestBidPrice() (decimal.Decimal, bool) {
	bid := b.bids.best()
	if bid == nil {
		return decimal.Decimal{}, false
	}
	return bid.Price, true
}

// BestAskPrice returns the lowest ask price. ok is false if no asks rest.
func (b *Book) BestAskPrice() (decimal.Decimal, bool) {
	ask := b.asks.best()
	if ask == nil {
		return decimal.Decimal{}, false
	}
	return ask.Price, true
}

// Spread returns best ask minus best bid. ok is false unless both sides are
// non-empty.
func (b *Book) Spread() (decimal.Decimal, bool) {
	bid := b.bids.best()
	ask := b.asks.best()
	if bid == nil || ask == nil {
		return decimal.Decimal{}, false
	}
	return ask.Price.Sub(bid.Price), true
}

// Depth returns up to levels aggregated price levels per side, best first.
func (b *Book) Depth(levels int) (bids, asks []PriceLevel) {
	return b.bids.depth(levels), b.asks.depth(levels)
}

// Get looks up an order by ID, or nil if absent.
func (b *Book) Get(id string) *Order {
	return b.orders[id]
}

// Bids returns independent copies of all resting bids in priority order.
func (b *Book) Bids() []*Order {
	return b.bids.snapshot()
}

// Asks returns independent copies of all resting asks in priority order.
func (b *Book) Asks() []*Order {
	return b.asks.snapshot()
}

// Len returns the total number of resting orders.
func (b *Book) Len() int {
	return len(b.orders)
}

// Reset clears all book state.
func (b *Book) Reset() {
	b.bids = newBidSide()
	b.asks = newAskSide()
	b.orders = make(map[string]*Order)
}

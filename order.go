package clob

import (
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// opposite returns the side a taker order matches against.
func (s Side) opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderType string

const (
	Limit  OrderType = "limit"
	Market OrderType = "market"
)

// Order represents trading intent: a resting limit order or an incoming
// taker order. Quantity is the original size and never changes; Remaining
// is decremented by fills and satisfies 0 <= Remaining <= Quantity.
//
// Price is zero for market orders; they match at whatever the book offers
// and never rest.
type Order struct {
	ID        string          `json:"id"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Remaining int64           `json:"remaining"`
	Timestamp int64           `json:"timestamp"` // Unix nano, creation time

	// Intrusive FIFO list pointers, owned by the book (ignored by JSON)
	next *Order
	prev *Order
}

// NewLimitOrder creates a limit order with a fresh process-unique ID.
// The price must be positive and the quantity must be a positive integer.
func NewLimitOrder(side Side, quantity int64, price decimal.Decimal) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price.IsZero() {
		return nil, ErrMissingPrice
	}
	if price.Sign() < 0 {
		return nil, ErrInvalidPrice
	}

	return &Order{
		ID:        xid.New().String(),
		Side:      side,
		Type:      Limit,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// NewMarketOrder creates a market order with a fresh process-unique ID.
func NewMarketOrder(side Side, quantity int64) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	return &Order{
		ID:        xid.New().String(),
		Side:      side,
		Type:      Market,
		Quantity:  quantity,
		Remaining: quantity,
		Timestamp: time.Now().UnixNano(),
	}, nil
}

// Fill consumes qty units of the order's remaining quantity.
// Returns ErrOverFill if qty exceeds what remains; the order is unchanged.
func (o *Order) Fill(qty int64) error {
	if qty > o.Remaining {
		return ErrOverFill
	}
	o.Remaining -= qty
	return nil
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// Clone returns an independent copy, detached from any book-owned list.
func (o *Order) Clone() *Order {
	cpy := *o
	cpy.next = nil
	cpy.prev = nil
	return &cpy
}

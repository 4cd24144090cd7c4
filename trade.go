package clob

import (
	"time"

	"github.com/rs/xid"
	"github.com/shopspring/decimal"
)

// Trade is the immutable record of one match. Trades are created only by
// the matching engine and never mutated afterwards.
type Trade struct {
	ID          string          `json:"id"`
	BuyOrderID  string          `json:"buy_order_id"`
	SellOrderID string          `json:"sell_order_id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}

// newTrade records a match between a taker and the resting maker order,
// resolving the buy/sell legs from the taker's side.
func newTrade(taker, maker *Order, price decimal.Decimal, quantity int64) *Trade {
	trade := &Trade{
		ID:        xid.New().String(),
		Price:     price,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}

	if taker.Side == Buy {
		trade.BuyOrderID = taker.ID
		trade.SellOrderID = maker.ID
	} else {
		trade.BuyOrderID = maker.ID
		trade.SellOrderID = taker.ID
	}

	return trade
}

package clob

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeedSampleBook loads a small two-sided market around 100.00 through the
// engine, leaving a resting spread useful for demos and manual testing.
func SeedSampleBook(engine *Engine) error {
	type seed struct {
		side  Side
		qty   int64
		price string
	}

	seeds := []seed{
		// asks, best first
		{Sell, 100, "100.50"},
		{Sell, 150, "100.50"},
		{Sell, 200, "101.00"},
		{Sell, 75, "101.25"},
		{Sell, 300, "101.50"},
		{Sell, 50, "102.00"},
		// bids, best first
		{Buy, 120, "100.00"},
		{Buy, 80, "100.00"},
		{Buy, 250, "99.75"},
		{Buy, 100, "99.50"},
		{Buy, 175, "99.25"},
		{Buy, 400, "99.00"},
	}

	for _, s := range seeds {
		price, err := decimal.NewFromString(s.price)
		if err != nil {
			return err
		}

		order, err := NewLimitOrder(s.side, s.qty, price)
		if err != nil {
			return err
		}

		if _, err := engine.Process(context.Background(), order); err != nil {
			return err
		}
	}

	logger.Debug("sample book seeded", "resting_orders", engine.Book().Len())
	return nil
}

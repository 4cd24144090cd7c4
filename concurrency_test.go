package clob

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentOrderSubmission(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	submit := func(side Side, basePrice int64) {
		defer wg.Done()
		rng := rand.New(rand.NewSource(basePrice + int64(side)))

		for i := 0; i < 50; i++ {
			price := decimal.NewFromInt(basePrice + rng.Int63n(11) - 5)
			order, err := NewLimitOrder(side, rng.Int63n(91)+10, price)
			if err == nil {
				_, err = engine.Process(ctx, order)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}

	wg.Add(4)
	go submit(Buy, 100)
	go submit(Buy, 100)
	go submit(Sell, 100)
	go submit(Sell, 100)
	wg.Wait()

	require.Empty(t, errs)

	// No two resting orders share an identifier.
	seen := make(map[string]bool)
	for _, order := range append(engine.Book().Bids(), engine.Book().Asks()...) {
		assert.False(t, seen[order.ID], "duplicate resting id %s", order.ID)
		seen[order.ID] = true
		assert.Positive(t, order.Remaining)
		assert.LessOrEqual(t, order.Remaining, order.Quantity)
	}

	assertNotCrossed(t, engine.Book())
}

func TestConcurrentNoDoubleFill(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	sell, _ := processLimit(t, engine, Sell, 100, "100")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var totalFilled int64

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				order, err := NewLimitOrder(Buy, 20, decimal.NewFromInt(100))
				if err != nil {
					continue
				}
				trades, err := engine.Process(ctx, order)
				if err != nil {
					continue
				}
				mu.Lock()
				for _, trade := range trades {
					totalFilled += trade.Quantity
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The sum of fills against a single resting order never exceeds its
	// original quantity, regardless of interleaving.
	assert.Equal(t, int64(100), totalFilled)
	assert.Nil(t, engine.Book().Get(sell.ID))
	assertNotCrossed(t, engine.Book())
}

func TestConcurrentReadersSeeConsistentState(t *testing.T) {
	engine := newTestEngine(t)
	book := engine.Book()
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	writer := func(seed int64) {
		defer wg.Done()
		rng := rand.New(rand.NewSource(seed))

		for i := 0; i < 100; i++ {
			side := Buy
			if i%2 == 1 {
				side = Sell
			}
			price := decimal.NewFromInt(100 + rng.Int63n(10))
			order, err := NewLimitOrder(side, 10, price)
			if err == nil {
				_, err = engine.Process(ctx, order)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}

	reader := func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			bids, asks := book.Depth(10)
			// A reader must never observe a half-applied mutation:
			// zero-quantity levels would be exactly that.
			for _, lvl := range bids {
				assert.Positive(t, lvl.Quantity)
				assert.True(t, lvl.Price.Sign() > 0)
			}
			for _, lvl := range asks {
				assert.Positive(t, lvl.Quantity)
				assert.True(t, lvl.Price.Sign() > 0)
			}

			if spread, ok := book.Spread(); ok {
				assert.True(t, spread.Sign() > 0, "observed crossed book: spread %s", spread)
			}
		}
	}

	wg.Add(8)
	for i := 0; i < 3; i++ {
		go writer(int64(i))
	}
	for i := 0; i < 5; i++ {
		go reader()
	}
	wg.Wait()

	require.Empty(t, errs)
}

func TestConcurrentCancellation(t *testing.T) {
	engine := newTestEngine(t)
	book := engine.Book()
	ctx := context.Background()

	orders := make([]*Order, 0, 100)
	for i := 0; i < 100; i++ {
		order, _ := processLimit(t, engine, Buy, 10, "100")
		orders = append(orders, order)
	}

	// Two goroutines race to cancel every order; each cancellation must
	// succeed exactly once.
	var cancelled atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, order := range orders {
				removed, err := book.Remove(ctx, order.ID)
				if err == nil && removed != nil {
					cancelled.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), cancelled.Load())
	assert.Equal(t, 0, book.Len())
}

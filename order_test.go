package clob

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimitOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		order, err := NewLimitOrder(Buy, 100, decimal.RequireFromString("10.50"))
		require.NoError(t, err)

		assert.NotEmpty(t, order.ID)
		assert.Equal(t, Buy, order.Side)
		assert.Equal(t, Limit, order.Type)
		assert.Equal(t, int64(100), order.Quantity)
		assert.Equal(t, int64(100), order.Remaining)
		assert.NotZero(t, order.Timestamp)
		assert.False(t, order.IsFilled())
	})

	t.Run("unique ids", func(t *testing.T) {
		o1, err := NewLimitOrder(Buy, 1, decimal.NewFromInt(10))
		require.NoError(t, err)
		o2, err := NewLimitOrder(Buy, 1, decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.NotEqual(t, o1.ID, o2.ID)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewLimitOrder(Buy, 0, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := NewLimitOrder(Sell, -5, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := NewLimitOrder(Buy, 100, decimal.Decimal{})
		assert.ErrorIs(t, err, ErrMissingPrice)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewLimitOrder(Buy, 100, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestNewMarketOrder(t *testing.T) {
	t.Run("valid order", func(t *testing.T) {
		order, err := NewMarketOrder(Sell, 25)
		require.NoError(t, err)

		assert.Equal(t, Market, order.Type)
		assert.Equal(t, Sell, order.Side)
		assert.True(t, order.Price.IsZero())
		assert.Equal(t, int64(25), order.Remaining)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewMarketOrder(Buy, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestOrderFill(t *testing.T) {
	t.Run("partial then full", func(t *testing.T) {
		order, err := NewLimitOrder(Buy, 100, decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, order.Fill(30))
		assert.Equal(t, int64(70), order.Remaining)
		assert.Equal(t, int64(100), order.Quantity)
		assert.False(t, order.IsFilled())

		require.NoError(t, order.Fill(70))
		assert.Equal(t, int64(0), order.Remaining)
		assert.True(t, order.IsFilled())
	})

	t.Run("over-fill is rejected without state change", func(t *testing.T) {
		order, err := NewLimitOrder(Sell, 10, decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.ErrorIs(t, order.Fill(11), ErrOverFill)
		assert.Equal(t, int64(10), order.Remaining)
	})
}

func TestOrderClone(t *testing.T) {
	order, err := NewLimitOrder(Buy, 100, decimal.NewFromInt(10))
	require.NoError(t, err)

	cpy := order.Clone()
	require.NoError(t, cpy.Fill(40))

	assert.Equal(t, int64(100), order.Remaining)
	assert.Equal(t, int64(60), cpy.Remaining)
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, Sell, Buy.opposite())
	assert.Equal(t, Buy, Sell.opposite())
}

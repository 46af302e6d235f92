package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribebot/tribebot-go/internal/domain/market"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

func newQuote(t *testing.T, stock, capacity int, tax market.Tax, constants market.Constants) *market.ExchangeQuote {
	t.Helper()
	stocks := shared.ResourceSet{shared.Wood: stock, shared.Stone: stock, shared.Iron: stock}
	capacities := shared.ResourceSet{shared.Wood: capacity, shared.Stone: capacity, shared.Iron: capacity}
	quote, err := market.NewExchangeQuote(stocks, capacities, tax, constants, 5)
	require.NoError(t, err)
	return quote
}

func newModel(t *testing.T, quote *market.ExchangeQuote) *market.PricingModel {
	t.Helper()
	model, err := market.NewPricingModel(quote)
	require.NoError(t, err)
	return model
}

func TestPricingModel_MarginalPrice(t *testing.T) {
	// Arrange
	quote := newQuote(t, 500, 3000, market.Tax{}, market.Constants{
		BasePrice:  100,
		Elasticity: 0.3,
	})
	model := newModel(t, quote)

	// Act
	price, err := model.MarginalPrice(500, 3000)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 99.95, price, 1e-9)
}

func TestPricingModel_MarginalPrice_ClampedAtZero(t *testing.T) {
	// Arrange - curve dips far below zero at full stock
	quote := newQuote(t, 1000, 1000, market.Tax{}, market.Constants{
		BasePrice:  1,
		Elasticity: 10,
	})
	model := newModel(t, quote)

	// Act
	price, err := model.MarginalPrice(1000, 1000)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)
}

func TestPricingModel_MarginalPrice_InvalidDenominator(t *testing.T) {
	// Arrange
	quote := newQuote(t, 0, 0, market.Tax{}, market.Constants{
		BasePrice:         100,
		Elasticity:        0.3,
		StockSizeModifier: 0,
	})
	model := newModel(t, quote)

	// Act
	_, err := model.MarginalPrice(0, 0)

	// Assert
	assert.ErrorIs(t, err, market.ErrInvalidMarketConstant)
}

func TestPricingModel_MarginalPrice_DecreasesWithStock(t *testing.T) {
	// Arrange
	quote := newQuote(t, 0, 3000, market.Tax{}, market.Constants{
		BasePrice:  100,
		Elasticity: 0.3,
	})
	model := newModel(t, quote)

	// Act / Assert - more stock never raises the next unit's price
	previous := 101.0
	for stock := 0.0; stock <= 3000; stock += 500 {
		price, err := model.MarginalPrice(stock, 3000)
		require.NoError(t, err)
		assert.Less(t, price, previous, "price must strictly fall along the curve at stock %v", stock)
		previous = price
	}
}

func TestPricingModel_Cost_BuyIntegratesTrapezoid(t *testing.T) {
	// Arrange - line from price 10 at stock 0 down to 0 at capacity
	quote := newQuote(t, 0, 1000, market.Tax{}, market.Constants{
		BasePrice:  10,
		Elasticity: 10,
	})
	model := newModel(t, quote)

	// Act - fill the whole book
	cost, err := model.Cost(shared.Wood, 1000)

	// Assert - (10 + 0)/2 * 1000
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, cost, 1e-6)
}

func TestPricingModel_Cost_BuyTaxApplied(t *testing.T) {
	// Arrange
	quote := newQuote(t, 0, 1000, market.Tax{Buy: 0.1}, market.Constants{
		BasePrice:  10,
		Elasticity: 10,
	})
	model := newModel(t, quote)

	// Act
	cost, err := model.Cost(shared.Wood, 1000)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 5500.0, cost, 1e-6)
}

func TestPricingModel_Cost_SellIsNegative(t *testing.T) {
	// Arrange - flat curve at price 2
	quote := newQuote(t, 500, 1000, market.Tax{}, market.Constants{
		BasePrice: 2,
	})
	model := newModel(t, quote)

	// Act
	cost, err := model.Cost(shared.Iron, -100)

	// Assert - seller receives, so the signed point total is negative
	require.NoError(t, err)
	assert.InDelta(t, -200.0, cost, 1e-6)
}

func TestPricingModel_Cost_ZeroAmount(t *testing.T) {
	// Arrange
	quote := newQuote(t, 500, 1000, market.Tax{}, market.Constants{BasePrice: 2})
	model := newModel(t, quote)

	// Act
	cost, err := model.Cost(shared.Wood, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0.0, cost)
}

func TestPricingModel_Cost_SellBeyondStock(t *testing.T) {
	// Arrange
	quote := newQuote(t, 100, 1000, market.Tax{}, market.Constants{BasePrice: 2})
	model := newModel(t, quote)

	// Act
	_, err := model.Cost(shared.Wood, -101)

	// Assert
	assert.ErrorIs(t, err, market.ErrInsufficientStock)
}

func TestPricingModel_Cost_BuyBeyondCapacity(t *testing.T) {
	// Arrange
	quote := newQuote(t, 900, 1000, market.Tax{}, market.Constants{BasePrice: 2})
	model := newModel(t, quote)

	// Act
	_, err := model.Cost(shared.Wood, 101)

	// Assert
	assert.ErrorIs(t, err, market.ErrInsufficientStock)
}

func TestPricingModel_RateForOnePoint_Boundary(t *testing.T) {
	// The returned rate r must be the largest quantity whose sell settles
	// within one point: |cost(-r)| <= 1 < |cost(-(r+1))|.
	tests := []struct {
		name      string
		stock     int
		capacity  int
		constants market.Constants
		expected  int
	}{
		{
			// Flat curve at 1/64 per unit: 64 units settle for exactly one point
			name:      "flat curve",
			stock:     10000,
			capacity:  20000,
			constants: market.Constants{BasePrice: 0.015625},
			expected:  64,
		},
		{
			// Flat curve at 1/128 per unit
			name:      "cheaper flat curve",
			stock:     10000,
			capacity:  20000,
			constants: market.Constants{BasePrice: 0.0078125},
			expected:  128,
		},
		{
			// Sloped curve: selling r from a full book costs r^2/4000 points,
			// so the boundary sits at r=63 (63^2 <= 4000 < 64^2)
			name:      "sloped curve",
			stock:     1000,
			capacity:  1000,
			constants: market.Constants{BasePrice: 0.5, Elasticity: 0.5},
			expected:  63,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			quote := newQuote(t, tt.stock, tt.capacity, market.Tax{}, tt.constants)
			model := newModel(t, quote)

			// Act
			rate, err := model.RateForOnePoint(shared.Wood)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rate)

			atRate, err := model.Cost(shared.Wood, -rate)
			require.NoError(t, err)
			assert.LessOrEqual(t, -atRate, 1.0)

			beyond, err := model.Cost(shared.Wood, -(rate + 1))
			require.NoError(t, err)
			assert.Greater(t, -beyond, 1.0)
		})
	}
}

func TestPricingModel_RateForOnePoint_EmptyBook(t *testing.T) {
	// Arrange
	quote := newQuote(t, 0, 1000, market.Tax{}, market.Constants{BasePrice: 0.01})
	model := newModel(t, quote)

	// Act
	rate, err := model.RateForOnePoint(shared.Stone)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, rate)
}

func TestPricingModel_RateForOnePoint_SingleUnitTooExpensive(t *testing.T) {
	// Arrange - one unit already settles above a point
	quote := newQuote(t, 1000, 2000, market.Tax{Sell: 0.05}, market.Constants{BasePrice: 1})
	model := newModel(t, quote)

	// Act
	rate, err := model.RateForOnePoint(shared.Wood)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, rate)
}

func TestPackMerchants(t *testing.T) {
	tests := []struct {
		name      string
		amount    int
		merchants int
		capacity  int
		wantUsed  int
		wantSent  int
		wantRatio float64
	}{
		{
			// Partial wagon: committing more merchants only adds empty space
			name:      "amount below one wagon",
			amount:    700,
			merchants: 5,
			capacity:  1000,
			wantUsed:  1,
			wantSent:  700,
			wantRatio: 0.3,
		},
		{
			// Every fully-used fleet ties at ratio zero; fewest merchants wins
			name:      "amount above one wagon",
			amount:    2500,
			merchants: 5,
			capacity:  1000,
			wantUsed:  1,
			wantSent:  1000,
			wantRatio: 0,
		},
		{
			name:      "exact fit",
			amount:    1000,
			merchants: 3,
			capacity:  1000,
			wantUsed:  1,
			wantSent:  1000,
			wantRatio: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			result := market.PackMerchants(tt.amount, tt.merchants, tt.capacity)

			// Assert
			assert.Equal(t, tt.wantUsed, result.MerchantsUsed)
			assert.Equal(t, tt.wantSent, result.AmountSent)
			assert.InDelta(t, tt.wantRatio, result.LeftoverRatio, 1e-9)
		})
	}
}

func TestPackMerchants_InvalidInputs(t *testing.T) {
	assert.Equal(t, market.PackResult{}, market.PackMerchants(0, 5, 1000))
	assert.Equal(t, market.PackResult{}, market.PackMerchants(500, 0, 1000))
	assert.Equal(t, market.PackResult{}, market.PackMerchants(500, 5, 0))
}

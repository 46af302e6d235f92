package market

import (
	"fmt"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Tax holds the direction-dependent exchange tax rates
type Tax struct {
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// Constants holds the exchange pricing curve parameters
type Constants struct {
	BasePrice         float64 `json:"basePrice"`
	Elasticity        float64 `json:"elasticity"`
	StockSizeModifier float64 `json:"stockSizeModifier"`
}

// ExchangeQuote is a value object describing the internal exchange at one
// observation: per-commodity book stock and capacity, tax rates, pricing
// constants and the merchant count available for settlement.
type ExchangeQuote struct {
	stock     shared.ResourceSet
	capacity  shared.ResourceSet
	tax       Tax
	constants Constants
	merchants int
}

// NewExchangeQuote creates a quote with validation
func NewExchangeQuote(stock, capacity shared.ResourceSet, tax Tax, constants Constants, merchants int) (*ExchangeQuote, error) {
	if stock == nil || capacity == nil {
		return nil, fmt.Errorf("exchange quote requires stock and capacity")
	}
	if merchants < 0 {
		return nil, shared.NewValidationError("merchants", "cannot be negative")
	}

	return &ExchangeQuote{
		stock:     stock.Clone(),
		capacity:  capacity.Clone(),
		tax:       tax,
		constants: constants,
		merchants: merchants,
	}, nil
}

// Stock returns the current book stock for a resource
func (q *ExchangeQuote) Stock(res shared.Resource) int {
	return q.stock.Get(res)
}

// Capacity returns the book capacity for a resource
func (q *ExchangeQuote) Capacity(res shared.Resource) int {
	return q.capacity.Get(res)
}

// Tax returns the exchange tax rates
func (q *ExchangeQuote) Tax() Tax {
	return q.tax
}

// Constants returns the pricing curve parameters
func (q *ExchangeQuote) Constants() Constants {
	return q.constants
}

// Merchants returns the number of merchants available for settlement
func (q *ExchangeQuote) Merchants() int {
	return q.merchants
}

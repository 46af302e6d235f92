package market

import (
	"fmt"
	"math"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// PricingModel prices trades against the internal exchange's concave
// marginal-price curve.
//
// This is a pure domain service: all methods are deterministic functions over
// the quote captured at tick start and never perform I/O.
type PricingModel struct {
	quote *ExchangeQuote
}

// NewPricingModel creates a pricing model over an exchange quote
func NewPricingModel(quote *ExchangeQuote) (*PricingModel, error) {
	if quote == nil {
		return nil, fmt.Errorf("exchange quote cannot be nil")
	}
	return &PricingModel{quote: quote}, nil
}

// MarginalPrice returns the price of the next infinitesimal unit at the given
// book stock level.
//
// Formula:
//
//	price = basePrice − elasticity × stock / (capacity + stockSizeModifier)
//
// The result is clamped to >= 0. Returns ErrInvalidMarketConstant when the
// denominator is not positive, since the curve is undefined there.
func (p *PricingModel) MarginalPrice(stock, capacity float64) (float64, error) {
	c := p.quote.Constants()
	denom := capacity + c.StockSizeModifier
	if denom <= 0 {
		return 0, fmt.Errorf("%w: capacity=%v modifier=%v", ErrInvalidMarketConstant, capacity, c.StockSizeModifier)
	}
	price := c.BasePrice - c.Elasticity*stock/denom
	return math.Max(price, 0), nil
}

// Cost integrates the marginal-price curve between the pre- and post-trade
// stock levels using the trapezoid rule.
//
// Sign convention: a positive amount raises the exchange's book stock (capped
// at capacity), a negative amount lowers it (floored at zero). The tax rate is
// direction-dependent. The returned point total carries the sign of the
// amount; callers interested in magnitude take the absolute value.
//
// Returns ErrInsufficientStock when the trade would leave the book outside
// [0, capacity].
func (p *PricingModel) Cost(res shared.Resource, amount int) (float64, error) {
	if amount == 0 {
		return 0, nil
	}

	stock := p.quote.Stock(res)
	capacity := p.quote.Capacity(res)
	after := stock + amount

	if after < 0 {
		return 0, fmt.Errorf("%w: selling %d of %s with book stock %d", ErrInsufficientStock, -amount, res, stock)
	}
	if after > capacity {
		return 0, fmt.Errorf("%w: buying %d of %s with headroom %d", ErrInsufficientStock, amount, res, capacity-stock)
	}

	before, err := p.MarginalPrice(float64(stock), float64(capacity))
	if err != nil {
		return 0, err
	}
	post, err := p.MarginalPrice(float64(after), float64(capacity))
	if err != nil {
		return 0, err
	}

	tax := p.quote.Tax().Buy
	if amount < 0 {
		tax = p.quote.Tax().Sell
	}

	return (1 + tax) * (before + post) / 2 * float64(amount), nil
}

// RateForOnePoint finds the largest integer quantity r such that selling r
// units of the resource settles for at most one premium point.
//
// The cost integral is not invertible analytically, so the boundary is found
// numerically: double a trial quantity until its absolute cost reaches the
// one-point target or the available sell capacity is exhausted, then binary
// search between the last two bounds.
//
// Pricing errors from Cost are propagated unchanged.
func (p *PricingModel) RateForOnePoint(res shared.Resource) (int, error) {
	const target = 1.0

	maxSell := p.quote.Stock(res)
	if maxSell <= 0 {
		return 0, nil
	}

	cost, err := p.absCost(res, 1)
	if err != nil {
		return 0, err
	}
	if cost > target {
		return 0, nil
	}

	// Exponential search for an upper bound.
	hi := 1
	for hi < maxSell {
		next := hi * 2
		if next > maxSell {
			next = maxSell
		}
		cost, err = p.absCost(res, next)
		if err != nil {
			return 0, err
		}
		hi = next
		if cost >= target {
			break
		}
	}

	// Binary search for the largest r with |cost(-r)| <= target.
	lo, best := 1, 1
	for lo <= hi {
		mid := (lo + hi) / 2
		cost, err = p.absCost(res, mid)
		if err != nil {
			return 0, err
		}
		if cost <= target {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}

func (p *PricingModel) absCost(res shared.Resource, sellUnits int) (float64, error) {
	cost, err := p.Cost(res, -sellUnits)
	if err != nil {
		return 0, err
	}
	return math.Abs(cost), nil
}

// PackResult describes a merchant commitment for one settlement
type PackResult struct {
	MerchantsUsed int
	AmountSent    int
	LeftoverRatio float64
}

// PackMerchants chooses how many merchants to commit for an amount so that
// wasted wagon space is minimized.
//
// For each candidate count the sent amount is min(amount, count×capacity) and
// the leftover ratio is measured against the committed fleet capacity
// (count×capacity), not against a single merchant's capacity. Ties break
// toward fewer merchants. This is a discrete search over merchantCount
// candidates, not a continuous optimization.
func PackMerchants(amount, merchantCount, perMerchantCapacity int) PackResult {
	if amount <= 0 || merchantCount <= 0 || perMerchantCapacity <= 0 {
		return PackResult{}
	}

	best := PackResult{LeftoverRatio: math.MaxFloat64}
	for used := 1; used <= merchantCount; used++ {
		fleetCapacity := used * perMerchantCapacity
		sent := amount
		if sent > fleetCapacity {
			sent = fleetCapacity
		}
		ratio := 1 - float64(sent)/float64(fleetCapacity)
		if ratio < best.LeftoverRatio {
			best = PackResult{MerchantsUsed: used, AmountSent: sent, LeftoverRatio: ratio}
		}
	}
	return best
}

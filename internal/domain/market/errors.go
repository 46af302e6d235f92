package market

import "errors"

var (
	// ErrInvalidMarketConstant indicates the pricing denominator is not positive
	ErrInvalidMarketConstant = errors.New("invalid capacity/stock size modifier (denominator <= 0)")

	// ErrInsufficientStock indicates a trade would push book stock below zero
	// or above capacity
	ErrInsufficientStock = errors.New("trade exceeds available stock or capacity")
)

package planner

// Metrics receives planning outcomes for observability adapters. The planner
// never blocks on it; implementations must be cheap.
type Metrics interface {
	// ObserveTick records the outcome of one planning tick
	ObserveTick(strategy string, allocations, shipments, trades, realizedLoot int)
}

// NopMetrics discards all observations
type NopMetrics struct{}

// ObserveTick does nothing
func (NopMetrics) ObserveTick(strategy string, allocations, shipments, trades, realizedLoot int) {}

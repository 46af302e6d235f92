package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "tribebot"
	// Subsystem for planning metrics
	subsystem = "planner"
)

// PlannerMetricsCollector handles all planning tick metrics
type PlannerMetricsCollector struct {
	ticksTotal        *prometheus.CounterVec
	actionsTotal      *prometheus.CounterVec
	realizedLootTotal prometheus.Counter
	lastTickActions   *prometheus.GaugeVec
}

// NewPlannerMetricsCollector creates a new planner metrics collector
func NewPlannerMetricsCollector() *PlannerMetricsCollector {
	return &PlannerMetricsCollector{
		// Ticks by chosen strategy
		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of planning ticks by chosen strategy",
			},
			[]string{"strategy"},
		),

		// Planned actions by type
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Total number of planned actions by type",
			},
			[]string{"type"},
		),

		// Cumulative realized loot across ticks
		realizedLootTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "realized_loot_total",
				Help:      "Cumulative realized loot from allocation plans",
			},
		),

		// Action counts of the most recent tick
		lastTickActions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "last_tick_actions",
				Help:      "Number of actions planned in the most recent tick by type",
			},
			[]string{"type"},
		),
	}
}

// Register registers all metrics with the given registry
func (c *PlannerMetricsCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		c.ticksTotal,
		c.actionsTotal,
		c.realizedLootTotal,
		c.lastTickActions,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// ObserveTick records the outcome of one planning tick
func (c *PlannerMetricsCollector) ObserveTick(strategy string, allocations, shipments, trades, realizedLoot int) {
	c.ticksTotal.WithLabelValues(strategy).Inc()

	c.actionsTotal.WithLabelValues("allocate").Add(float64(allocations))
	c.actionsTotal.WithLabelValues("shipment").Add(float64(shipments))
	c.actionsTotal.WithLabelValues("premium_trade").Add(float64(trades))

	c.realizedLootTotal.Add(float64(realizedLoot))

	c.lastTickActions.WithLabelValues("allocate").Set(float64(allocations))
	c.lastTickActions.WithLabelValues("shipment").Set(float64(shipments))
	c.lastTickActions.WithLabelValues("premium_trade").Set(float64(trades))
}

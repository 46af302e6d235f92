package allocation

import (
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Opportunity is a scoreable, capacity-limited target for mobile units.
// Raid targets and gather slots share this shape; only the way their duration
// is derived differs.
type Opportunity struct {
	ID string
	// PredictedLoot is the expected yield per commodity
	PredictedLoot shared.ResourceSet
	// DurationHours is the time one round of the opportunity occupies its units
	DurationHours float64
	// Locked opportunities are unavailable this tick
	Locked bool
	// HasActiveSquad marks opportunities that already have units committed
	HasActiveSquad bool
}

// TotalLoot returns the predicted yield summed across commodities
func (o Opportunity) TotalLoot() int {
	return o.PredictedLoot.Total()
}

// Open reports whether the opportunity can receive units this tick
func (o Opportunity) Open() bool {
	return !o.Locked && !o.HasActiveSquad
}

// NewGatherOpportunity builds an opportunity from a gather slot, which
// reports its duration directly.
func NewGatherOpportunity(id string, loot shared.ResourceSet, durationSeconds int) Opportunity {
	return Opportunity{
		ID:            id,
		PredictedLoot: loot.Clone(),
		DurationHours: float64(durationSeconds) / 3600,
	}
}

// NewRaidOpportunity builds an opportunity from a raid target. Raids are
// instantaneous once troops arrive, so travel time stands in for duration; an
// extra hour is added so zero-distance targets never divide by zero when
// scored.
func NewRaidOpportunity(id string, loot shared.ResourceSet, distanceFields float64, speedMinutesPerField float64) Opportunity {
	travelHours := distanceFields * speedMinutesPerField / 60
	return Opportunity{
		ID:            id,
		PredictedLoot: loot.Clone(),
		DurationHours: travelHours + 1,
	}
}

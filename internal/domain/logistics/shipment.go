package logistics

import (
	"fmt"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Shipment is a planned transfer of commodities along one route. A route
// produces at most one aggregated shipment per tick, and empty shipments are
// filtered before a plan is returned.
type Shipment struct {
	SourceID      string
	DestinationID string
	Resources     shared.ResourceSet
}

// Route returns the shipment's route signature
func (s Shipment) Route() Route {
	return Route{SourceID: s.SourceID, DestinationID: s.DestinationID}
}

// IsEmpty reports whether the shipment carries nothing
func (s Shipment) IsEmpty() bool {
	return s.Resources.IsZero()
}

func (s Shipment) String() string {
	return fmt.Sprintf("%s->%s %s", s.SourceID, s.DestinationID, s.Resources)
}

package planner

import (
	"github.com/google/uuid"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// ActionType discriminates the entries of the emitted action list
type ActionType string

const (
	// ActionAllocate sends units against one opportunity
	ActionAllocate ActionType = "allocate"
	// ActionShipment moves commodities between two nodes
	ActionShipment ActionType = "shipment"
	// ActionPremiumTrade sells a surplus commodity on the internal exchange
	ActionPremiumTrade ActionType = "premium_trade"
)

// Action is one intended operation for the external executor. It is a tagged
// union: only the fields of its type are populated.
type Action struct {
	ID   string     `json:"id"`
	Type ActionType `json:"type"`

	// allocate
	OpportunityID string         `json:"opportunityId,omitempty"`
	UnitCounts    map[string]int `json:"unitCounts,omitempty"`

	// shipment
	SourceID      string         `json:"sourceId,omitempty"`
	DestinationID string         `json:"destId,omitempty"`
	Amounts       map[string]int `json:"amounts,omitempty"`

	// premium_trade
	NodeID        string `json:"nodeId,omitempty"`
	Resource      string `json:"resource,omitempty"`
	SellAmount    int    `json:"sellAmount,omitempty"`
	MerchantsUsed int    `json:"merchantsUsed,omitempty"`
	UnitsPerPoint int    `json:"unitsPerPoint,omitempty"`
}

func newAllocateAction(opportunityID string, unitCounts map[string]int) Action {
	return Action{
		ID:            uuid.NewString(),
		Type:          ActionAllocate,
		OpportunityID: opportunityID,
		UnitCounts:    unitCounts,
	}
}

func newShipmentAction(shipment logistics.Shipment) Action {
	amounts := make(map[string]int, len(shared.Resources))
	for _, res := range shared.Resources {
		if amount := shipment.Resources.Get(res); amount > 0 {
			amounts[string(res)] = amount
		}
	}
	return Action{
		ID:            uuid.NewString(),
		Type:          ActionShipment,
		SourceID:      shipment.SourceID,
		DestinationID: shipment.DestinationID,
		Amounts:       amounts,
	}
}

// ToShipment reconstructs the logistics shipment of a shipment action so
// executors can feed dispatched routes back into the cooldown ledger.
func (a Action) ToShipment() (logistics.Shipment, bool) {
	if a.Type != ActionShipment {
		return logistics.Shipment{}, false
	}
	resources := shared.NewResourceSet()
	for name, amount := range a.Amounts {
		res, err := shared.ParseResource(name)
		if err != nil {
			continue
		}
		resources[res] = amount
	}
	return logistics.Shipment{
		SourceID:      a.SourceID,
		DestinationID: a.DestinationID,
		Resources:     resources,
	}, true
}

func newPremiumTradeAction(nodeID string, res shared.Resource, sellAmount, merchantsUsed, unitsPerPoint int) Action {
	return Action{
		ID:            uuid.NewString(),
		Type:          ActionPremiumTrade,
		NodeID:        nodeID,
		Resource:      string(res),
		SellAmount:    sellAmount,
		MerchantsUsed: merchantsUsed,
		UnitsPerPoint: unitsPerPoint,
	}
}

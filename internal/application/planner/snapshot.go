package planner

import (
	"fmt"
	"time"

	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/market"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Snapshot is the engine's read-only input for one planning tick, materialized
// by the external executor before the engine is called. It is JSON-serializable
// so executors in other processes can hand it over as a document.
type Snapshot struct {
	CapturedAt    time.Time             `json:"capturedAt"`
	Nodes         []NodeSnapshot        `json:"nodes"`
	RaidTargets   []OpportunitySnapshot `json:"raidTargets,omitempty"`
	GatherOptions []OpportunitySnapshot `json:"gatherOptions,omitempty"`
	Market        *MarketSnapshot       `json:"market,omitempty"`
}

// NodeSnapshot mirrors one node's observed state
type NodeSnapshot struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name,omitempty"`
	Stocks          map[string]int          `json:"stocks"`
	StorageCapacity int                     `json:"storageCapacity"`
	Incoming        map[string]int          `json:"incoming,omitempty"`
	DemandRequests  []DemandRequestSnapshot `json:"demandRequests,omitempty"`
	UnitsAtHome     map[string]int          `json:"unitsAtHome,omitempty"`
	Position        shared.Position         `json:"position"`
	UnderAttack     bool                    `json:"underAttack"`
	MarketLevel     int                     `json:"marketLevel"`
	Merchants       MerchantsSnapshot       `json:"merchants"`
	Enabled         bool                    `json:"enabled"`
}

// MerchantsSnapshot reports a node's transport slots
type MerchantsSnapshot struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

// DemandRequestSnapshot is one outstanding resource request
type DemandRequestSnapshot struct {
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
	Priority int    `json:"priority"`
	Source   string `json:"source,omitempty"`
}

// OpportunitySnapshot is one raid target or gather slot. Gather slots report
// DurationSeconds; raid targets report Distance in map fields.
type OpportunitySnapshot struct {
	ID              string         `json:"id"`
	PredictedLoot   map[string]int `json:"predictedLoot"`
	IsLocked        bool           `json:"isLocked"`
	HasActiveSquad  bool           `json:"hasActiveSquad"`
	DurationSeconds int            `json:"durationSeconds,omitempty"`
	Distance        float64        `json:"distance,omitempty"`
}

// MarketSnapshot is the exchange quote captured with the snapshot
type MarketSnapshot struct {
	Stock     map[string]int   `json:"stock"`
	Capacity  map[string]int   `json:"capacity"`
	Tax       market.Tax       `json:"tax"`
	Constants market.Constants `json:"constants"`
	Merchants int              `json:"merchants"`
}

// toResourceSet converts a JSON commodity map, rejecting unknown resource
// names so typos in snapshots surface instead of silently dropping amounts.
func toResourceSet(amounts map[string]int) (shared.ResourceSet, error) {
	set := shared.NewResourceSet()
	for name, amount := range amounts {
		res, err := shared.ParseResource(name)
		if err != nil {
			return nil, err
		}
		set[res] = amount
	}
	return set, nil
}

// ToNode converts a node snapshot into the logistics domain model
func (ns NodeSnapshot) ToNode() (*logistics.Node, error) {
	stocks, err := toResourceSet(ns.Stocks)
	if err != nil {
		return nil, fmt.Errorf("node %s stocks: %w", ns.ID, err)
	}
	incoming, err := toResourceSet(ns.Incoming)
	if err != nil {
		return nil, fmt.Errorf("node %s incoming: %w", ns.ID, err)
	}

	requests := make([]logistics.DemandRequest, 0, len(ns.DemandRequests))
	for _, req := range ns.DemandRequests {
		if req.Amount <= 0 {
			// Inert request; drop it here rather than carrying dead weight.
			continue
		}
		res, err := shared.ParseResource(req.Resource)
		if err != nil {
			return nil, fmt.Errorf("node %s request: %w", ns.ID, err)
		}
		requests = append(requests, logistics.DemandRequest{
			Resource: res,
			Amount:   req.Amount,
			Priority: req.Priority,
			Source:   req.Source,
		})
	}

	units := make(map[string]int, len(ns.UnitsAtHome))
	for id, count := range ns.UnitsAtHome {
		if count > 0 {
			units[id] = count
		}
	}

	return &logistics.Node{
		ID:                 ns.ID,
		Name:               ns.Name,
		Position:           ns.Position,
		Storage:            ns.StorageCapacity,
		Stocks:             stocks,
		Incoming:           incoming,
		Requests:           requests,
		UnitsAtHome:        units,
		UnderAttack:        ns.UnderAttack,
		MarketLevel:        ns.MarketLevel,
		MerchantsAvailable: ns.Merchants.Available,
		MerchantsTotal:     ns.Merchants.Total,
		Enabled:            ns.Enabled,
	}, nil
}

// ToRaidOpportunity converts a raid target snapshot, deriving its duration
// proxy from distance and the reference raid speed.
func (os OpportunitySnapshot) ToRaidOpportunity() (allocation.Opportunity, error) {
	loot, err := toResourceSet(os.PredictedLoot)
	if err != nil {
		return allocation.Opportunity{}, fmt.Errorf("raid target %s: %w", os.ID, err)
	}
	opp := allocation.NewRaidOpportunity(os.ID, loot, os.Distance, allocation.ReferenceRaidSpeed)
	opp.Locked = os.IsLocked
	opp.HasActiveSquad = os.HasActiveSquad
	return opp, nil
}

// ToGatherOpportunity converts a gather slot snapshot
func (os OpportunitySnapshot) ToGatherOpportunity() (allocation.Opportunity, error) {
	loot, err := toResourceSet(os.PredictedLoot)
	if err != nil {
		return allocation.Opportunity{}, fmt.Errorf("gather slot %s: %w", os.ID, err)
	}
	opp := allocation.NewGatherOpportunity(os.ID, loot, os.DurationSeconds)
	opp.Locked = os.IsLocked
	opp.HasActiveSquad = os.HasActiveSquad
	return opp, nil
}

// ToQuote converts the market snapshot into an exchange quote
func (ms *MarketSnapshot) ToQuote() (*market.ExchangeQuote, error) {
	stock, err := toResourceSet(ms.Stock)
	if err != nil {
		return nil, fmt.Errorf("market stock: %w", err)
	}
	capacity, err := toResourceSet(ms.Capacity)
	if err != nil {
		return nil, fmt.Errorf("market capacity: %w", err)
	}
	return market.NewExchangeQuote(stock, capacity, ms.Tax, ms.Constants, ms.Merchants)
}

package logistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Coordinator plans multi-node commodity redistribution: it turns the tick's
// node snapshot into a list of chunked shipments that relieve unmet demand
// while honoring reserve ratios, per-route transport capacity, the global
// shipment cap and route cooldowns.
//
// Given the same snapshot, settings and ledger contents the plan is
// deterministic: demands are processed by (priority, deficit), donors by
// distance, and the tick-start timestamp is captured once for all cooldown
// comparisons.
type Coordinator struct {
	settings Settings
	ledger   RouteLedger
	clock    shared.Clock
}

// NewCoordinator validates the settings and creates a coordinator
func NewCoordinator(settings Settings, ledger RouteLedger, clock shared.Clock) (*Coordinator, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logistics settings: %w", err)
	}
	if ledger == nil {
		return nil, fmt.Errorf("route ledger cannot be nil")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Coordinator{settings: settings, ledger: ledger, clock: clock}, nil
}

// Settings returns the coordinator's validated settings
func (c *Coordinator) Settings() Settings {
	return c.settings
}

// nodeState is the per-tick scratch wrapper around a snapshot node. It is
// discarded when the tick ends; the node itself is never written.
type nodeState struct {
	node             *Node
	requestTotals    shared.ResourceSet
	remaining        shared.ResourceSet
	plannedIncoming  shared.ResourceSet
	plannedOutgoing  shared.ResourceSet
	pendingNeeds     shared.ResourceSet
	merchantCapacity int
}

// need is one entry of the demand list
type need struct {
	priority int
	dest     *nodeState
	resource shared.Resource
	amount   int
}

// PlanShipments runs one planning pass over the snapshot and returns the
// shipments to dispatch. Calling it twice on the same snapshot yields the
// same plan and leaves the ledger's contents unchanged apart from expired
// entries being pruned; only RecordDispatched writes attempt times.
func (c *Coordinator) PlanShipments(nodes []*Node) ([]Shipment, error) {
	if !c.settings.Enabled {
		return nil, nil
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	now := c.clock.Now()
	if cooldown := c.settings.Cooldown(); cooldown > 0 {
		if err := c.ledger.PruneOlderThan(now.Add(-cooldown)); err != nil {
			return nil, fmt.Errorf("failed to prune route ledger: %w", err)
		}
	}

	states := c.prepare(nodes)
	plan := newShipmentSet()

	needs := c.buildRequestNeeds(states)
	c.allocate(needs, states, plan, now, true)

	if c.settings.Mode == ModeBalanceEven {
		balance := c.buildBalanceNeeds(states)
		c.allocate(balance, states, plan, now, false)
	}

	return plan.nonEmpty(), nil
}

// RecordDispatched marks the routes of successfully dispatched shipments as
// attempted. Callers must not invoke this for dry-run plans or for shipments
// that failed to send.
func (c *Coordinator) RecordDispatched(shipments []Shipment) error {
	if len(shipments) == 0 {
		return nil
	}
	routes := make([]Route, 0, len(shipments))
	for _, shipment := range shipments {
		routes = append(routes, shipment.Route())
	}
	if err := c.ledger.Record(routes, c.clock.Now()); err != nil {
		return fmt.Errorf("failed to record dispatched routes: %w", err)
	}
	return nil
}

// prepare builds the scratch state for every node, preserving snapshot order
// so ties resolve the same way on every run.
func (c *Coordinator) prepare(nodes []*Node) []*nodeState {
	states := make([]*nodeState, 0, len(nodes))
	for _, node := range nodes {
		remaining := shared.NewResourceSet()
		for _, res := range shared.Resources {
			if amount := node.Stocks.Get(res); amount > 0 {
				remaining[res] = amount
			}
		}
		states = append(states, &nodeState{
			node:             node,
			requestTotals:    node.RequestTotals(),
			remaining:        remaining,
			plannedIncoming:  shared.NewResourceSet(),
			plannedOutgoing:  shared.NewResourceSet(),
			pendingNeeds:     shared.NewResourceSet(),
			merchantCapacity: maxInt(0, node.MerchantsAvailable*c.settings.MerchantCapacity),
		})
	}
	return states
}

// buildRequestNeeds walks each node's outstanding requests in priority order
// and converts unmet shortfalls into chunked demand entries. Stock and
// in-flight amounts are consumed by more urgent requests first, and every
// deficit is clamped to the destination's planned storage headroom.
func (c *Coordinator) buildRequestNeeds(states []*nodeState) []need {
	var needs []need
	for _, state := range states {
		if !c.eligibleDestination(state) {
			continue
		}

		requests := state.node.SortedRequests()
		if len(requests) == 0 {
			continue
		}

		available := shared.NewResourceSet()
		for _, res := range shared.Resources {
			available[res] = state.node.Stocks.Get(res) + state.node.Incoming.Get(res)
		}

		for _, req := range requests {
			res := req.Resource
			if available[res] >= req.Amount {
				available[res] -= req.Amount
				continue
			}

			deficit := req.Amount - available[res]
			available[res] = 0

			deficit = c.clampToHeadroom(state, res, deficit)
			deficit = c.applyChunk(deficit)
			if deficit <= 0 {
				continue
			}

			state.pendingNeeds[res] += deficit
			needs = append(needs, need{priority: req.Priority, dest: state, resource: res, amount: deficit})
		}
	}

	sortNeeds(needs)
	return needs
}

// buildBalanceNeeds adds low-rank top-up entries for commodities sitting
// below the needs-more threshold, skipping anything already covered by a
// priority need.
func (c *Coordinator) buildBalanceNeeds(states []*nodeState) []need {
	var needs []need
	for _, state := range states {
		if !c.eligibleDestination(state) || state.node.Storage <= 0 {
			continue
		}

		target := int(float64(state.node.Storage) * c.settings.NeedsMoreFraction)
		for _, res := range shared.Resources {
			if state.pendingNeeds.Get(res) > 0 {
				continue
			}
			level := state.node.Stocks.Get(res) + state.node.Incoming.Get(res) + state.plannedIncoming.Get(res)
			if level >= target {
				continue
			}
			deficit := c.applyChunk(target - level)
			if deficit <= 0 {
				continue
			}
			needs = append(needs, need{priority: balanceRank, dest: state, resource: res, amount: deficit})
		}
	}

	sortNeeds(needs)
	return needs
}

// allocate fills the demand list from the nearest eligible donors. Once the
// global shipment cap is hit, allocation stops entirely and leftover need
// rolls to the next tick.
func (c *Coordinator) allocate(needs []need, states []*nodeState, plan *shipmentSet, now time.Time, updatePending bool) {
	chunk := c.settings.MinChunk
	maxShipments := c.settings.MaxShipmentsPerRun

	for _, entry := range needs {
		remaining := entry.amount
		if remaining <= 0 {
			continue
		}

		for _, donor := range c.candidateDonors(states, entry.dest, entry.resource) {
			if remaining < chunk {
				break
			}

			exportable := c.exportableAmount(donor, entry.resource)
			if exportable < chunk {
				continue
			}

			send := minInt(remaining, minInt(exportable, donor.merchantCapacity))
			send = c.applyChunk(send)
			if send < chunk || send <= 0 {
				continue
			}

			route := Route{SourceID: donor.node.ID, DestinationID: entry.dest.node.ID}
			if !plan.has(route) {
				if maxShipments > 0 && plan.len() >= maxShipments {
					return
				}
				if c.routeOnCooldown(route, now) {
					continue
				}
				plan.open(route)
			}

			plan.add(route, entry.resource, send)

			donor.remaining[entry.resource] -= send
			donor.plannedOutgoing[entry.resource] += send
			donor.merchantCapacity = maxInt(0, donor.merchantCapacity-send)
			entry.dest.plannedIncoming[entry.resource] += send
			if updatePending {
				entry.dest.pendingNeeds[entry.resource] = maxInt(0, entry.dest.pendingNeeds[entry.resource]-send)
			}

			remaining -= send
		}
		// Leftover shortfall is carried into future ticks.
	}
}

// candidateDonors returns the donors able to ship the resource toward the
// destination, nearest first. Squared distance is a cheap proxy for travel
// time and only relative order matters.
func (c *Coordinator) candidateDonors(states []*nodeState, dest *nodeState, res shared.Resource) []*nodeState {
	type candidate struct {
		distance float64
		state    *nodeState
	}

	var candidates []candidate
	for _, source := range states {
		if source.node.ID == dest.node.ID {
			continue
		}
		if !source.node.Enabled {
			continue
		}
		if c.settings.BlockWhenUnderAttack && source.node.UnderAttack {
			continue
		}
		if source.node.MarketLevel <= 0 {
			continue
		}
		if source.merchantCapacity < c.settings.MinChunk {
			continue
		}
		if source.pendingNeeds.Get(res) > 0 {
			continue
		}
		if c.exportableAmount(source, res) < c.settings.MinChunk {
			continue
		}
		candidates = append(candidates, candidate{
			distance: source.node.Position.DistanceSquaredTo(dest.node.Position),
			state:    source,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	donors := make([]*nodeState, len(candidates))
	for i, cand := range candidates {
		donors[i] = cand.state
	}
	return donors
}

// exportableAmount is the donor's stock above its reserve, where the reserve
// is the larger of the storage reserve fraction and its own outstanding
// demand for that commodity.
func (c *Coordinator) exportableAmount(state *nodeState, res shared.Resource) int {
	reserveStorage := 0
	if state.node.Storage > 0 {
		reserveStorage = int(float64(state.node.Storage) * c.settings.ReserveFraction)
	}
	reserve := maxInt(reserveStorage, state.requestTotals.Get(res))
	return maxInt(0, state.remaining.Get(res)-reserve)
}

// clampToHeadroom limits a deficit to the destination's remaining planned
// storage headroom under the needs-more threshold.
func (c *Coordinator) clampToHeadroom(state *nodeState, res shared.Resource, deficit int) int {
	if state.node.Storage <= 0 {
		return deficit
	}
	target := int(float64(state.node.Storage) * c.settings.NeedsMoreFraction)
	level := state.node.Stocks.Get(res) + state.node.Incoming.Get(res) + state.plannedIncoming.Get(res)
	return minInt(deficit, maxInt(0, target-level))
}

func (c *Coordinator) eligibleDestination(state *nodeState) bool {
	if !state.node.Enabled {
		return false
	}
	if c.settings.BlockWhenUnderAttack && state.node.UnderAttack {
		return false
	}
	return true
}

func (c *Coordinator) applyChunk(amount int) int {
	chunk := c.settings.MinChunk
	if chunk <= 0 {
		return maxInt(0, amount)
	}
	return maxInt(0, amount/chunk*chunk)
}

func (c *Coordinator) routeOnCooldown(route Route, now time.Time) bool {
	cooldown := c.settings.Cooldown()
	if cooldown <= 0 {
		return false
	}
	last, ok := c.ledger.LastAttempt(route)
	if !ok {
		return false
	}
	return now.Sub(last) < cooldown
}

// shipmentSet aggregates planned amounts per route while preserving the order
// routes were opened, keeping plans deterministic.
type shipmentSet struct {
	order []Route
	byKey map[Route]*Shipment
}

func newShipmentSet() *shipmentSet {
	return &shipmentSet{byKey: make(map[Route]*Shipment)}
}

func (s *shipmentSet) has(route Route) bool {
	_, ok := s.byKey[route]
	return ok
}

func (s *shipmentSet) len() int {
	return len(s.order)
}

func (s *shipmentSet) open(route Route) {
	s.order = append(s.order, route)
	s.byKey[route] = &Shipment{
		SourceID:      route.SourceID,
		DestinationID: route.DestinationID,
		Resources:     shared.NewResourceSet(),
	}
}

func (s *shipmentSet) add(route Route, res shared.Resource, amount int) {
	s.byKey[route].Resources[res] += amount
}

func (s *shipmentSet) nonEmpty() []Shipment {
	shipments := make([]Shipment, 0, len(s.order))
	for _, route := range s.order {
		if shipment := s.byKey[route]; !shipment.IsEmpty() {
			shipments = append(shipments, *shipment)
		}
	}
	return shipments
}

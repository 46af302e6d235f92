package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// redistributionContext holds state for coordinator scenarios
type redistributionContext struct {
	settings    logistics.Settings
	clock       *shared.MockClock
	ledger      *logistics.MemoryLedger
	coordinator *logistics.Coordinator
	nodes       []*logistics.Node
	nodesByID   map[string]*logistics.Node
	shipments   []logistics.Shipment
}

func (rc *redistributionContext) reset() {
	rc.settings = logistics.DefaultSettings()
	rc.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	rc.ledger = logistics.NewMemoryLedger()
	rc.coordinator = nil
	rc.nodes = nil
	rc.nodesByID = make(map[string]*logistics.Node)
	rc.shipments = nil
}

func InitializeRedistributionScenario(ctx *godog.ScenarioContext) {
	rc := &redistributionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	// Background
	ctx.Step(`^redistribution is enabled with chunk size (\d+) and a cooldown of (\d+) minutes$`, rc.redistributionIsEnabled)

	// World setup
	ctx.Step(`^a node "([^"]*)" at \((-?\d+), (-?\d+)\) with storage (\d+)$`, rc.aNodeAtWithStorage)
	ctx.Step(`^node "([^"]*)" stocks (\d+) (wood|stone|iron)$`, rc.nodeStocks)
	ctx.Step(`^node "([^"]*)" has (\d+) merchants available$`, rc.nodeHasMerchants)
	ctx.Step(`^node "([^"]*)" requests (\d+) (wood|stone|iron) for construction$`, rc.nodeRequestsForConstruction)
	ctx.Step(`^node "([^"]*)" is under attack$`, rc.nodeIsUnderAttack)

	// Actions
	ctx.Step(`^shipments are planned$`, rc.shipmentsArePlanned)
	ctx.Step(`^the planned shipments are dispatched$`, rc.thePlannedShipmentsAreDispatched)
	ctx.Step(`^the clock advances (\d+) minutes$`, rc.theClockAdvancesMinutes)

	// Assertions
	ctx.Step(`^exactly (\d+) shipments? should be planned$`, rc.exactlyShipmentsShouldBePlanned)
	ctx.Step(`^no shipments should be planned$`, rc.noShipmentsShouldBePlanned)
	ctx.Step(`^a shipment of (\d+) (wood|stone|iron) should travel from "([^"]*)" to "([^"]*)"$`, rc.aShipmentShouldTravel)
}

func (rc *redistributionContext) redistributionIsEnabled(chunk, cooldownMinutes int) error {
	rc.settings.Enabled = true
	rc.settings.MinChunk = chunk
	rc.settings.CooldownMinutes = cooldownMinutes

	coordinator, err := logistics.NewCoordinator(rc.settings, rc.ledger, rc.clock)
	if err != nil {
		return fmt.Errorf("failed to create coordinator: %w", err)
	}
	rc.coordinator = coordinator
	return nil
}

func (rc *redistributionContext) aNodeAtWithStorage(id string, x, y, storage int) error {
	node := &logistics.Node{
		ID:          id,
		Name:        id,
		Position:    shared.Position{X: x, Y: y},
		Storage:     storage,
		Stocks:      shared.NewResourceSet(),
		Incoming:    shared.NewResourceSet(),
		MarketLevel: 5,
		Enabled:     true,
	}
	rc.nodes = append(rc.nodes, node)
	rc.nodesByID[id] = node
	return nil
}

func (rc *redistributionContext) lookupNode(id string) (*logistics.Node, error) {
	node, ok := rc.nodesByID[id]
	if !ok {
		return nil, fmt.Errorf("unknown node: %s", id)
	}
	return node, nil
}

func (rc *redistributionContext) nodeStocks(id string, amount int, resource string) error {
	node, err := rc.lookupNode(id)
	if err != nil {
		return err
	}
	res, err := shared.ParseResource(resource)
	if err != nil {
		return err
	}
	node.Stocks[res] = amount
	return nil
}

func (rc *redistributionContext) nodeHasMerchants(id string, merchants int) error {
	node, err := rc.lookupNode(id)
	if err != nil {
		return err
	}
	node.MerchantsAvailable = merchants
	node.MerchantsTotal = merchants
	return nil
}

func (rc *redistributionContext) nodeRequestsForConstruction(id string, amount int, resource string) error {
	node, err := rc.lookupNode(id)
	if err != nil {
		return err
	}
	res, err := shared.ParseResource(resource)
	if err != nil {
		return err
	}
	node.Requests = append(node.Requests, logistics.DemandRequest{
		Resource: res,
		Amount:   amount,
		Priority: logistics.PriorityForSource("building"),
		Source:   "building",
	})
	return nil
}

func (rc *redistributionContext) nodeIsUnderAttack(id string) error {
	node, err := rc.lookupNode(id)
	if err != nil {
		return err
	}
	node.UnderAttack = true
	return nil
}

func (rc *redistributionContext) shipmentsArePlanned() error {
	if rc.coordinator == nil {
		return fmt.Errorf("coordinator not configured")
	}
	shipments, err := rc.coordinator.PlanShipments(rc.nodes)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	rc.shipments = shipments
	return nil
}

func (rc *redistributionContext) thePlannedShipmentsAreDispatched() error {
	if err := rc.coordinator.RecordDispatched(rc.shipments); err != nil {
		return fmt.Errorf("dispatch recording failed: %w", err)
	}
	return nil
}

func (rc *redistributionContext) theClockAdvancesMinutes(minutes int) error {
	rc.clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func (rc *redistributionContext) exactlyShipmentsShouldBePlanned(expected int) error {
	if len(rc.shipments) != expected {
		return fmt.Errorf("expected %d shipments, got %d", expected, len(rc.shipments))
	}
	return nil
}

func (rc *redistributionContext) noShipmentsShouldBePlanned() error {
	return rc.exactlyShipmentsShouldBePlanned(0)
}

func (rc *redistributionContext) aShipmentShouldTravel(amount int, resource, source, destination string) error {
	res, err := shared.ParseResource(resource)
	if err != nil {
		return err
	}
	for _, shipment := range rc.shipments {
		if shipment.SourceID != source || shipment.DestinationID != destination {
			continue
		}
		if got := shipment.Resources.Get(res); got != amount {
			return fmt.Errorf("shipment %s->%s carries %d %s, expected %d", source, destination, got, res, amount)
		}
		return nil
	}
	return fmt.Errorf("no shipment from %s to %s planned", source, destination)
}

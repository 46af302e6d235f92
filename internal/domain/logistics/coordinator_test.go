package logistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

func enabledSettings() logistics.Settings {
	settings := logistics.DefaultSettings()
	settings.Enabled = true
	return settings
}

func newCoordinator(t *testing.T, settings logistics.Settings, clock shared.Clock) (*logistics.Coordinator, *logistics.MemoryLedger) {
	t.Helper()
	ledger := logistics.NewMemoryLedger()
	coordinator, err := logistics.NewCoordinator(settings, ledger, clock)
	require.NoError(t, err)
	return coordinator, ledger
}

func stocks(wood, stone, iron int) shared.ResourceSet {
	return shared.ResourceSet{shared.Wood: wood, shared.Stone: stone, shared.Iron: iron}
}

// testNode builds an enabled node with sane defaults for coordination tests
func testNode(id string, x, y int) *logistics.Node {
	return &logistics.Node{
		ID:                 id,
		Name:               id,
		Position:           shared.Position{X: x, Y: y},
		Storage:            10000,
		Stocks:             stocks(0, 0, 0),
		Incoming:           shared.NewResourceSet(),
		MarketLevel:        5,
		MerchantsAvailable: 0,
		MerchantsTotal:     10,
		Enabled:            true,
	}
}

func TestCoordinator_PlanShipments_Disabled(t *testing.T) {
	// Arrange
	settings := logistics.DefaultSettings()
	coordinator, _ := newCoordinator(t, settings, nil)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Stone, Amount: 5000, Priority: logistics.PriorityBuilding}}

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_ChunkedShortfall(t *testing.T) {
	// Arrange - shortfall 2500 rounds down to 2000; the donor can export 3000
	// but only has transport capacity for 2000
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Stone, Amount: 2500, Priority: logistics.PriorityBuilding, Source: "building"}}

	donor := testNode("donor", 3, 4)
	donor.Stocks = stocks(0, 5500, 0) // reserve 2500, exportable 3000
	donor.MerchantsAvailable = 2      // capacity 2000

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "donor", shipments[0].SourceID)
	assert.Equal(t, "dest", shipments[0].DestinationID)
	assert.Equal(t, 2000, shipments[0].Resources.Get(shared.Stone))
}

func TestCoordinator_PlanShipments_RequestCoveredByStockAndIncoming(t *testing.T) {
	// Arrange - stock plus in-flight already satisfies the request
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Stocks = stocks(0, 1500, 0)
	dest.Incoming = stocks(0, 1000, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Stone, Amount: 2500, Priority: logistics.PriorityBuilding}}

	donor := testNode("donor", 1, 1)
	donor.Stocks = stocks(0, 9000, 0)
	donor.MerchantsAvailable = 5

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_NearestDonorFirst(t *testing.T) {
	// Arrange - two capable donors; the nearer one covers the whole need
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 1000, Priority: logistics.PriorityBuilding}}

	near := testNode("near", 1, 1)
	near.Stocks = stocks(9000, 0, 0)
	near.MerchantsAvailable = 5

	far := testNode("far", 10, 10)
	far.Stocks = stocks(9000, 0, 0)
	far.MerchantsAvailable = 5

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, far, near})

	// Assert
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "near", shipments[0].SourceID)
}

func TestCoordinator_PlanShipments_SameRouteAggregates(t *testing.T) {
	// Arrange - two commodities for the same destination travel as one shipment
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{
		{Resource: shared.Wood, Amount: 1000, Priority: logistics.PriorityBuilding},
		{Resource: shared.Stone, Amount: 1000, Priority: logistics.PriorityBuilding},
	}

	donor := testNode("donor", 2, 2)
	donor.Stocks = stocks(5500, 5500, 0)
	donor.MerchantsAvailable = 2

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, 1000, shipments[0].Resources.Get(shared.Wood))
	assert.Equal(t, 1000, shipments[0].Resources.Get(shared.Stone))
}

func TestCoordinator_PlanShipments_DonorEligibility(t *testing.T) {
	// Arrange - every donor is disqualified for a different reason
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Iron, Amount: 2000, Priority: logistics.PriorityBuilding}}

	attacked := testNode("attacked", 1, 0)
	attacked.Stocks = stocks(0, 0, 9000)
	attacked.MerchantsAvailable = 5
	attacked.UnderAttack = true

	noMarket := testNode("no-market", 0, 1)
	noMarket.Stocks = stocks(0, 0, 9000)
	noMarket.MerchantsAvailable = 5
	noMarket.MarketLevel = 0

	disabled := testNode("disabled", 1, 1)
	disabled.Stocks = stocks(0, 0, 9000)
	disabled.MerchantsAvailable = 5
	disabled.Enabled = false

	noMerchants := testNode("no-merchants", 2, 1)
	noMerchants.Stocks = stocks(0, 0, 9000)

	demanding := testNode("demanding", 2, 2)
	demanding.Stocks = stocks(0, 0, 9000)
	demanding.MerchantsAvailable = 5
	demanding.Requests = []logistics.DemandRequest{{Resource: shared.Iron, Amount: 8000, Priority: logistics.PrioritySnob}}

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, attacked, noMarket, disabled, noMerchants, demanding})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_AttackedDestinationSkipped(t *testing.T) {
	// Arrange
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.UnderAttack = true
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 2000, Priority: logistics.PriorityBuilding}}

	donor := testNode("donor", 1, 1)
	donor.Stocks = stocks(9000, 0, 0)
	donor.MerchantsAvailable = 5

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_MaxShipmentsStopsAllocation(t *testing.T) {
	// Arrange - two destinations, the global cap admits only one shipment
	settings := enabledSettings()
	settings.MaxShipmentsPerRun = 1
	coordinator, _ := newCoordinator(t, settings, nil)

	destA := testNode("dest-a", 0, 0)
	destA.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 2000, Priority: logistics.PriorityBuilding}}

	destB := testNode("dest-b", 5, 5)
	destB.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 1000, Priority: logistics.PriorityBuilding}}

	donorA := testNode("donor-a", 1, 0)
	donorA.Stocks = stocks(9000, 0, 0)
	donorA.MerchantsAvailable = 2

	donorB := testNode("donor-b", 5, 6)
	donorB.Stocks = stocks(9000, 0, 0)
	donorB.MerchantsAvailable = 2

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{destA, destB, donorA, donorB})

	// Assert - larger deficit goes first, then allocation halts entirely
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "dest-a", shipments[0].DestinationID)
}

func TestCoordinator_PlanShipments_PriorityOrder(t *testing.T) {
	// Arrange - donor capacity covers only one need; construction outranks
	// recruitment despite the smaller amount
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	building := testNode("building", 0, 0)
	building.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 1000, Priority: logistics.PriorityForSource("building"), Source: "building"}}

	recruiting := testNode("recruiting", 0, 2)
	recruiting.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 3000, Priority: logistics.PriorityForSource("recruitment:barracks"), Source: "recruitment:barracks"}}

	donor := testNode("donor", 0, 1)
	donor.Stocks = stocks(3500, 0, 0) // exportable 1000
	donor.MerchantsAvailable = 1

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{recruiting, building, donor})

	// Assert
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "building", shipments[0].DestinationID)
	assert.Equal(t, 1000, shipments[0].Resources.Get(shared.Wood))
}

func TestCoordinator_PlanShipments_HeadroomClampsDeficit(t *testing.T) {
	// Arrange - the destination is nearly full, so the planned amount stays
	// under the needs-more threshold
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)
	dest.Stocks = stocks(8000, 0, 0) // target 8500, headroom 500 -> chunks to 0
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Wood, Amount: 9000, Priority: logistics.PriorityBuilding}}

	donor := testNode("donor", 1, 1)
	donor.Stocks = stocks(9000, 0, 0)
	donor.MerchantsAvailable = 5

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_BalanceEvenTopsUp(t *testing.T) {
	// Arrange - no requests anywhere; balance mode tops up the empty node
	settings := enabledSettings()
	settings.Mode = logistics.ModeBalanceEven
	coordinator, _ := newCoordinator(t, settings, nil)

	dest := testNode("dest", 0, 0)

	donor := testNode("donor", 2, 2)
	donor.Stocks = stocks(12000, 0, 0)
	donor.MerchantsAvailable = 10

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert - deficit 8500 chunks to 8000, capped by exportable 9500
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Equal(t, "donor", shipments[0].SourceID)
	assert.Equal(t, "dest", shipments[0].DestinationID)
	assert.Equal(t, 8000, shipments[0].Resources.Get(shared.Wood))
}

func TestCoordinator_PlanShipments_BalanceEvenNeverShipsToSelf(t *testing.T) {
	// Arrange - the hub sits below the balance target (5000 < 8500) while
	// also holding stock above its reserve (5000 > 2500), so it is the only
	// node that could cover its own gap
	settings := enabledSettings()
	settings.Mode = logistics.ModeBalanceEven
	coordinator, _ := newCoordinator(t, settings, nil)

	hub := testNode("hub", 0, 0)
	hub.Stocks = stocks(5000, 0, 0)
	hub.MerchantsAvailable = 5

	idle := testNode("idle", 8, 8)
	idle.Enabled = false

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{hub, idle})

	// Assert - a node never donates to itself
	require.NoError(t, err)
	assert.Empty(t, shipments)
	for _, shipment := range shipments {
		assert.NotEqual(t, shipment.SourceID, shipment.DestinationID)
	}
}

func TestCoordinator_PlanShipments_RequestsOnlyIgnoresGaps(t *testing.T) {
	// Arrange - same world as the balance test but in requests-only mode
	coordinator, _ := newCoordinator(t, enabledSettings(), nil)

	dest := testNode("dest", 0, 0)

	donor := testNode("donor", 2, 2)
	donor.Stocks = stocks(12000, 0, 0)
	donor.MerchantsAvailable = 10

	// Act
	shipments, err := coordinator.PlanShipments([]*logistics.Node{dest, donor})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, shipments)
}

func TestCoordinator_PlanShipments_DryRunIdempotent(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	coordinator, ledger := newCoordinator(t, enabledSettings(), clock)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Stone, Amount: 2000, Priority: logistics.PriorityBuilding}}

	donor := testNode("donor", 1, 1)
	donor.Stocks = stocks(0, 9000, 0)
	donor.MerchantsAvailable = 5

	nodes := []*logistics.Node{dest, donor}

	// Act - plan twice without recording a dispatch
	first, err := coordinator.PlanShipments(nodes)
	require.NoError(t, err)
	second, err := coordinator.PlanShipments(nodes)
	require.NoError(t, err)

	// Assert - identical plans, ledger untouched
	assert.Equal(t, first, second)
	assert.Equal(t, 0, ledger.Len())
}

func TestCoordinator_PlanShipments_RouteCooldown(t *testing.T) {
	// Arrange
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	coordinator, _ := newCoordinator(t, enabledSettings(), clock)

	dest := testNode("dest", 0, 0)
	dest.Requests = []logistics.DemandRequest{{Resource: shared.Stone, Amount: 2000, Priority: logistics.PriorityBuilding}}

	donor := testNode("donor", 1, 1)
	donor.Stocks = stocks(0, 9000, 0)
	donor.MerchantsAvailable = 5

	nodes := []*logistics.Node{dest, donor}

	shipments, err := coordinator.PlanShipments(nodes)
	require.NoError(t, err)
	require.Len(t, shipments, 1)

	// Act - record the dispatch, then replan inside the cooldown window
	require.NoError(t, coordinator.RecordDispatched(shipments))

	clock.Advance(5 * time.Minute)
	blocked, err := coordinator.PlanShipments(nodes)
	require.NoError(t, err)

	// Assert
	assert.Empty(t, blocked, "route must stay blocked inside the cooldown window")

	// Act - replan after the window has passed
	clock.Advance(6 * time.Minute)
	reopened, err := coordinator.PlanShipments(nodes)
	require.NoError(t, err)

	// Assert
	require.Len(t, reopened, 1)
	assert.Equal(t, "donor", reopened[0].SourceID)
}

func TestCoordinator_RecordDispatched_Empty(t *testing.T) {
	coordinator, ledger := newCoordinator(t, enabledSettings(), nil)

	require.NoError(t, coordinator.RecordDispatched(nil))
	assert.Equal(t, 0, ledger.Len())
}

func TestNewCoordinator_InvalidSettings(t *testing.T) {
	settings := enabledSettings()
	settings.ReserveFraction = 1.5

	_, err := logistics.NewCoordinator(settings, logistics.NewMemoryLedger(), nil)

	assert.Error(t, err)
}

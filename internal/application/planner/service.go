package planner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tribebot/tribebot-go/internal/domain/allocation"
	"github.com/tribebot/tribebot-go/internal/domain/logistics"
	"github.com/tribebot/tribebot-go/internal/domain/market"
	"github.com/tribebot/tribebot-go/internal/domain/shared"
	"github.com/tribebot/tribebot-go/internal/domain/strategy"
)

const (
	// defaultSurplusRatio keeps storage/ratio of a commodity out of premium
	// trading, matching the resource manager's keep buffer.
	defaultSurplusRatio = 2.5

	// maxTradeLeftoverRatio skips trades whose merchant wagons would travel
	// mostly empty.
	maxTradeLeftoverRatio = 0.4
)

// TickResult is the ordered output of one planning tick. An empty action list
// is a normal outcome ("nothing to do"), distinct from a tick that failed.
type TickResult struct {
	Strategy strategy.Name `json:"strategy"`
	// RealizedLoot is the total capped yield of the chosen allocation plan
	RealizedLoot int      `json:"realizedLoot"`
	Actions      []Action `json:"actions"`
}

// Service runs the planning tick: it feeds the snapshot through the strategy
// arbiter, the premium-trade check and the logistics coordinator, and emits
// the combined action list.
//
// Per-item failures (a bad opportunity, an unparsable node, a pricing error)
// are logged and skipped; they never abort the remainder of the tick.
type Service struct {
	arbiter      *strategy.Arbiter
	coordinator  *logistics.Coordinator
	classes      []allocation.UnitClass
	surplusRatio float64
	logger       *log.Logger
	metrics      Metrics
}

// NewService wires the planning service. Metrics may be nil to disable
// observation; logger may be nil to use the process default.
func NewService(
	arbiter *strategy.Arbiter,
	coordinator *logistics.Coordinator,
	classes []allocation.UnitClass,
	logger *log.Logger,
	metrics Metrics,
) (*Service, error) {
	if arbiter == nil {
		return nil, fmt.Errorf("strategy arbiter cannot be nil")
	}
	if coordinator == nil {
		return nil, fmt.Errorf("logistics coordinator cannot be nil")
	}
	if len(classes) == 0 {
		classes = allocation.DefaultUnitClasses()
	}
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Service{
		arbiter:      arbiter,
		coordinator:  coordinator,
		classes:      classes,
		surplusRatio: defaultSurplusRatio,
		logger:       logger,
		metrics:      metrics,
	}, nil
}

// PlanTick produces the ordered action list for one snapshot: allocation
// actions for the winning strategy first, then an optional premium trade,
// then shipments. The engine performs no I/O; dispatching the actions and
// reporting outcomes into the next snapshot is the executor's job.
func (s *Service) PlanTick(ctx context.Context, snapshot *Snapshot) (*TickResult, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes := s.convertNodes(snapshot)
	units := pooledUnits(nodes)

	raidTargets := s.convertOpportunities(snapshot.RaidTargets, true)
	gatherOptions := s.convertOpportunities(snapshot.GatherOptions, false)

	chosen, plan := s.arbiter.ChooseStrategy(units, raidTargets, gatherOptions)

	result := &TickResult{
		Strategy:     chosen,
		RealizedLoot: plan.TotalRealizedLoot(),
	}
	for _, entry := range plan.Entries {
		result.Actions = append(result.Actions, newAllocateAction(entry.OpportunityID, entry.Units))
	}

	trades := 0
	if trade, ok := s.planPremiumTrade(snapshot, nodes); ok {
		result.Actions = append(result.Actions, trade)
		trades = 1
	}

	shipments, err := s.coordinator.PlanShipments(nodes)
	if err != nil {
		// Logistics trouble must not block allocation for the rest of the
		// tick; the executor simply gets no shipments this round.
		s.logger.Printf("logistics planning skipped: %v", err)
		shipments = nil
	}
	for _, shipment := range shipments {
		result.Actions = append(result.Actions, newShipmentAction(shipment))
	}

	s.metrics.ObserveTick(string(chosen), len(plan.Entries), len(shipments), trades, result.RealizedLoot)
	return result, nil
}

// Coordinator exposes the logistics coordinator so executors can record
// dispatched routes after a non-dry-run tick.
func (s *Service) Coordinator() *logistics.Coordinator {
	return s.coordinator
}

func (s *Service) convertNodes(snapshot *Snapshot) []*logistics.Node {
	nodes := make([]*logistics.Node, 0, len(snapshot.Nodes))
	for _, ns := range snapshot.Nodes {
		node, err := ns.ToNode()
		if err != nil {
			s.logger.Printf("skipping node %s: %v", ns.ID, err)
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (s *Service) convertOpportunities(snapshots []OpportunitySnapshot, raid bool) []allocation.Opportunity {
	opportunities := make([]allocation.Opportunity, 0, len(snapshots))
	for _, os := range snapshots {
		var (
			opp allocation.Opportunity
			err error
		)
		if raid {
			opp, err = os.ToRaidOpportunity()
		} else {
			opp, err = os.ToGatherOpportunity()
		}
		if err != nil {
			s.logger.Printf("skipping opportunity %s: %v", os.ID, err)
			continue
		}
		opportunities = append(opportunities, opp)
	}
	return opportunities
}

// pooledUnits sums the garrisons of all enabled, unthreatened nodes into the
// shared allocation pool.
func pooledUnits(nodes []*logistics.Node) map[string]int {
	pool := make(map[string]int)
	for _, node := range nodes {
		if !node.Enabled || node.UnderAttack {
			continue
		}
		for id, count := range node.UnitsAtHome {
			pool[id] += count
		}
	}
	return pool
}

// planPremiumTrade checks each node for a clear commodity surplus and, for
// the first one found, prices a sale on the internal exchange. The trade is
// skipped when pricing fails, when the packed wagons would be too empty, or
// when selling would eat into the keep buffer.
func (s *Service) planPremiumTrade(snapshot *Snapshot, nodes []*logistics.Node) (Action, bool) {
	if snapshot.Market == nil {
		return Action{}, false
	}

	quote, err := snapshot.Market.ToQuote()
	if err != nil {
		s.logger.Printf("premium trade skipped: %v", err)
		return Action{}, false
	}
	pricing, err := market.NewPricingModel(quote)
	if err != nil {
		s.logger.Printf("premium trade skipped: %v", err)
		return Action{}, false
	}

	merchantCarry := s.coordinator.Settings().MerchantCapacity

	for _, node := range nodes {
		if !node.Enabled || node.UnderAttack || node.MerchantsAvailable < 1 {
			continue
		}

		res, surplus, ok := s.surplusOf(node)
		if !ok {
			continue
		}

		unitsPerPoint, err := pricing.RateForOnePoint(res)
		if err != nil {
			if errors.Is(err, market.ErrInvalidMarketConstant) || errors.Is(err, market.ErrInsufficientStock) {
				// Broken quote for this commodity; no trading this tick.
				s.logger.Printf("premium pricing failed for %s: %v", res, err)
				return Action{}, false
			}
			s.logger.Printf("premium pricing failed for %s: %v", res, err)
			continue
		}
		if unitsPerPoint <= 0 {
			continue
		}

		sellable := minIntPair(surplus, node.MerchantsAvailable*merchantCarry)
		if sellable <= 0 {
			continue
		}

		pack := market.PackMerchants(sellable, node.MerchantsAvailable, merchantCarry)
		if pack.AmountSent <= 0 || pack.LeftoverRatio > maxTradeLeftoverRatio {
			continue
		}

		// Align the sale to whole premium points.
		sellUnits := pack.AmountSent / unitsPerPoint * unitsPerPoint
		if sellUnits <= 0 {
			continue
		}

		return newPremiumTradeAction(node.ID, res, sellUnits, pack.MerchantsUsed, unitsPerPoint), true
	}

	return Action{}, false
}

// surplusOf returns the node's most abundant commodity above the keep buffer,
// skipping commodities the node itself still needs.
func (s *Service) surplusOf(node *logistics.Node) (shared.Resource, int, bool) {
	if node.Storage <= 0 {
		return "", 0, false
	}
	buffer := int(float64(node.Storage) / s.surplusRatio)
	totals := node.RequestTotals()

	var (
		best       shared.Resource
		bestAmount int
	)
	for _, res := range shared.Resources {
		if totals.Get(res) > 0 {
			continue
		}
		amount := node.Stocks.Get(res)
		if amount > buffer && amount > bestAmount {
			best = res
			bestAmount = amount
		}
	}
	if best == "" {
		return "", 0, false
	}
	return best, bestAmount - buffer, true
}

func minIntPair(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package strategy

import (
	"github.com/tribebot/tribebot-go/internal/domain/allocation"
)

// Name identifies one of the two mutually exclusive resource-generation
// strategies.
type Name string

const (
	// StrategyRaid sends units against raid targets
	StrategyRaid Name = "raiding"
	// StrategyGather commits units to gather slots
	StrategyGather Name = "gathering"
)

// Arbiter picks between raiding and gathering by comparing the realized loot
// of the plan each strategy would produce from the same unit pool.
type Arbiter struct {
	raid   *allocation.Allocator
	gather *allocation.Allocator
}

// NewArbiter creates an arbiter over the two strategy allocators
func NewArbiter(raid, gather *allocation.Allocator) *Arbiter {
	return &Arbiter{raid: raid, gather: gather}
}

// ChooseStrategy plans both strategies and returns the better-yielding one.
// Raiding wins ties so the decision is deterministic for identical snapshots.
func (a *Arbiter) ChooseStrategy(
	available map[string]int,
	raidTargets []allocation.Opportunity,
	gatherOptions []allocation.Opportunity,
) (Name, allocation.Plan) {
	raidPlan := a.raid.Plan(available, raidTargets)
	gatherPlan := a.gather.Plan(available, gatherOptions)

	if gatherPlan.TotalRealizedLoot() > raidPlan.TotalRealizedLoot() {
		return StrategyGather, gatherPlan
	}
	return StrategyRaid, raidPlan
}

// UnifiedMarginalIncome reports, per unit class, the value of one more unit
// as the maximum over both strategies. The marginal unit is worth whatever
// the strategy that exploits it best would earn, independent of which
// strategy is currently active.
func (a *Arbiter) UnifiedMarginalIncome(
	available map[string]int,
	raidTargets []allocation.Opportunity,
	gatherOptions []allocation.Opportunity,
) map[string]int {
	raidIncomes := a.raid.MarginalIncome(available, raidTargets)
	gatherIncomes := a.gather.MarginalIncome(available, gatherOptions)

	unified := make(map[string]int, len(raidIncomes))
	for id, income := range raidIncomes {
		unified[id] = income
	}
	for id, income := range gatherIncomes {
		if income > unified[id] {
			unified[id] = income
		}
	}
	return unified
}

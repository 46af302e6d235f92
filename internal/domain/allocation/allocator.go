package allocation

import (
	"sort"
)

// scoreEpsilon guards the loot-per-hour division for opportunities whose
// duration rounds to zero.
const scoreEpsilon = 1e-9

// Allocator greedily assigns a shared pool of mobile units to scored
// opportunities. Greedy, non-optimal allocation is intentional: downstream
// action ordering depends on its tie-breaks, so this must not be replaced
// with an exact knapsack solver.
//
// The allocator is stateless and deterministic; instantiate one per
// opportunity source (raid targets, gather slots).
type Allocator struct {
	classes []UnitClass
}

// NewAllocator creates an allocator over a unit catalog. Classes that cannot
// carry anything are dropped up front.
func NewAllocator(classes []UnitClass) *Allocator {
	carriers := make([]UnitClass, 0, len(classes))
	for _, class := range classes {
		if class.CarryCapacity > 0 {
			carriers = append(carriers, class)
		}
	}
	// Most efficient carriers first; stable order keeps plans deterministic.
	sort.SliceStable(carriers, func(i, j int) bool {
		if carriers[i].CarryCapacity != carriers[j].CarryCapacity {
			return carriers[i].CarryCapacity > carriers[j].CarryCapacity
		}
		return carriers[i].ID < carriers[j].ID
	})
	return &Allocator{classes: carriers}
}

// Classes returns the carrier catalog in allocation order
func (a *Allocator) Classes() []UnitClass {
	return a.classes
}

type scoredOpportunity struct {
	opportunity Opportunity
	score       float64
}

// Plan builds a greedy assignment of the available units across the given
// opportunities.
//
// Algorithm:
//  1. Score every open, unclaimed opportunity as loot per hour and sort
//     descending.
//  2. Walk opportunities in score order; for each, assign units from the
//     shared pool in descending carry-capacity order, ceil-dividing the
//     remaining loot by each class's capacity, until the loot is covered or
//     the pool is empty.
//  3. Emit one entry per opportunity that received at least one unit, with
//     realized loot capped at the assigned carry capacity.
//
// Empty unit pools or opportunity lists yield an empty plan.
func (a *Allocator) Plan(available map[string]int, opportunities []Opportunity) Plan {
	if len(available) == 0 || len(opportunities) == 0 {
		return Plan{}
	}

	scored := a.score(opportunities)
	remaining := a.carrierPool(available)

	var entries []PlanEntry
	for _, candidate := range scored {
		if poolEmpty(remaining) {
			break
		}

		lootToCarry := candidate.opportunity.TotalLoot()
		units := make(map[string]int)
		assignedCapacity := 0

		for _, class := range a.classes {
			if lootToCarry <= 0 || remaining[class.ID] == 0 {
				continue
			}

			needed := ceilDiv(lootToCarry, class.CarryCapacity)
			send := needed
			if send > remaining[class.ID] {
				send = remaining[class.ID]
			}

			units[class.ID] = send
			remaining[class.ID] -= send
			lootToCarry -= send * class.CarryCapacity
			assignedCapacity += send * class.CarryCapacity
		}

		if len(units) == 0 {
			continue
		}

		estimated := candidate.opportunity.TotalLoot()
		realized := estimated
		if assignedCapacity < realized {
			realized = assignedCapacity
		}

		entries = append(entries, PlanEntry{
			OpportunityID: candidate.opportunity.ID,
			Units:         units,
			EstimatedLoot: estimated,
			RealizedLoot:  realized,
		})
	}

	return Plan{Entries: entries}
}

// MarginalIncome reports, per unit class, how much additional loot one extra
// unit of that class would realize. The baseline plan is recomputed once per
// class; plans are cheap and infrequent, so the O(classes) re-planning is
// acceptable.
func (a *Allocator) MarginalIncome(available map[string]int, opportunities []Opportunity) map[string]int {
	incomes := make(map[string]int, len(a.classes))
	for _, class := range a.classes {
		incomes[class.ID] = 0
	}
	if len(opportunities) == 0 {
		return incomes
	}

	baseline := a.Plan(available, opportunities).TotalRealizedLoot()

	for _, class := range a.classes {
		hypothetical := make(map[string]int, len(available)+1)
		for id, count := range available {
			hypothetical[id] = count
		}
		hypothetical[class.ID]++

		incomes[class.ID] = a.Plan(hypothetical, opportunities).TotalRealizedLoot() - baseline
	}
	return incomes
}

// score filters and ranks opportunities by loot per hour, descending. Locked
// or already-running opportunities are excluded, as are zero-loot ones.
func (a *Allocator) score(opportunities []Opportunity) []scoredOpportunity {
	scored := make([]scoredOpportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if !opp.Open() {
			continue
		}
		loot := opp.TotalLoot()
		if loot <= 0 {
			continue
		}
		hours := opp.DurationHours
		if hours < scoreEpsilon {
			hours = scoreEpsilon
		}
		scored = append(scored, scoredOpportunity{
			opportunity: opp,
			score:       float64(loot) / hours,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// carrierPool copies the available counts for classes that can carry loot
func (a *Allocator) carrierPool(available map[string]int) map[string]int {
	pool := make(map[string]int, len(a.classes))
	for _, class := range a.classes {
		if count := available[class.ID]; count > 0 {
			pool[class.ID] = count
		}
	}
	return pool
}

func poolEmpty(pool map[string]int) bool {
	for _, count := range pool {
		if count > 0 {
			return false
		}
	}
	return true
}

func ceilDiv(amount, capacity int) int {
	return (amount + capacity - 1) / capacity
}

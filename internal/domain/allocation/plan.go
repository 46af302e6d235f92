package allocation

// PlanEntry assigns unit counts to one opportunity
type PlanEntry struct {
	OpportunityID string
	// Units maps unit class ID to the number of units assigned
	Units map[string]int
	// EstimatedLoot is the opportunity's predicted yield
	EstimatedLoot int
	// RealizedLoot is the yield capped at the assigned carry capacity
	RealizedLoot int
}

// CarryCapacity returns the total carry capacity of the assigned units
func (e PlanEntry) CarryCapacity(classes []UnitClass) int {
	total := 0
	for _, class := range classes {
		total += e.Units[class.ID] * class.CarryCapacity
	}
	return total
}

// Plan is an ordered list of assignments; purely a value, no behavior beyond
// aggregation.
type Plan struct {
	Entries []PlanEntry
}

// TotalRealizedLoot sums the capped yield across all entries
func (p Plan) TotalRealizedLoot() int {
	total := 0
	for _, entry := range p.Entries {
		total += entry.RealizedLoot
	}
	return total
}

// IsEmpty reports whether the plan assigns no units at all
func (p Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

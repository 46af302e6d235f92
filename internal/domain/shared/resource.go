package shared

import "fmt"

// Resource identifies one of the game's tradable commodity types.
type Resource string

const (
	Wood  Resource = "wood"
	Stone Resource = "stone"
	Iron  Resource = "iron"
)

// Resources lists all commodity types in canonical order. Planning passes
// iterate this slice instead of ranging over maps so plans stay deterministic.
var Resources = []Resource{Wood, Stone, Iron}

// ParseResource validates a resource name coming from an external snapshot
func ParseResource(name string) (Resource, error) {
	switch Resource(name) {
	case Wood, Stone, Iron:
		return Resource(name), nil
	}
	return "", fmt.Errorf("unknown resource: %q", name)
}

// ResourceSet maps each commodity to an integer amount.
// A nil entry is treated as zero everywhere.
type ResourceSet map[Resource]int

// NewResourceSet creates a set with every commodity initialized to zero
func NewResourceSet() ResourceSet {
	set := make(ResourceSet, len(Resources))
	for _, res := range Resources {
		set[res] = 0
	}
	return set
}

// Get returns the amount for a resource, zero if absent
func (s ResourceSet) Get(res Resource) int {
	if s == nil {
		return 0
	}
	return s[res]
}

// Total sums the amounts across all commodities
func (s ResourceSet) Total() int {
	total := 0
	for _, res := range Resources {
		total += s.Get(res)
	}
	return total
}

// Clone returns an independent copy. Scratch state during planning must never
// alias the snapshot's sets.
func (s ResourceSet) Clone() ResourceSet {
	out := NewResourceSet()
	for _, res := range Resources {
		out[res] = s.Get(res)
	}
	return out
}

// IsZero reports whether every commodity amount is zero
func (s ResourceSet) IsZero() bool {
	for _, res := range Resources {
		if s.Get(res) != 0 {
			return false
		}
	}
	return true
}

func (s ResourceSet) String() string {
	return fmt.Sprintf("wood=%d stone=%d iron=%d", s.Get(Wood), s.Get(Stone), s.Get(Iron))
}

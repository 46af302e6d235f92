package logistics

import "sort"

// sortNeeds orders demand entries by priority, then by descending deficit.
// The sort is stable so entries built in snapshot order keep that order on
// ties, which keeps plans reproducible.
func sortNeeds(needs []need) {
	sort.SliceStable(needs, func(i, j int) bool {
		if needs[i].priority != needs[j].priority {
			return needs[i].priority < needs[j].priority
		}
		return needs[i].amount > needs[j].amount
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

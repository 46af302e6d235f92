package logistics

import (
	"sort"

	"github.com/tribebot/tribebot-go/internal/domain/shared"
)

// Node is one production site in the redistribution network. It is rebuilt
// fresh from the external snapshot every planning tick and never mutated by
// the coordinator; all working state lives in per-tick scratch wrappers.
type Node struct {
	ID       string
	Name     string
	Position shared.Position

	// Storage is the warehouse capacity per commodity
	Storage int
	// Stocks are the commodity amounts currently on hand
	Stocks shared.ResourceSet
	// Incoming are amounts already in flight toward this node
	Incoming shared.ResourceSet
	// Requests are the outstanding demands registered against this node
	Requests []DemandRequest

	// UnitsAtHome is the garrison, keyed by unit class ID
	UnitsAtHome map[string]int

	UnderAttack bool
	// MarketLevel gates export ability; level zero cannot ship at all
	MarketLevel        int
	MerchantsAvailable int
	MerchantsTotal     int
	Enabled            bool
}

// RequestTotals sums outstanding demand per commodity, ignoring inert
// zero-amount requests.
func (n *Node) RequestTotals() shared.ResourceSet {
	totals := shared.NewResourceSet()
	for _, req := range n.Requests {
		if req.Amount > 0 {
			totals[req.Resource] += req.Amount
		}
	}
	return totals
}

// SortedRequests returns the node's live requests ordered by priority, then
// by descending amount. The input slice is not modified.
func (n *Node) SortedRequests() []DemandRequest {
	live := make([]DemandRequest, 0, len(n.Requests))
	for _, req := range n.Requests {
		if req.Amount > 0 {
			live = append(live, req)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].Priority != live[j].Priority {
			return live[i].Priority < live[j].Priority
		}
		return live[i].Amount > live[j].Amount
	})
	return live
}

package logistics

import (
	"sync"
	"time"
)

// Route identifies a directed (source, destination) pair
type Route struct {
	SourceID      string
	DestinationID string
}

// Signature returns the persisted route key
func (r Route) Signature() string {
	return r.SourceID + "->" + r.DestinationID
}

// RouteLedger records when a route was last attempted so the coordinator can
// keep anti-thrash cooldowns across ticks. The ledger is the engine's only
// durable state; implementations must be safe for the load-prune-record cycle
// of a single planning tick (no concurrent writers are assumed).
type RouteLedger interface {
	// LastAttempt returns the recorded attempt time for a route, if any
	LastAttempt(route Route) (time.Time, bool)

	// Record stores the attempt time for the given routes
	Record(routes []Route, at time.Time) error

	// PruneOlderThan drops entries recorded before the cutoff
	PruneOlderThan(cutoff time.Time) error
}

// MemoryLedger is an in-memory RouteLedger, used in tests and by callers that
// do not need cooldowns to survive restarts.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryLedger creates an empty in-memory ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]time.Time)}
}

// LastAttempt returns the recorded attempt time for a route, if any
func (l *MemoryLedger) LastAttempt(route Route) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.entries[route.Signature()]
	return at, ok
}

// Record stores the attempt time for the given routes
func (l *MemoryLedger) Record(routes []Route, at time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, route := range routes {
		l.entries[route.Signature()] = at
	}
	return nil
}

// PruneOlderThan drops entries recorded before the cutoff
func (l *MemoryLedger) PruneOlderThan(cutoff time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for signature, at := range l.entries {
		if at.Before(cutoff) {
			delete(l.entries, signature)
		}
	}
	return nil
}

// Len returns the number of recorded routes
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

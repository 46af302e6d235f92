package logistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribebot/tribebot-go/internal/domain/logistics"
)

func TestRoute_Signature(t *testing.T) {
	route := logistics.Route{SourceID: "123", DestinationID: "456"}

	assert.Equal(t, "123->456", route.Signature())
}

func TestMemoryLedger_RecordAndLookup(t *testing.T) {
	// Arrange
	ledger := logistics.NewMemoryLedger()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	routes := []logistics.Route{
		{SourceID: "a", DestinationID: "b"},
		{SourceID: "b", DestinationID: "c"},
	}

	// Act
	require.NoError(t, ledger.Record(routes, at))

	// Assert
	got, ok := ledger.LastAttempt(routes[0])
	assert.True(t, ok)
	assert.Equal(t, at, got)

	// Direction matters: the reverse route is a different signature
	_, ok = ledger.LastAttempt(logistics.Route{SourceID: "b", DestinationID: "a"})
	assert.False(t, ok)
}

func TestMemoryLedger_PruneOlderThan(t *testing.T) {
	// Arrange
	ledger := logistics.NewMemoryLedger()
	old := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	recent := old.Add(30 * time.Minute)

	require.NoError(t, ledger.Record([]logistics.Route{{SourceID: "a", DestinationID: "b"}}, old))
	require.NoError(t, ledger.Record([]logistics.Route{{SourceID: "c", DestinationID: "d"}}, recent))

	// Act
	require.NoError(t, ledger.PruneOlderThan(old.Add(10*time.Minute)))

	// Assert
	assert.Equal(t, 1, ledger.Len())
	_, ok := ledger.LastAttempt(logistics.Route{SourceID: "a", DestinationID: "b"})
	assert.False(t, ok)
	_, ok = ledger.LastAttempt(logistics.Route{SourceID: "c", DestinationID: "d"})
	assert.True(t, ok)
}

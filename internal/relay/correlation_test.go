package relay

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationTable_InsertTakeRoundTrip(t *testing.T) {
	table := NewCorrelationTable(10, time.Second)
	client := netip.MustParseAddrPort("10.0.0.5:5353")

	table.Insert(42, PendingQuery{Client: client})

	got, ok := table.Take(42)
	require.True(t, ok)
	assert.Equal(t, client, got.Client)

	_, ok = table.Take(42)
	assert.False(t, ok, "Take should remove the entry")
}

func TestCorrelationTable_TakeMissingID(t *testing.T) {
	table := NewCorrelationTable(10, time.Second)

	_, ok := table.Take(99)
	assert.False(t, ok)
}

func TestCorrelationTable_TakeExpiredEntry(t *testing.T) {
	table := NewCorrelationTable(10, time.Millisecond)
	table.Insert(1, PendingQuery{})

	time.Sleep(5 * time.Millisecond)

	_, ok := table.Take(1)
	assert.False(t, ok)
}

func TestCorrelationTable_InsertOverwritesExistingID(t *testing.T) {
	table := NewCorrelationTable(10, time.Second)
	first := netip.MustParseAddrPort("10.0.0.1:1")
	second := netip.MustParseAddrPort("10.0.0.2:2")

	table.Insert(7, PendingQuery{Client: first})
	table.Insert(7, PendingQuery{Client: second})

	got, ok := table.Take(7)
	require.True(t, ok)
	assert.Equal(t, second, got.Client)
}

func TestCorrelationTable_EvictsAtCapacity(t *testing.T) {
	table := NewCorrelationTable(2, time.Second)
	table.Insert(1, PendingQuery{})
	table.Insert(2, PendingQuery{})

	assert.Equal(t, 2, table.Len())

	table.Insert(3, PendingQuery{})
	assert.Equal(t, 2, table.Len(), "table must stay bounded at capacity")
}

func TestCorrelationTable_SweepExpired(t *testing.T) {
	table := NewCorrelationTable(10, time.Millisecond)
	table.Insert(1, PendingQuery{})
	table.Insert(2, PendingQuery{})

	time.Sleep(5 * time.Millisecond)

	removed := table.SweepExpired(time.Now())
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, table.Len())
}

func TestCorrelationTable_DefaultsOnNonPositiveArgs(t *testing.T) {
	table := NewCorrelationTable(0, 0)
	assert.Equal(t, DefaultCapacity, table.capacity)
	assert.Equal(t, DefaultTTL, table.ttl)
}

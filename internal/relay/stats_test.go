package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_SnapshotReflectsCounters(t *testing.T) {
	stats := &Stats{}
	stats.QueriesUDP.Add(3)
	stats.QueriesTCP.Add(1)
	stats.LocalAnswered.Add(2)
	stats.Forwarded.Add(2)
	stats.RepliesDropped.Add(1)

	snap := stats.Snapshot()

	assert.Equal(t, uint64(3), snap.QueriesUDP)
	assert.Equal(t, uint64(1), snap.QueriesTCP)
	assert.Equal(t, uint64(2), snap.LocalAnswered)
	assert.Equal(t, uint64(2), snap.Forwarded)
	assert.Equal(t, uint64(1), snap.RepliesDropped)
}

func TestStats_SnapshotNilReceiver(t *testing.T) {
	var stats *Stats
	assert.Equal(t, Snapshot{}, stats.Snapshot())
}

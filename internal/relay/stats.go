package relay

import "sync/atomic"

// Stats holds lock-free query counters the UDP and TCP engines increment
// as they serve traffic. It exists purely for the admin `/stats` surface
// (SPEC_FULL.md §6); nothing in the forwarding path reads it.
type Stats struct {
	QueriesUDP     atomic.Uint64
	QueriesTCP     atomic.Uint64
	LocalAnswered  atomic.Uint64
	Forwarded      atomic.Uint64
	RepliesDropped atomic.Uint64
}

// Snapshot is a point-in-time, plain-value copy of Stats suitable for
// JSON encoding.
type Snapshot struct {
	QueriesUDP     uint64
	QueriesTCP     uint64
	LocalAnswered  uint64
	Forwarded      uint64
	RepliesDropped uint64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		QueriesUDP:     s.QueriesUDP.Load(),
		QueriesTCP:     s.QueriesTCP.Load(),
		LocalAnswered:  s.LocalAnswered.Load(),
		Forwarded:      s.Forwarded.Load(),
		RepliesDropped: s.RepliesDropped.Load(),
	}
}

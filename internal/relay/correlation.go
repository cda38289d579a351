package relay

import (
	"net/netip"
	"sync"
	"time"

	"github.com/jroosing/hydrarelay/internal/dnswire"
)

// DefaultTTL is the lifetime of a correlation-table entry when none is
// given explicitly (spec.md §4.3/§5).
const DefaultTTL = 2 * time.Second

// DefaultCapacity bounds the number of outstanding correlation entries
// (spec.md §4.3).
const DefaultCapacity = 100_000

// PendingQuery is the value stored per outstanding query id: the
// originating client endpoint and any local answers already computed for
// this query, to be merged into the eventual upstream reply.
type PendingQuery struct {
	Client       netip.AddrPort
	LocalAnswers []dnswire.Record
}

type correlationEntry struct {
	value     PendingQuery
	expiresAt time.Time
}

// CorrelationTable is a bounded, TTL-eviction map from a 16-bit query id
// to a PendingQuery, safe for concurrent Insert/Take. The UDP engine's
// ingress path is its user; the TCP engine does not use it.
//
// Unlike the generic LRU cache this is adapted from
// (internal/resolvers.TTLCache, read-promoting and multi-TTL-class), this
// table has a single fixed TTL, never promotes entries on read, and
// Take removes the entry it returns rather than leaving it in place —
// matching the one-shot request/reply correlation contract in spec.md
// §4.3: "insert overwrites, take removes and returns."
type CorrelationTable struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	data     map[uint16]correlationEntry
}

// NewCorrelationTable constructs a table with the given capacity and TTL.
// A non-positive capacity or ttl falls back to the package defaults.
func NewCorrelationTable(capacity int, ttl time.Duration) *CorrelationTable {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CorrelationTable{
		capacity: capacity,
		ttl:      ttl,
		data:     make(map[uint16]correlationEntry),
	}
}

// Insert records a pending query under id, overwriting any existing entry
// for the same id (last-writer-wins, per spec.md §9's discussion of
// cross-client id collisions). If the table is at capacity and id is a
// new key, one entry is evicted first (an expired one if any, otherwise
// an arbitrary one) so the table never grows unbounded.
func (t *CorrelationTable) Insert(id uint16, value PendingQuery) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.data[id]; !exists && len(t.data) >= t.capacity {
		t.evictOneLocked()
	}
	t.data[id] = correlationEntry{value: value, expiresAt: time.Now().Add(t.ttl)}
}

// Take removes and returns the pending query for id, if present and not
// expired. A missing or expired entry returns (PendingQuery{}, false);
// the caller (UDP/TCP engine) drops the reply in that case.
func (t *CorrelationTable) Take(id uint16) (PendingQuery, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.data[id]
	if !ok {
		return PendingQuery{}, false
	}
	delete(t.data, id)
	if time.Now().After(entry.expiresAt) {
		return PendingQuery{}, false
	}
	return entry.value, true
}

// Len reports the current entry count, including not-yet-swept expired
// entries. Used only by the admin stats surface; never taken under the
// same lock as a hot-path Insert/Take for longer than this read.
func (t *CorrelationTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.data)
}

// SweepExpired removes expired entries proactively. Entries that are
// never replied to (a dropped upstream query, for instance) would
// otherwise sit in the map until a Take for that same id happened to
// occur; a periodic sweep reclaims them without relying on that.
func (t *CorrelationTable) SweepExpired(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, entry := range t.data {
		if now.After(entry.expiresAt) {
			delete(t.data, id)
			removed++
		}
	}
	return removed
}

// evictOneLocked drops one entry to make room for an insert, preferring
// an already-expired entry over an arbitrary one. Callers must hold t.mu.
func (t *CorrelationTable) evictOneLocked() {
	now := time.Now()
	for id, entry := range t.data {
		if now.After(entry.expiresAt) {
			delete(t.data, id)
			return
		}
	}
	for id := range t.data {
		delete(t.data, id)
		return
	}
}

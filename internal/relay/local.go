// Package relay implements the dual-transport DNS forwarding engine: the
// local-answer filter, the correlation table, and the UDP/TCP engines
// that tie them to the wire codec in internal/dnswire.
package relay

import "github.com/jroosing/hydrarelay/internal/dnswire"

// LocalTable maps a normalized domain name to the A-type resource
// records the relay answers locally, without contacting upstream. It is
// populated once at startup from the hosts file (internal/hostsfile) and
// treated as read-only by the engines; concurrent readers are therefore
// safe without additional locking.
type LocalTable map[string][]dnswire.Record

// FilterLocal partitions questions into those the LocalTable can answer
// (drained) and the residual questions to forward upstream, and collects
// the synthesized answer records for the drained ones.
//
// Only qtype A questions are ever drained, per spec: the local table
// answers type-A questions only. Drain order and table record order are
// both preserved in synthesized.
func FilterLocal(questions []dnswire.Question, table LocalTable) (remaining []dnswire.Question, synthesized []dnswire.Record) {
	remaining = make([]dnswire.Question, 0, len(questions))
	for _, q := range questions {
		if q.Type != dnswire.TypeA {
			remaining = append(remaining, q)
			continue
		}
		records, ok := table[q.Name]
		if !ok {
			remaining = append(remaining, q)
			continue
		}
		synthesized = append(synthesized, records...)
	}
	return remaining, synthesized
}

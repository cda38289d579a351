package relay

import "github.com/jroosing/hydrarelay/internal/dnswire"

// SynthesizeReply builds a reply message answered entirely from local
// data (spec.md §4.6). If any synthesized record is an A record whose
// data is 0.0.0.0 — the hosts-file convention for "actively refuse" —
// the reply carries Refused and an empty answer section; otherwise it
// carries NoError and all of answers.
func SynthesizeReply(id uint16, answers []dnswire.Record) dnswire.Message {
	rcode := dnswire.RCodeNoError
	out := answers
	if anyRefused(answers) {
		rcode = dnswire.RCodeRefused
		out = nil
	}
	return dnswire.Message{
		Header: dnswire.Header{
			ID:                 id,
			IsResponse:         true,
			Opcode:             dnswire.OpcodeQuery,
			Authoritative:      false,
			Truncated:          false,
			RecursionDesired:   true,
			RecursionAvailable: false,
			Rcode:              rcode,
		},
		Answers: out,
	}
}

func anyRefused(answers []dnswire.Record) bool {
	for _, rr := range answers {
		ip, ok := rr.IPv4()
		if ok && ip == "0.0.0.0" {
			return true
		}
	}
	return false
}

// Package dnswire implements the RFC 1035 DNS wire format: header, question,
// and resource-record encoding/decoding, name compression, and the
// datagram/stream framing modes used by the relay engine.
//
// Standards Compliance:
//
//   - RFC 1035: Domain Names - Implementation and Specification
//   - RFC 1034: Domain Names - Concepts and Facilities
//   - RFC 3596: DNS Extensions to Support IPv6 (AAAA records)
//
// Error Handling:
//
// All errors are wrapped with context using fmt.Errorf("...: %w", err),
// preserving the sentinel error chain while adding operational detail.
package dnswire

import "errors"

// ErrDNSError is a sentinel error type for DNS wire-format violations.
// Wrap this with fmt.Errorf("context: %w", ErrDNSError) to add context.
var ErrDNSError = errors.New("dns wire error")

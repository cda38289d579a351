// Package hostsfile loads the local hosts-file overlay consumed by the
// relay engines (spec.md §6). Loading is an external collaborator to
// the core: it only populates a relay.LocalTable.
package hostsfile

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/jroosing/hydrarelay/internal/dnswire"
	"github.com/jroosing/hydrarelay/internal/relay"
)

// localRecordTTL is the fixed TTL attached to every synthesized local
// A record. spec.md §6 calls for "a fixed small TTL" without naming a
// value; 300s matches the conventional default TTL for static hosts
// entries used across the example pack's zone/filtering packages.
const localRecordTTL = 300

// Load reads a hosts file and returns the relay.LocalTable it describes.
// Blank lines and lines starting (after leading whitespace) with '#'
// are ignored. Every other line must be exactly two whitespace-separated
// tokens: a domain and a dotted IPv4 address. An unparseable IP aborts
// loading; a line with any other token count is logged to warnings and
// skipped, and loading continues.
func Load(path string) (relay.LocalTable, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("hostsfile: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse implements Load's parsing contract over an arbitrary reader.
// The returned warnings slice carries one message per skipped
// malformed line, in file order.
func Parse(r io.Reader) (relay.LocalTable, []string, error) {
	table := relay.LocalTable{}
	var warnings []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			warnings = append(warnings, fmt.Sprintf("hostsfile: line %d: expected 2 fields, got %d, skipping", lineNo, len(fields)))
			continue
		}

		domain, addr := fields[0], fields[1]
		ip := net.ParseIP(addr)
		if ip == nil || ip.To4() == nil {
			return nil, nil, fmt.Errorf("hostsfile: line %d: unparseable IPv4 address %q", lineNo, addr)
		}

		name := dnswire.NormalizeName(domain)
		table[name] = append(table[name], dnswire.Record{
			Name:  name,
			Type:  dnswire.TypeA,
			Class: dnswire.ClassInternet,
			TTL:   localRecordTTL,
			Data:  []byte(ip.To4()),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("hostsfile: read error: %w", err)
	}

	return table, warnings, nil
}

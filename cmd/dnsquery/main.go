// Command dnsquery is a minimal debugging client for hydrarelay: it
// sends one UDP question and prints the decoded reply using the same
// internal/dnswire codec the relay itself runs on.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jroosing/hydrarelay/internal/dnswire"
)

func main() {
	var (
		server  = flag.String("server", "127.0.0.1:53", "DNS server HOST:PORT")
		name    = flag.String("name", "example.com", "Query name")
		qtype   = flag.Uint("qtype", uint(dnswire.TypeA), "Query type (numeric, A=1)")
		timeout = flag.Duration("timeout", 2*time.Second, "Timeout")
		quiet   = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	msg, err := query(*server, *name, dnswire.Type(*qtype), *timeout)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf("id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		msg.Header.ID, msg.Header.Rcode, len(msg.Answers), len(msg.Authorities), len(msg.Additionals))

	rows := make([]string, 0, len(msg.Answers))
	for _, rr := range msg.Answers {
		rows = append(rows, formatRR(rr))
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}

func query(server, name string, qtype dnswire.Type, timeout time.Duration) (dnswire.Message, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return dnswire.Message{}, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return dnswire.Message{}, err
	}
	defer c.Close()

	req := dnswire.Message{
		Header: dnswire.Header{
			ID:               uint16(time.Now().UnixNano()),
			Opcode:           dnswire.OpcodeQuery,
			RecursionDesired: true,
		},
		Questions: []dnswire.Question{{
			Name:  strings.TrimSuffix(strings.TrimSpace(name), "."),
			Type:  qtype,
			Class: dnswire.ClassInternet,
		}},
	}
	reqBytes, err := dnswire.EncodeDatagram(req)
	if err != nil {
		return dnswire.Message{}, err
	}

	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(reqBytes); err != nil {
		return dnswire.Message{}, err
	}

	buf := make([]byte, dnswire.MaxIncomingMessageSize)
	n, err := c.Read(buf)
	if err != nil {
		return dnswire.Message{}, err
	}
	return dnswire.DecodeDatagram(buf[:n])
}

func formatRR(rr dnswire.Record) string {
	name := rr.Name
	if name == "" {
		name = "."
	}
	switch rr.Type {
	case dnswire.TypeA:
		if ip, ok := rr.IPv4(); ok {
			return fmt.Sprintf("%s %d IN A %s", name, rr.TTL, ip)
		}
	case dnswire.TypeAAAA:
		if ip, ok := rr.IPv6(); ok {
			return fmt.Sprintf("%s %d IN AAAA %s", name, rr.TTL, ip)
		}
	case dnswire.TypeCNAME, dnswire.TypeNS:
		if s, ok := rr.Data.(string); ok {
			return fmt.Sprintf("%s %d IN TYPE%d %s", name, rr.TTL, rr.Type, s)
		}
	}
	return fmt.Sprintf("%s %d IN TYPE%d (unparsed)", name, rr.TTL, rr.Type)
}

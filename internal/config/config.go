// Package config holds the relay's startup configuration, populated
// from the narrow CLI surface spec.md §6 describes: positional
// arguments plus a pair of verbosity flags, and two bind-address flags
// (-listen-addr, -admin-addr). There is no YAML/env-var
// layer here — unlike the teacher's internal/config, nothing in this
// system's scope needs one.
package config

import (
	"errors"
	"flag"
	"fmt"
)

// Config is the fully resolved set of startup parameters.
type Config struct {
	// ListenAddr is the host:port the UDP and TCP engines bind.
	ListenAddr string
	// UpstreamAddr is the recursive resolver every non-local query is
	// forwarded to (the CLI's dns_addr positional argument).
	UpstreamAddr string
	// HostsFile is the path to the local hosts-file overlay (the CLI's
	// conf_file positional argument).
	HostsFile string
	// AdminAddr is the host:port the read-only admin HTTP surface binds.
	AdminAddr string
	// DebugLevel is 0 (default, warn), 1 (-d, info), or 2 (-dd, debug).
	DebugLevel int
}

// DefaultListenAddr and DefaultAdminAddr are the defaults of the
// -listen-addr and -admin-addr flags, used when those flags are not given.
const (
	DefaultListenAddr = ":53"
	DefaultAdminAddr  = ":8080"
)

// Parse parses args (excluding the program name, i.e. os.Args[1:]) per
// spec.md §6's CLI surface:
//
//	[dns_addr] [conf_file]
//	-d | -dd [dns_addr] [conf_file]
//
// -d sets info-level logging, -dd sets debug. Exactly zero, one, or two
// positional arguments are accepted; a missing dns_addr or conf_file
// simply leaves the corresponding Config field empty for the caller to
// default or reject.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("hydrarelay", flag.ContinueOnError)
	debug := fs.Bool("d", false, "enable info-level logging")
	debugDebug := fs.Bool("dd", false, "enable debug-level logging")
	adminAddr := fs.String("admin-addr", DefaultAdminAddr, "admin HTTP surface bind address")
	listenAddr := fs.String("listen-addr", DefaultListenAddr, "DNS UDP/TCP bind address")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	positional := fs.Args()
	if len(positional) > 2 {
		return Config{}, fmt.Errorf("config: too many positional arguments: %v", positional)
	}

	cfg := Config{
		ListenAddr: *listenAddr,
		AdminAddr:  *adminAddr,
	}
	if len(positional) > 0 {
		cfg.UpstreamAddr = positional[0]
	}
	if len(positional) > 1 {
		cfg.HostsFile = positional[1]
	}

	switch {
	case *debugDebug:
		cfg.DebugLevel = 2
	case *debug:
		cfg.DebugLevel = 1
	}

	return cfg, nil
}

// Validate checks the fields Parse cannot itself enforce: a missing
// upstream address is a startup error (there is no default recursive
// resolver to fall back to).
func (c Config) Validate() error {
	if c.UpstreamAddr == "" {
		return errors.New("config: missing dns_addr (upstream resolver address)")
	}
	return nil
}

// LogLevel maps DebugLevel to the string level internal/logging expects.
func (c Config) LogLevel() string {
	switch c.DebugLevel {
	case 2:
		return "DEBUG"
	case 1:
		return "INFO"
	default:
		return "WARN"
	}
}

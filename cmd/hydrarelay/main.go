package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jroosing/hydrarelay/internal/adminapi"
	"github.com/jroosing/hydrarelay/internal/config"
	"github.com/jroosing/hydrarelay/internal/hostsfile"
	"github.com/jroosing/hydrarelay/internal/logging"
	"github.com/jroosing/hydrarelay/internal/relay"
)

// correlationSweepInterval governs how often the correlation table's
// idle expired entries are reclaimed in the background, independent of
// the lazy eviction that Take already performs on the hot path.
const correlationSweepInterval = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		return fmt.Errorf("parsing arguments: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Configure(logging.Config{Level: cfg.LogLevel()})

	instanceID := uuid.New().String()[:8]

	table := relay.LocalTable{}
	if cfg.HostsFile != "" {
		loaded, warnings, err := hostsfile.Load(cfg.HostsFile)
		if err != nil {
			return fmt.Errorf("loading hosts file: %w", err)
		}
		for _, w := range warnings {
			logger.Warn(w)
		}
		table = loaded
	}

	upstreamUDP, err := net.ResolveUDPAddr("udp", cfg.UpstreamAddr)
	if err != nil {
		return fmt.Errorf("resolving upstream address: %w", err)
	}
	upstreamTCP, err := net.ResolveTCPAddr("tcp", cfg.UpstreamAddr)
	if err != nil {
		return fmt.Errorf("resolving upstream address: %w", err)
	}

	logger.Info("hydrarelay starting",
		"instance", instanceID,
		"listen", cfg.ListenAddr,
		"upstream", cfg.UpstreamAddr,
		"hosts_file", cfg.HostsFile,
		"local_entries", len(table),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats := &relay.Stats{}
	correlation := relay.NewCorrelationTable(relay.DefaultCapacity, relay.DefaultTTL)

	udpEngine := &relay.UDPEngine{
		Logger:      logger,
		Table:       table,
		Correlation: correlation,
		Upstream:    upstreamUDP,
		Stats:       stats,
	}
	tcpEngine := &relay.TCPEngine{
		Logger:   logger,
		Table:    table,
		Upstream: upstreamTCP,
		Stats:    stats,
	}
	adminSrv := adminapi.NewServer(cfg.AdminAddr, instanceID, table, correlation, stats, logger)

	go sweepCorrelationTable(ctx, correlation, correlationSweepInterval)

	errc := make(chan error, 3)

	go func() {
		errc <- udpEngine.Run(ctx, cfg.ListenAddr)
	}()
	go func() {
		errc <- tcpEngine.Run(ctx, cfg.ListenAddr)
	}()
	go func() {
		logger.Info("admin api starting", "addr", adminSrv.Addr())
		serveErr := adminSrv.ListenAndServe()
		if serveErr == nil || errors.Is(serveErr, http.ErrServerClosed) {
			errc <- nil
			return
		}
		errc <- serveErr
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = adminSrv.Shutdown(shutdownCtx)
	shutdownCancel()

	var firstErr error
	for range 3 {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	logger.Info("hydrarelay stopped")
	return firstErr
}

// sweepCorrelationTable periodically reclaims expired correlation
// entries that a dropped upstream reply would otherwise leave sitting
// in the table until a Take for that same id happened to occur.
func sweepCorrelationTable(ctx context.Context, table *relay.CorrelationTable, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			table.SweepExpired(now)
		}
	}
}

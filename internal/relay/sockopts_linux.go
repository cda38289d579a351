//go:build linux

package relay

import (
	"log/slog"
	"net"

	"golang.org/x/sys/unix"
)

// tuneSocketBuffers widens the one UDP socket's receive/send buffers so
// bursts don't drop packets at the kernel queue. This is the same raw
// sockopt-control idiom the teacher repo uses for SO_REUSEPORT
// (internal/server/udp_server.go's listenReusePort), narrowed from
// per-core socket sharding to buffer sizing since spec.md mandates
// exactly one socket to tune.
func tuneSocketBuffers(conn *net.UDPConn, logger *slog.Logger) {
	raw, err := conn.SyscallConn()
	if err != nil {
		warn(logger, "udp could not obtain raw socket to tune buffers", err)
		return
	}
	ctrlErr := raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, socketRecvBufferSize)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, socketSendBufferSize)
	})
	if ctrlErr != nil {
		warn(logger, "udp failed to tune socket buffers", ctrlErr)
	}
}

func warn(logger *slog.Logger, msg string, err error) {
	if logger != nil {
		logger.Warn(msg, "err", err)
	}
}

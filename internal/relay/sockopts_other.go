//go:build !linux

package relay

import (
	"log/slog"
	"net"
)

// tuneSocketBuffers falls back to the portable stdlib setters on
// non-Linux platforms, where golang.org/x/sys/unix's SO_RCVBUF/SO_SNDBUF
// constants are not uniformly available.
func tuneSocketBuffers(conn *net.UDPConn, logger *slog.Logger) {
	if err := conn.SetReadBuffer(socketRecvBufferSize); err != nil && logger != nil {
		logger.Warn("udp failed to set read buffer", "err", err)
	}
	if err := conn.SetWriteBuffer(socketSendBufferSize); err != nil && logger != nil {
		logger.Warn("udp failed to set write buffer", "err", err)
	}
}

package relay

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/jroosing/hydrarelay/internal/dnswire"
	"github.com/jroosing/hydrarelay/internal/pool"
)

// TCP engine constants (spec.md §4.5).
const (
	maxTCPMessageSize  = 65535
	tcpReadTimeout     = 10 * time.Second
	tcpIdleTimeout     = 30 * time.Second
	tcpUpstreamTimeout = 2 * time.Second
	maxQueriesPerConn  = 100
)

var lenBufPool = pool.New(func() *[]byte {
	buf := make([]byte, 2)
	return &buf
})

// TCPEngine is the stream-mode forwarding engine (spec.md §4.5). Unlike
// UDPEngine it needs no shared-socket serialization: each accepted
// connection is independent, and each forwarded query opens its own
// fresh upstream connection rather than reusing a pool — matching
// spec.md §4.5's "no connection pooling to the upstream" requirement,
// a deliberate departure from the teacher's resolvers.ForwardingResolver.
type TCPEngine struct {
	Logger   *slog.Logger
	Table    LocalTable
	Upstream *net.TCPAddr
	Stats    *Stats

	listener net.Listener
	wg       sync.WaitGroup
}

// Run binds addr and accepts connections until ctx is cancelled, then
// stops the listener and waits (up to 5s) for in-flight connections to
// finish their current query.
func (e *TCPEngine) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	e.listener = ln

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.acceptLoop(ctx)
	}()

	<-ctx.Done()
	return e.Stop(5 * time.Second)
}

// Stop closes the listener (unblocking Accept) and waits for all
// per-connection goroutines to exit.
func (e *TCPEngine) Stop(timeout time.Duration) error {
	if e.listener != nil {
		_ = e.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return nil
	}
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("tcp engine: timeout waiting for connections")
	}
}

func (e *TCPEngine) acceptLoop(ctx context.Context) {
	for {
		conn, err := e.listener.Accept()
		if err != nil {
			return
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection serves one or more pipelined queries on conn until it
// is closed, idles out, errs, or hits maxQueriesPerConn.
func (e *TCPEngine) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	for range maxQueriesPerConn {
		if ctx.Err() != nil {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(tcpIdleTimeout))
		body, ok := readTCPMessage(conn)
		if !ok {
			return
		}
		if len(body) == 0 {
			continue
		}

		msg, err := dnswire.ParseMessage(body)
		if err != nil {
			e.logf("tcp decode error", "err", err, "peer", conn.RemoteAddr().String())
			continue
		}
		if e.Stats != nil {
			e.Stats.QueriesTCP.Add(1)
		}

		reply, err := e.answer(ctx, msg)
		if err != nil {
			e.logf("tcp answer error", "err", err, "peer", conn.RemoteAddr().String())
			continue
		}

		framed, err := dnswire.EncodeStream(reply)
		if err != nil {
			e.logf("tcp encode error", "err", err)
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(tcpReadTimeout))
		if _, err := conn.Write(framed); err != nil {
			return
		}
	}
}

// answer produces the reply for a single decoded query: purely local
// answers are synthesized directly; any residual question is forwarded
// on a fresh upstream connection and its reply is merged with whatever
// was synthesized locally.
func (e *TCPEngine) answer(ctx context.Context, msg dnswire.Message) (dnswire.Message, error) {
	residual, synthesized := FilterLocal(msg.Questions, e.Table)

	if len(residual) == 0 {
		if e.Stats != nil {
			e.Stats.LocalAnswered.Add(1)
		}
		return SynthesizeReply(msg.Header.ID, synthesized), nil
	}
	if e.Stats != nil {
		e.Stats.Forwarded.Add(1)
	}

	fwd := msg
	fwd.Questions = residual

	upstreamReply, err := e.forward(ctx, fwd)
	if err != nil {
		return dnswire.Message{}, err
	}
	upstreamReply.Answers = append(upstreamReply.Answers, synthesized...)
	return upstreamReply, nil
}

// forward opens a fresh TCP connection to the upstream resolver, sends
// fwd, and reads exactly one reply frame. The connection is not pooled
// or reused; a new one is dialed per forwarded query (spec.md §4.5).
func (e *TCPEngine) forward(ctx context.Context, fwd dnswire.Message) (dnswire.Message, error) {
	dialer := net.Dialer{Timeout: tcpUpstreamTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", e.Upstream.String())
	if err != nil {
		return dnswire.Message{}, err
	}
	defer conn.Close()

	framed, err := dnswire.EncodeStream(fwd)
	if err != nil {
		return dnswire.Message{}, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(tcpUpstreamTimeout))
	if _, err := conn.Write(framed); err != nil {
		return dnswire.Message{}, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(tcpUpstreamTimeout))
	body, ok := readTCPMessage(conn)
	if !ok {
		return dnswire.Message{}, errors.New("tcp engine: upstream read failed or timed out")
	}
	return dnswire.ParseMessage(body)
}

// readTCPMessage reads one 2-byte-length-prefixed frame. Returns
// (nil, false) on any read error, including deadline expiry.
func readTCPMessage(conn net.Conn) ([]byte, bool) {
	lenBufPtr := lenBufPool.Get()
	lenBuf := *lenBufPtr
	_, err := io.ReadFull(conn, lenBuf)
	if err != nil {
		lenBufPool.Put(lenBufPtr)
		return nil, false
	}
	msgLen := int(binary.BigEndian.Uint16(lenBuf))
	lenBufPool.Put(lenBufPtr)

	if msgLen == 0 {
		return nil, true
	}
	if msgLen > maxTCPMessageSize {
		return nil, false
	}

	body := make([]byte, msgLen)
	if _, err := io.ReadFull(conn, body); err != nil {
		return nil, false
	}
	return body, true
}

func (e *TCPEngine) logf(msg string, args ...any) {
	if e.Logger != nil {
		e.Logger.Warn(msg, args...)
	}
}

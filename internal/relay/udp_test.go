package relay

import (
	"net"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jroosing/hydrarelay/internal/dnswire"
)

func newTestUDPEngine(table LocalTable) *UDPEngine {
	e := &UDPEngine{
		Table:       table,
		Correlation: NewCorrelationTable(10, 0),
		Stats:       &Stats{},
	}
	e.sendQueue = make(chan outboundDatagram, 10)
	return e
}

func TestUDPEngine_HandleQuery_AllLocal(t *testing.T) {
	table := LocalTable{"host.lan.": {aRecord("host.lan.", "10.0.0.9")}}
	e := newTestUDPEngine(table)
	peer := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5353}

	msg := dnswire.Message{
		Header:    dnswire.Header{ID: 1, RecursionDesired: true},
		Questions: []dnswire.Question{{Name: "host.lan.", Type: dnswire.TypeA, Class: dnswire.ClassInternet}},
	}
	e.handleQuery(msg, peer)

	require.Equal(t, uint64(1), e.Stats.LocalAnswered.Load())
	assert.Equal(t, uint64(0), e.Stats.Forwarded.Load())

	item := <-e.sendQueue
	reply, err := dnswire.DecodeDatagram(item.payload)
	require.NoError(t, err)
	assert.True(t, reply.Header.IsResponse)
	require.Len(t, reply.Answers, 1)
	ip, ok := reply.Answers[0].IPv4()
	require.True(t, ok)
	assert.Equal(t, "10.0.0.9", ip)
}

func TestUDPEngine_HandleQuery_Forwards(t *testing.T) {
	e := newTestUDPEngine(LocalTable{})
	peer := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 5353}

	msg := dnswire.Message{
		Header:    dnswire.Header{ID: 2, RecursionDesired: true},
		Questions: []dnswire.Question{{Name: "example.com.", Type: dnswire.TypeA, Class: dnswire.ClassInternet}},
	}
	e.handleQuery(msg, peer)

	assert.Equal(t, uint64(1), e.Stats.Forwarded.Load())
	assert.Equal(t, uint64(0), e.Stats.LocalAnswered.Load())

	pending, ok := e.Correlation.Take(2)
	require.True(t, ok)
	assert.Equal(t, uint16(5353), pending.Client.Port())

	item := <-e.sendQueue
	fwd, err := dnswire.DecodeDatagram(item.payload)
	require.NoError(t, err)
	assert.Equal(t, "example.com.", fwd.Questions[0].Name)
}

func TestUDPEngine_HandleReply_MergesLocalAnswersAndReEnqueues(t *testing.T) {
	e := newTestUDPEngine(LocalTable{})
	client := netip.MustParseAddrPort("127.0.0.1:6000")
	e.Correlation.Insert(5, PendingQuery{
		Client:       client,
		LocalAnswers: []dnswire.Record{aRecord("local.lan.", "10.0.0.1")},
	})

	reply := dnswire.Message{
		Header:  dnswire.Header{ID: 5, IsResponse: true},
		Answers: []dnswire.Record{aRecord("example.com.", "93.184.216.34")},
	}
	e.handleReply(reply)

	item := <-e.sendQueue
	merged, err := dnswire.DecodeDatagram(item.payload)
	require.NoError(t, err)
	assert.Len(t, merged.Answers, 2)
}

func TestUDPEngine_HandleReply_UnknownIDDropped(t *testing.T) {
	e := newTestUDPEngine(LocalTable{})

	reply := dnswire.Message{Header: dnswire.Header{ID: 99, IsResponse: true}}
	e.handleReply(reply)

	assert.Equal(t, uint64(1), e.Stats.RepliesDropped.Load())
	assert.Len(t, e.sendQueue, 0)
}

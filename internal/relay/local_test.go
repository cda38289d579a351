package relay

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jroosing/hydrarelay/internal/dnswire"
)

func aRecord(name, ip string) dnswire.Record {
	return dnswire.Record{
		Name:  name,
		Type:  dnswire.TypeA,
		Class: dnswire.ClassInternet,
		TTL:   300,
		Data:  []byte(net.ParseIP(ip).To4()),
	}
}

func TestFilterLocal_DrainsKnownNameAndType(t *testing.T) {
	table := LocalTable{
		"example.com.": {aRecord("example.com.", "10.0.0.1")},
	}
	questions := []dnswire.Question{
		{Name: "example.com.", Type: dnswire.TypeA, Class: dnswire.ClassInternet},
	}

	remaining, synthesized := FilterLocal(questions, table)

	assert.Empty(t, remaining)
	assert.Len(t, synthesized, 1)
	ip, ok := synthesized[0].IPv4()
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.1", ip)
}

func TestFilterLocal_ForwardsUnknownName(t *testing.T) {
	table := LocalTable{"example.com.": {aRecord("example.com.", "10.0.0.1")}}
	questions := []dnswire.Question{
		{Name: "other.test.", Type: dnswire.TypeA, Class: dnswire.ClassInternet},
	}

	remaining, synthesized := FilterLocal(questions, table)

	assert.Equal(t, questions, remaining)
	assert.Empty(t, synthesized)
}

func TestFilterLocal_ForwardsNonAQuestionsEvenWhenNameIsLocal(t *testing.T) {
	table := LocalTable{"example.com.": {aRecord("example.com.", "10.0.0.1")}}
	questions := []dnswire.Question{
		{Name: "example.com.", Type: dnswire.TypeAAAA, Class: dnswire.ClassInternet},
	}

	remaining, synthesized := FilterLocal(questions, table)

	assert.Equal(t, questions, remaining)
	assert.Empty(t, synthesized)
}

func TestFilterLocal_MixedQuestions(t *testing.T) {
	table := LocalTable{"local.test.": {aRecord("local.test.", "192.168.1.1")}}
	questions := []dnswire.Question{
		{Name: "local.test.", Type: dnswire.TypeA, Class: dnswire.ClassInternet},
		{Name: "remote.test.", Type: dnswire.TypeA, Class: dnswire.ClassInternet},
	}

	remaining, synthesized := FilterLocal(questions, table)

	assert.Len(t, remaining, 1)
	assert.Equal(t, "remote.test.", remaining[0].Name)
	assert.Len(t, synthesized, 1)
}

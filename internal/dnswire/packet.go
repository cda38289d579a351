package dnswire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jroosing/hydrarelay/internal/helpers"
)

// DoS-bounding limits applied while parsing, independent of whatever
// counts a hostile or malformed header declares.
const (
	// MaxIncomingMessageSize bounds a single decoded datagram or stream
	// message.
	MaxIncomingMessageSize = 4096
	// MaxQuestions bounds the question section's parsed length.
	MaxQuestions = 4
	// MaxRRPerSection bounds each of answers/authorities/additionals.
	MaxRRPerSection = 100
)

// Message is a complete DNS message (RFC 1035 Section 4): a header and
// its four sections. Messages are immutable after ParseMessage returns;
// the relay composes new Message values for responses rather than
// mutating parsed ones.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes the message to DNS wire format. Section counts in
// the written header are always derived from the current section
// lengths; any counts already present in m.Header are ignored.
func (m Message) Marshal() ([]byte, error) {
	h := m.Header
	h.QDCount = helpers.ClampIntToUint16(len(m.Questions))
	h.ANCount = helpers.ClampIntToUint16(len(m.Answers))
	h.NSCount = helpers.ClampIntToUint16(len(m.Authorities))
	h.ARCount = helpers.ClampIntToUint16(len(m.Additionals))

	estimatedSize := HeaderSize + len(m.Questions)*32 + (len(m.Answers)+len(m.Authorities)+len(m.Additionals))*48
	out := make([]byte, 0, estimatedSize)
	out = append(out, h.Marshal()...)

	for _, q := range m.Questions {
		qb, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, qb...)
	}
	for _, section := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		for _, rr := range section {
			rb, err := rr.Marshal()
			if err != nil {
				return nil, err
			}
			out = append(out, rb...)
		}
	}
	return out, nil
}

// ParseMessage decodes a Message from a single, unframed wire buffer
// (already stripped of any datagram/stream framing).
//
// A malformed header aborts decoding entirely. Within each section, a
// record whose type/class/rdata is unrecognized or malformed is logged
// and skipped (the cursor resynchronizes to that record's declared
// final_pos) without aborting the rest of the message; a record whose
// *name* fails to decode is unrecoverable and aborts the message, since
// there is no final_pos to resynchronize to. Unrecognized question
// type/class values are dropped from the question list in the same
// skip-and-continue fashion.
func ParseMessage(msg []byte) (Message, error) {
	if len(msg) > MaxIncomingMessageSize {
		return Message{}, fmt.Errorf("%w: message too large (%d bytes)", ErrDNSError, len(msg))
	}

	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Message{}, err
	}

	m := Message{Header: h}

	m.Questions = make([]Question, 0, limitCount(h.QDCount, MaxQuestions))
	for range clampCount(h.QDCount, MaxQuestions) {
		q, err := ParseQuestion(msg, &off)
		var skip *questionSkipError
		if err != nil {
			if errors.As(err, &skip) {
				continue
			}
			return Message{}, err
		}
		m.Questions = append(m.Questions, q)
	}

	for _, section := range []struct {
		count uint16
		dst   *[]Record
	}{
		{h.ANCount, &m.Answers},
		{h.NSCount, &m.Authorities},
		{h.ARCount, &m.Additionals},
	} {
		*section.dst = make([]Record, 0, limitCount(section.count, MaxRRPerSection))
		for range clampCount(section.count, MaxRRPerSection) {
			rr, err := ParseRecord(msg, &off)
			var resync *recordResyncError
			if err != nil {
				if errors.As(err, &resync) {
					continue
				}
				return Message{}, err
			}
			*section.dst = append(*section.dst, rr)
		}
	}

	return m, nil
}

func limitCount(count uint16, limit int) int {
	if int(count) > limit {
		return limit
	}
	return int(count)
}

func clampCount(count uint16, limit int) []struct{} {
	return make([]struct{}, limitCount(count, limit))
}

// DecodeDatagram decodes exactly one message from a UDP datagram payload
// (no length prefix).
func DecodeDatagram(buf []byte) (Message, error) {
	return ParseMessage(buf)
}

// EncodeDatagram encodes m for UDP transport. If the encoded length would
// exceed 512 bytes, the TC bit is set and the returned buffer is
// truncated to exactly 512 bytes.
func EncodeDatagram(m Message) ([]byte, error) {
	if m.Header.Truncated {
		m.Header.Truncated = false
	}
	buf, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	if len(buf) > 512 {
		m.Header.Truncated = true
		buf, err = m.Marshal()
		if err != nil {
			return nil, err
		}
		buf = buf[:512]
	}
	return buf, nil
}

// DecodeStream attempts to decode exactly one length-prefixed message
// from the front of buf. It returns (msg, consumed, true, nil) on
// success, where consumed is the number of bytes (2+length) to discard
// from buf; (Message{}, 0, false, nil) if buf does not yet hold a
// complete frame; or a non-nil error if the frame is malformed.
func DecodeStream(buf []byte) (Message, int, bool, error) {
	if len(buf) < 2 {
		return Message{}, 0, false, nil
	}
	length := int(binary.BigEndian.Uint16(buf[0:2]))
	if len(buf) < 2+length {
		return Message{}, 0, false, nil
	}
	m, err := ParseMessage(buf[2 : 2+length])
	if err != nil {
		return Message{}, 0, false, err
	}
	return m, 2 + length, true, nil
}

// EncodeStream encodes m with its 2-byte big-endian length prefix.
func EncodeStream(m Message) ([]byte, error) {
	body, err := m.Marshal()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2+len(body))
	binary.BigEndian.PutUint16(out[0:2], uint16(len(body)))
	copy(out[2:], body)
	return out, nil
}

package dnswire

import (
	"encoding/binary"
	"fmt"
	"net"
)

// MXData is the rdata for an MX record: a preference and a mail exchange
// name (RFC 1035 Section 3.3.9).
type MXData struct {
	Preference uint16
	Exchange   string
}

// SOAData is the rdata for a SOA record (RFC 1035 Section 3.3.13).
type SOAData struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// marshalRData encodes rr.Data per rr.Type into wire rdata bytes.
func (rr Record) marshalRData() ([]byte, error) {
	switch rr.Type {
	case TypeA:
		b, ok := rr.Data.([]byte)
		if !ok || len(b) != 4 {
			return nil, fmt.Errorf("%w: A record data must be 4 bytes", ErrDNSError)
		}
		return b, nil
	case TypeAAAA:
		b, ok := rr.Data.([]byte)
		if !ok || len(b) != 16 {
			return nil, fmt.Errorf("%w: AAAA record data must be 16 bytes", ErrDNSError)
		}
		return b, nil
	case TypeMX:
		mx, ok := rr.Data.(MXData)
		if !ok {
			return nil, fmt.Errorf("%w: MX record data must be MXData", ErrDNSError)
		}
		ex, err := EncodeName(mx.Exchange)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 2+len(ex))
		binary.BigEndian.PutUint16(out[0:2], mx.Preference)
		copy(out[2:], ex)
		return out, nil
	case TypeCNAME, TypeNS:
		s, ok := rr.Data.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("%w: name-based record data must be a non-empty string", ErrDNSError)
		}
		return EncodeName(s)
	case TypeSOA:
		soa, ok := rr.Data.(SOAData)
		if !ok {
			return nil, fmt.Errorf("%w: SOA record data must be SOAData", ErrDNSError)
		}
		mname, err := EncodeName(soa.MName)
		if err != nil {
			return nil, err
		}
		rname, err := EncodeName(soa.RName)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(mname)+len(rname)+20)
		out = append(out, mname...)
		out = append(out, rname...)
		tail := make([]byte, 20)
		binary.BigEndian.PutUint32(tail[0:4], soa.Serial)
		binary.BigEndian.PutUint32(tail[4:8], soa.Refresh)
		binary.BigEndian.PutUint32(tail[8:12], soa.Retry)
		binary.BigEndian.PutUint32(tail[12:16], soa.Expire)
		binary.BigEndian.PutUint32(tail[16:20], soa.Minimum)
		return append(out, tail...), nil
	case TypeTXT:
		return marshalTXT(rr.Data)
	default:
		return nil, fmt.Errorf("%w: unsupported RR type for serialization: %d", ErrDNSError, rr.Type)
	}
}

func marshalTXT(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return marshalTXTString(t), nil
	case []string:
		totalLen := 0
		for _, s := range t {
			totalLen += 1 + len(s)
		}
		out := make([]byte, 0, totalLen)
		for _, s := range t {
			b := []byte(s)
			if len(b) > 255 {
				return nil, fmt.Errorf("%w: TXT character-string cannot exceed 255 bytes", ErrDNSError)
			}
			out = append(out, byte(len(b)))
			out = append(out, b...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: TXT record data must be string or []string", ErrDNSError)
	}
}

func marshalTXTString(s string) []byte {
	b := []byte(s)
	if len(b) <= 255 {
		out := make([]byte, 1+len(b))
		out[0] = byte(len(b))
		copy(out[1:], b)
		return out
	}
	numChunks := (len(b) + 254) / 255
	out := make([]byte, 0, len(b)+numChunks)
	for i := 0; i < len(b); i += 255 {
		chunk := b[i:]
		if len(chunk) > 255 {
			chunk = chunk[:255]
		}
		out = append(out, byte(len(chunk)))
		out = append(out, chunk...)
	}
	return out
}

// decodeRData decodes the rdata bytes msg[start:start+rdlen] per rrType,
// returning the tagged Data value. off is the cursor positioned at start;
// it is advanced as name-bearing rdata (CNAME/NS/MX/SOA) is decoded so
// compression pointers inside rdata resolve against the whole message.
func decodeRData(msg []byte, off *int, rrType Type, rrClass Class, start int, rdlen int) (any, error) {
	if rrClass != ClassInternet {
		return nil, fmt.Errorf("%w: unsupported record class: %d", ErrDNSError, rrClass)
	}
	switch rrType {
	case TypeA:
		if rdlen != 4 {
			return nil, fmt.Errorf("%w: invalid rdata length for A record: %d", ErrDNSError, rdlen)
		}
		b := make([]byte, 4)
		copy(b, msg[start:start+4])
		*off = start + 4
		return b, nil
	case TypeAAAA:
		if rdlen != 16 {
			return nil, fmt.Errorf("%w: invalid rdata length for AAAA record: %d", ErrDNSError, rdlen)
		}
		b := make([]byte, 16)
		copy(b, msg[start:start+16])
		*off = start + 16
		return b, nil
	case TypeCNAME, TypeNS:
		*off = start
		n, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if *off-start != rdlen {
			return nil, fmt.Errorf("%w: invalid rdata length for name-based record", ErrDNSError)
		}
		return n, nil
	case TypeMX:
		if start+2 > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF while reading MX preference", ErrDNSError)
		}
		pref := binary.BigEndian.Uint16(msg[start : start+2])
		*off = start + 2
		ex, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if *off-start != rdlen {
			return nil, fmt.Errorf("%w: invalid rdata length for MX record", ErrDNSError)
		}
		return MXData{Preference: pref, Exchange: ex}, nil
	case TypeSOA:
		*off = start
		mname, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		rname, err := DecodeName(msg, off)
		if err != nil {
			return nil, err
		}
		if *off+20 > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF while reading SOA fields", ErrDNSError)
		}
		soa := SOAData{
			MName:   mname,
			RName:   rname,
			Serial:  binary.BigEndian.Uint32(msg[*off : *off+4]),
			Refresh: binary.BigEndian.Uint32(msg[*off+4 : *off+8]),
			Retry:   binary.BigEndian.Uint32(msg[*off+8 : *off+12]),
			Expire:  binary.BigEndian.Uint32(msg[*off+12 : *off+16]),
			Minimum: binary.BigEndian.Uint32(msg[*off+16 : *off+20]),
		}
		*off += 20
		if *off-start != rdlen {
			return nil, fmt.Errorf("%w: invalid rdata length for SOA record", ErrDNSError)
		}
		return soa, nil
	case TypeTXT:
		if start+rdlen > len(msg) {
			return nil, fmt.Errorf("%w: unexpected EOF while reading TXT rdata", ErrDNSError)
		}
		strs, err := decodeTXT(msg[start : start+rdlen])
		if err != nil {
			return nil, err
		}
		*off = start + rdlen
		return strs, nil
	default:
		return nil, fmt.Errorf("%w: unknown rdata for type %d", ErrDNSError, rrType)
	}
}

func decodeTXT(b []byte) ([]string, error) {
	var out []string
	i := 0
	for i < len(b) {
		n := int(b[i])
		i++
		if i+n > len(b) {
			return nil, fmt.Errorf("%w: truncated TXT character-string", ErrDNSError)
		}
		out = append(out, string(b[i:i+n]))
		i += n
	}
	return out, nil
}

// IPv4 returns the dotted-decimal string for an A record's data.
func (rr Record) IPv4() (string, bool) {
	if rr.Type != TypeA {
		return "", false
	}
	b, ok := rr.Data.([]byte)
	if !ok || len(b) != 4 {
		return "", false
	}
	return net.IPv4(b[0], b[1], b[2], b[3]).String(), true
}

// IPv6 returns the string form for an AAAA record's data.
func (rr Record) IPv6() (string, bool) {
	if rr.Type != TypeAAAA {
		return "", false
	}
	b, ok := rr.Data.([]byte)
	if !ok || len(b) != 16 {
		return "", false
	}
	return net.IP(b).String(), true
}

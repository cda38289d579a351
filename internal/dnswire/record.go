package dnswire

import (
	"encoding/binary"
	"fmt"
)

// Record is a DNS resource record (RFC 1035 Section 3.2.1). Data is a
// tagged variant: []byte (A/AAAA, 4/16 bytes), string (CNAME/NS), MXData,
// SOAData, or []string (TXT).
type Record struct {
	Name  string
	Type  Type
	Class Class
	TTL   uint32
	Data  any
}

// recordResyncError wraps a decode error encountered after the RDLENGTH
// peek succeeded. finalPos is where the caller's cursor must be set to
// resume parsing the next record at its correct offset, per spec.md
// §4.1.3's resync algorithm.
type recordResyncError struct {
	err      error
	finalPos int
}

func (e *recordResyncError) Error() string { return e.err.Error() }
func (e *recordResyncError) Unwrap() error { return e.err }

// ParseRecord decodes one resource record from msg at *off.
//
// If the name itself fails to decode, *off is left in an indeterminate
// position and a plain error is returned: the caller cannot resynchronize
// and MUST treat this as fatal for the remainder of the message (there is
// no known final_pos to skip to).
//
// If the name decodes successfully but type/class/rdata fail afterward,
// *off is advanced to final_pos (name_end + 10 + RDLENGTH) before
// returning an error wrapping *recordResyncError, so callers that want to
// skip the bad record and continue parsing subsequent records can detect
// this case with errors.As and simply continue their loop.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Record{}, err
	}

	nameEnd := *off
	if nameEnd+10 > len(msg) {
		return Record{}, fmt.Errorf("%w: unexpected EOF while reading DNS record", ErrDNSError)
	}
	rrType := Type(binary.BigEndian.Uint16(msg[nameEnd : nameEnd+2]))
	rrClass := Class(binary.BigEndian.Uint16(msg[nameEnd+2 : nameEnd+4]))
	ttl := binary.BigEndian.Uint32(msg[nameEnd+4 : nameEnd+8])
	rdlen := int(binary.BigEndian.Uint16(msg[nameEnd+8 : nameEnd+10]))
	start := nameEnd + 10
	finalPos := start + rdlen

	if finalPos > len(msg) {
		// RDLENGTH claims bytes past the end of the message: there is no
		// valid final_pos to resync to, so this is fatal for the message.
		return Record{}, fmt.Errorf("%w: RDLENGTH extends past end of message", ErrDNSError)
	}

	data, derr := decodeRData(msg, off, rrType, rrClass, start, rdlen)
	if derr != nil {
		*off = finalPos
		return Record{}, &recordResyncError{err: derr, finalPos: finalPos}
	}
	*off = finalPos

	return Record{Name: name, Type: rrType, Class: rrClass, TTL: ttl, Data: data}, nil
}

// Marshal serializes the record to DNS wire format.
func (rr Record) Marshal() ([]byte, error) {
	nameWire, err := EncodeName(rr.Name)
	if err != nil {
		return nil, err
	}
	rdata, err := rr.marshalRData()
	if err != nil {
		return nil, err
	}
	if len(rdata) > 0xFFFF {
		return nil, fmt.Errorf("%w: rdata too long for RDLENGTH (%d > 65535)", ErrDNSError, len(rdata))
	}
	out := make([]byte, 0, len(nameWire)+10+len(rdata))
	out = append(out, nameWire...)
	fixed := make([]byte, 10)
	binary.BigEndian.PutUint16(fixed[0:2], uint16(rr.Type))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(rr.Class))
	binary.BigEndian.PutUint32(fixed[4:8], rr.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], uint16(len(rdata)))
	out = append(out, fixed...)
	return append(out, rdata...), nil
}

package dnswire

import (
	"encoding/binary"
	"fmt"
)

// Question represents a DNS question section entry (RFC 1035 Section
// 4.1.2): a queried name, the record type sought, and the class.
type Question struct {
	Name  string
	Type  Type
	Class Class
}

// Marshal serializes the question to DNS wire format.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(name)+4)
	b = append(b, name...)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], uint16(q.Type))
	binary.BigEndian.PutUint16(buf[2:4], uint16(q.Class))
	return append(b, buf...), nil
}

// questionSkipError marks a question whose qtype or qclass is unrecognized.
// Unlike a record's unknown-rdata error, the cursor has already been fully
// advanced past the question by the time this is detected (questions carry
// no variable-length rdata), so the caller only needs to drop the question
// from the result and keep parsing; no offset correction is required.
type questionSkipError struct{ err error }

func (e *questionSkipError) Error() string { return e.err.Error() }
func (e *questionSkipError) Unwrap() error { return e.err }

func knownQuestionType(t Type) bool {
	switch t {
	case TypeA, TypeNS, TypeMD, TypeMF, TypeCNAME, TypeSOA, TypeMB, TypeMG, TypeMR,
		TypeNULL, TypeWKS, TypePTR, TypeHINFO, TypeMINFO, TypeMX, TypeTXT, TypeAAAA,
		TypeAXFR, TypeMAILB, TypeMAILA, TypeAny:
		return true
	default:
		return false
	}
}

func knownQuestionClass(c Class) bool {
	switch c {
	case ClassInternet, ClassAny:
		return true
	default:
		return false
	}
}

// ParseQuestion parses a question from msg at *off, advancing *off past
// it (exactly past it both on success and when the question is skipped
// for an unrecognized qtype or qclass). The name
// is normalized to lowercase for case-insensitive matching against the
// local-entry table.
//
// A name-decode failure is fatal: *off is left indeterminate and the
// caller cannot resynchronize. An unrecognized qtype or qclass instead
// returns an error wrapping *questionSkipError; *off is already correctly
// positioned past the question, so the caller may simply drop this
// question and continue parsing the next one.
func ParseQuestion(msg []byte, off *int) (Question, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, err
	}
	if *off+4 > len(msg) {
		return Question{}, fmt.Errorf("%w: unexpected EOF while reading DNS question", ErrDNSError)
	}
	q := Question{
		Name:  NormalizeName(name),
		Type:  Type(binary.BigEndian.Uint16(msg[*off : *off+2])),
		Class: Class(binary.BigEndian.Uint16(msg[*off+2 : *off+4])),
	}
	*off += 4

	if !knownQuestionType(q.Type) {
		return q, &questionSkipError{err: fmt.Errorf("%w: unknown question type %d", ErrDNSError, q.Type)}
	}
	if !knownQuestionClass(q.Class) {
		return q, &questionSkipError{err: fmt.Errorf("%w: unknown question class %d", ErrDNSError, q.Class)}
	}
	return q, nil
}

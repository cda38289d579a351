package dnswire

import "testing"

func TestRecordARoundTrip(t *testing.T) {
	rr := Record{Name: "example.com", Type: TypeA, Class: ClassInternet, TTL: 300, Data: []byte{93, 184, 216, 34}}
	b, err := rr.Marshal()
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	off := 0
	got, err := ParseRecord(b, &off)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if got.Name != rr.Name || got.TTL != rr.TTL {
		t.Fatalf("got %+v want %+v", got, rr)
	}
	ip, ok := got.IPv4()
	if !ok || ip != "93.184.216.34" {
		t.Fatalf("IPv4() = %q, %v", ip, ok)
	}
}

func TestRecordMXRoundTrip(t *testing.T) {
	rr := Record{Name: "example.com", Type: TypeMX, Class: ClassInternet, TTL: 60, Data: MXData{Preference: 10, Exchange: "mail.example.com"}}
	b, err := rr.Marshal()
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	off := 0
	got, err := ParseRecord(b, &off)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	mx, ok := got.Data.(MXData)
	if !ok || mx.Preference != 10 || mx.Exchange != "mail.example.com" {
		t.Fatalf("got %+v", got.Data)
	}
}

func TestRecordSOARoundTrip(t *testing.T) {
	rr := Record{
		Name: "example.com", Type: TypeSOA, Class: ClassInternet, TTL: 3600,
		Data: SOAData{MName: "ns1.example.com", RName: "hostmaster.example.com", Serial: 1, Refresh: 2, Retry: 3, Expire: 4, Minimum: 5},
	}
	b, err := rr.Marshal()
	if err != nil {
		t.Fatalf("marshal err: %v", err)
	}
	off := 0
	got, err := ParseRecord(b, &off)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	soa, ok := got.Data.(SOAData)
	if !ok || soa != rr.Data.(SOAData) {
		t.Fatalf("got %+v want %+v", got.Data, rr.Data)
	}
}

func TestRecordUnknownTypeResyncsToFinalPos(t *testing.T) {
	name, _ := EncodeName("weird.example.com")
	// type=65280 (unassigned), class=IN, ttl=0, rdlen=4, 4 bytes rdata, then
	// a trailing sentinel byte that must remain untouched by resync.
	b := append([]byte{}, name...)
	b = append(b, 0xFF, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 4, 'd', 'e', 'a', 'd', 0xAB)
	off := 0
	_, err := ParseRecord(b, &off)
	if err == nil {
		t.Fatalf("expected unknown-rdata error")
	}
	resync, ok := err.(*recordResyncError)
	if !ok {
		t.Fatalf("expected *recordResyncError, got %T", err)
	}
	if off != resync.finalPos {
		t.Fatalf("off=%d want finalPos=%d", off, resync.finalPos)
	}
	if off != len(b)-1 {
		t.Fatalf("off=%d should land exactly before the trailing sentinel byte (len-1=%d)", off, len(b)-1)
	}
}

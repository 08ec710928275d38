package jelly_test

import (
	"testing"

	"github.com/gosexp/jelly"
)

func TestEncoderDecoderRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)

	enc := jelly.NewEncoder(reg)
	dec := jelly.NewDecoder(reg)

	sexp, err := enc.Encode("hello")
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := dec.Decode(sexp)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != "hello" {
		t.Errorf("round trip = %v, want %q", got, "hello")
	}
}

func TestEncoderAppliesConfiguredTaster(t *testing.T) {
	reg, _ := newTestRegistry(t)

	enc := jelly.NewEncoder(reg, jelly.WithEncodeTaster(jelly.Restrictive()))
	sexp, err := enc.Encode(&Person{Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	dec := jelly.NewDecoder(reg)
	got, err := dec.Decode(sexp)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if _, ok := got.(jelly.Unpersistable); !ok {
		t.Errorf("got %T, want Unpersistable since the Encoder's Restrictive taster should have rejected Person", got)
	}
}

func TestDecoderAppliesConfiguredTaster(t *testing.T) {
	reg, class := newTestRegistry(t)

	enc := jelly.NewEncoder(reg)
	sexp, err := enc.Encode(&Person{Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	dec := jelly.NewDecoder(reg, jelly.WithDecodeTaster(jelly.Restrictive()))
	if _, err := dec.Decode(sexp); err == nil {
		t.Fatal("Decode() should reject an instance tag a fresh Restrictive taster never allowed")
	}

	allowed := jelly.NewDecoder(reg, jelly.WithDecodeTaster(jelly.Restrictive().AllowInstancesOf(class)))
	got, err := allowed.Decode(sexp)
	if err != nil {
		t.Fatalf("Decode() error after AllowInstancesOf: %v", err)
	}
	if p, ok := got.(*Person); !ok || p.Name != "Alice" {
		t.Errorf("Decode() = %+v, want *Person{Name: Alice}", got)
	}
}

package bson

import (
	"testing"

	"github.com/gosexp/jelly"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestMarshalUnmarshal_Scalar(t *testing.T) {
	c := New()

	original := jelly.Int(42)

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if !restored.Equal(original) {
		t.Errorf("round-trip = %v, want %v", restored, original)
	}
}

func TestMarshalUnmarshal_Compound(t *testing.T) {
	c := New()

	original := jelly.List(
		jelly.String("list"),
		jelly.String("x"),
		jelly.Int(7),
	)

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if !restored.Equal(original) {
		t.Errorf("round-trip = %v, want %v", restored, original)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	_, err := c.Unmarshal([]byte("invalid bson"))
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

package msgpack

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
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal_Scalar(t *testing.T) {
	c := New()

	original := jelly.Bool(true)

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
		jelly.String("dictionary"),
		jelly.List(jelly.String("a"), jelly.Int(1)),
		jelly.List(jelly.String("b"), jelly.Int(2)),
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

func TestMarshalBinary(t *testing.T) {
	c := New()

	data, err := c.Marshal(jelly.String("hello"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// MessagePack is binary, should not look like JSON text.
	if len(data) > 0 && data[0] == '{' {
		t.Error("MessagePack output should be binary, not JSON")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	_, err := c.Unmarshal([]byte("not msgpack"))
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

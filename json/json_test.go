package json

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
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestMarshalUnmarshal_Scalar(t *testing.T) {
	c := New()

	original := jelly.String("hello")

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
		jelly.Int(1),
		jelly.Float(2.5),
		jelly.Bool(true),
		jelly.Null(),
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

func TestMarshalUnmarshal_Nested(t *testing.T) {
	c := New()

	original := jelly.List(
		jelly.String("reference"),
		jelly.Int(1),
		jelly.List(
			jelly.String("list"),
			jelly.List(jelly.String("dereference"), jelly.Int(1)),
		),
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

func TestMarshal_Null(t *testing.T) {
	c := New()

	data, err := c.Marshal(jelly.Null())
	if err != nil {
		t.Fatalf("Marshal(Null) error: %v", err)
	}

	restored, err := c.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !restored.Equal(jelly.Null()) {
		t.Errorf("round-trip of Null() = %v, want Null()", restored)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	_, err := c.Unmarshal([]byte("not json at all {"))
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

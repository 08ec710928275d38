package xml

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
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
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
		jelly.String("dictionary"),
		jelly.List(jelly.String("k"), jelly.Int(1)),
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

func TestMarshal_SpecialCharacters(t *testing.T) {
	c := New()

	testCases := []string{
		"rock & roll",
		"a < b",
		"a > b",
		`say "hello"`,
		"it's fine",
		"日本語テスト",
		"hello 👋 world",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			original := jelly.String(tc)
			data, err := c.Marshal(original)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}

			restored, err := c.Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}

			if !restored.Equal(original) {
				t.Errorf("round-trip failed for %q: got %v", tc, restored)
			}
		})
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

func TestUnmarshal_MalformedXML(t *testing.T) {
	c := New()

	testCases := []struct {
		name  string
		input string
	}{
		{"unclosed tag", "<sexp><is_list>true</sexp>"},
		{"mismatched tags", "<sexp></wrong>"},
		{"no root element", "just text"},
		{"invalid attribute", "<sexp attr=>value</sexp>"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Unmarshal([]byte(tc.input))
			if err == nil {
				t.Errorf("Unmarshal(%q) should return error", tc.input)
			}
		})
	}
}

func TestUnmarshal_EmptyInput(t *testing.T) {
	c := New()

	_, err := c.Unmarshal([]byte{})
	if err == nil {
		t.Error("Unmarshal(empty) should return error")
	}
}

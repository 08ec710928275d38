// Package json provides a JSON SexpCodec implementation.
package json

import (
	"encoding/json"

	"github.com/gosexp/jelly"
)

// jsonCodec implements jelly.SexpCodec for JSON.
type jsonCodec struct{}

// New returns a JSON SexpCodec.
func New() jelly.SexpCodec {
	return &jsonCodec{}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes s as JSON.
func (c *jsonCodec) Marshal(s jelly.Sexp) ([]byte, error) {
	return json.Marshal(jelly.ToWire(s))
}

// Unmarshal decodes JSON data into a Sexp.
func (c *jsonCodec) Unmarshal(data []byte) (jelly.Sexp, error) {
	var w jelly.WireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return jelly.Sexp{}, err
	}
	return jelly.FromWire(w), nil
}

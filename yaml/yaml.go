// Package yaml provides a YAML SexpCodec implementation.
package yaml

import (
	"github.com/gosexp/jelly"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements jelly.SexpCodec for YAML.
type yamlCodec struct{}

// New returns a YAML SexpCodec.
func New() jelly.SexpCodec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes s as YAML.
func (c *yamlCodec) Marshal(s jelly.Sexp) ([]byte, error) {
	return yaml.Marshal(jelly.ToWire(s))
}

// Unmarshal decodes YAML data into a Sexp.
func (c *yamlCodec) Unmarshal(data []byte) (jelly.Sexp, error) {
	var w jelly.WireNode
	if err := yaml.Unmarshal(data, &w); err != nil {
		return jelly.Sexp{}, err
	}
	return jelly.FromWire(w), nil
}

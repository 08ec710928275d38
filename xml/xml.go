// Package xml provides an XML SexpCodec implementation.
package xml

import (
	"encoding/xml"

	"github.com/gosexp/jelly"
)

// xmlCodec implements jelly.SexpCodec for XML.
type xmlCodec struct{}

// New returns an XML SexpCodec.
func New() jelly.SexpCodec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// wireNodeXML gives the recursive WireNode tree a root element name;
// encoding/xml requires one for the top-level value passed to Marshal.
type wireNodeXML struct {
	XMLName struct{} `xml:"sexp"`
	jelly.WireNode
}

// Marshal encodes s as XML.
func (c *xmlCodec) Marshal(s jelly.Sexp) ([]byte, error) {
	return xml.Marshal(wireNodeXML{WireNode: jelly.ToWire(s)})
}

// Unmarshal decodes XML data into a Sexp.
func (c *xmlCodec) Unmarshal(data []byte) (jelly.Sexp, error) {
	var w wireNodeXML
	if err := xml.Unmarshal(data, &w); err != nil {
		return jelly.Sexp{}, err
	}
	return jelly.FromWire(w.WireNode), nil
}

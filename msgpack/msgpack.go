// Package msgpack provides a MessagePack SexpCodec implementation.
package msgpack

import (
	"github.com/gosexp/jelly"
	"github.com/vmihailenco/msgpack/v5"
)

// msgpackCodec implements jelly.SexpCodec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack SexpCodec.
func New() jelly.SexpCodec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes s as MessagePack.
func (c *msgpackCodec) Marshal(s jelly.Sexp) ([]byte, error) {
	return msgpack.Marshal(jelly.ToWire(s))
}

// Unmarshal decodes MessagePack data into a Sexp.
func (c *msgpackCodec) Unmarshal(data []byte) (jelly.Sexp, error) {
	var w jelly.WireNode
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return jelly.Sexp{}, err
	}
	return jelly.FromWire(w), nil
}

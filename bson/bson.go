// Package bson provides a BSON SexpCodec implementation.
package bson

import (
	"github.com/gosexp/jelly"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements jelly.SexpCodec for BSON.
type bsonCodec struct{}

// New returns a BSON SexpCodec.
func New() jelly.SexpCodec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes s as BSON.
func (c *bsonCodec) Marshal(s jelly.Sexp) ([]byte, error) {
	return bson.Marshal(jelly.ToWire(s))
}

// Unmarshal decodes BSON data into a Sexp.
func (c *bsonCodec) Unmarshal(data []byte) (jelly.Sexp, error) {
	var w jelly.WireNode
	if err := bson.Unmarshal(data, &w); err != nil {
		return jelly.Sexp{}, err
	}
	return jelly.FromWire(w), nil
}

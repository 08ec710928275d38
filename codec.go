package jelly

// SexpCodec provides content-type aware marshaling of a Sexp to and
// from bytes. Unlike the generic marshal-any-value codecs this package
// is descended from, a SexpCodec only ever carries a Sexp: the
// structural identity-preserving work happens in Jelly/Unjelly, and a
// SexpCodec's only job is picking a wire syntax for the resulting tree.
type SexpCodec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes s into bytes.
	Marshal(s Sexp) ([]byte, error)

	// Unmarshal decodes data into a Sexp.
	Unmarshal(data []byte) (Sexp, error)
}

// WireAtomKind mirrors AtomKind in a form marshal libraries can see:
// Sexp keeps its kind and value in unexported fields so callers can't
// construct a malformed Sexp directly, but a wire codec needs a tagged
// union it can serialize.
type WireAtomKind int

// Wire atom kinds, matching AtomKind's ordering.
const (
	WireNull WireAtomKind = iota
	WireBool
	WireInt
	WireFloat
	WireString
)

// WireNode is the marshalable mirror of Sexp used by SexpCodec
// implementations. Every field is exported so encoding/json,
// encoding/xml, msgpack, yaml, and bson can all serialize it without a
// custom MarshalJSON/MarshalBSON pair per package.
type WireNode struct {
	IsList bool         `json:"is_list,omitempty" xml:"isList,attr,omitempty" yaml:"is_list,omitempty" bson:"is_list,omitempty"`
	Kind   WireAtomKind `json:"kind,omitempty" xml:"kind,attr,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Bool   bool         `json:"bool,omitempty" xml:"bool,omitempty" yaml:"bool,omitempty" bson:"bool,omitempty"`
	Int    int64        `json:"int,omitempty" xml:"int,omitempty" yaml:"int,omitempty" bson:"int,omitempty"`
	Float  float64      `json:"float,omitempty" xml:"float,omitempty" yaml:"float,omitempty" bson:"float,omitempty"`
	Str    string       `json:"str,omitempty" xml:"str,omitempty" yaml:"str,omitempty" bson:"str,omitempty"`
	List   []WireNode   `json:"list,omitempty" xml:"child,omitempty" yaml:"list,omitempty" bson:"list,omitempty"`
}

// ToWire converts a Sexp into its marshalable WireNode mirror.
func ToWire(s Sexp) WireNode {
	if s.IsList() {
		elems := s.Elements()
		list := make([]WireNode, len(elems))
		for i, e := range elems {
			list[i] = ToWire(e)
		}
		return WireNode{IsList: true, List: list}
	}

	w := WireNode{Kind: WireAtomKind(s.AtomKind())}
	switch s.AtomKind() {
	case AtomBool:
		w.Bool = s.BoolValue()
	case AtomInt:
		w.Int = s.IntValue()
	case AtomFloat:
		w.Float = s.FloatValue()
	case AtomString:
		w.Str = s.StringValue()
	}
	return w
}

// FromWire converts a WireNode back into a Sexp.
func FromWire(w WireNode) Sexp {
	if w.IsList {
		elems := make([]Sexp, len(w.List))
		for i, e := range w.List {
			elems[i] = FromWire(e)
		}
		return List(elems...)
	}

	switch AtomKind(w.Kind) {
	case AtomBool:
		return Bool(w.Bool)
	case AtomInt:
		return Int(w.Int)
	case AtomFloat:
		return Float(w.Float)
	case AtomString:
		return String(w.Str)
	default:
		return Null()
	}
}

package jelly

// List is the host's mutable ordered sequence, jellied under the list
// tag. Use a *List as the object: two variables holding the same
// pointer are the same object and share identity, including when the
// list is reachable from a cycle (see TestSelfReferentialCycle).
type List struct {
	Items []any
}

// Tuple is the host's immutable ordered sequence, jellied under the
// tuple tag. Go has no enforced immutability, so *Tuple is populated
// once by NewTuple or by the decoder and should not be mutated
// afterward; the pointer is what carries identity.
type Tuple struct {
	Items []any
}

// NewTuple returns a Tuple wrapping items.
func NewTuple(items ...any) *Tuple {
	return &Tuple{Items: items}
}

// DictPair is one [key value] entry of a Dict. Keys need not be
// strings or even comparable Go values; a Dict stores pairs positionally
// rather than in a Go map so that arbitrary jellyable values — including
// other containers — can serve as keys, matching the wire schema's
// PAIR = [K V] shape directly.
type DictPair struct {
	Key   any
	Value any
}

// Dict is the host's mutable associative container, jellied under the
// dictionary tag. Pair order is whatever order Pairs holds; neither
// side of the codec treats that order as a contract.
type Dict struct {
	Pairs []DictPair
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{}
}

// Set appends a pair. It does not check for an existing key: a Dict is
// a faithful mirror of the wire form, which itself never deduplicates
// keys.
func (d *Dict) Set(key, value any) *Dict {
	d.Pairs = append(d.Pairs, DictPair{Key: key, Value: value})
	return d
}

// Get returns the value of the first pair whose key equals key under
// ==, and whether one was found. Every key a caller is expected to look
// up is either a scalar or one of the *List/*Tuple/*Dict pointer types,
// all of which are comparable.
func (d *Dict) Get(key any) (any, bool) {
	for _, p := range d.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

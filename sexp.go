package jelly

import "fmt"

// AtomKind identifies which scalar a Sexp atom carries.
type AtomKind int

// Atom kinds. These are the only scalar leaves the wire form supports.
const (
	AtomNull AtomKind = iota
	AtomBool
	AtomInt
	AtomFloat
	AtomString
)

// Sexp is a tagged recursive value: either an atom (a scalar leaf) or a
// list of Sexp. A list whose first element is a string atom naming one
// of the Tag constants is a compound form (see tag.go); every other
// list is a plain data sequence, such as a dictionary's [key value]
// pair.
//
// The zero Sexp is the atom Null.
type Sexp struct {
	isList   bool
	atomKind AtomKind
	b        bool
	i        int64
	f        float64
	s        string
	list     []Sexp
}

// Null returns the bare null atom.
func Null() Sexp { return Sexp{} }

// Bool returns a boolean atom.
func Bool(v bool) Sexp { return Sexp{atomKind: AtomBool, b: v} }

// Int returns an integer atom.
func Int(v int64) Sexp { return Sexp{atomKind: AtomInt, i: v} }

// Float returns a floating point atom.
func Float(v float64) Sexp { return Sexp{atomKind: AtomFloat, f: v} }

// String returns a string atom. Bytes are carried verbatim.
func String(v string) Sexp { return Sexp{atomKind: AtomString, s: v} }

// List returns a compound or data list wrapping elems in order.
func List(elems ...Sexp) Sexp {
	cp := make([]Sexp, len(elems))
	copy(cp, elems)
	return Sexp{isList: true, list: cp}
}

// IsAtom reports whether s is a scalar leaf.
func (s Sexp) IsAtom() bool { return !s.isList }

// IsList reports whether s is a list (compound or data sequence).
func (s Sexp) IsList() bool { return s.isList }

// AtomKind returns the scalar kind of an atom. Calling it on a list
// returns AtomNull and is meaningless; callers should check IsAtom first.
func (s Sexp) AtomKind() AtomKind { return s.atomKind }

// BoolValue returns the atom's boolean value.
func (s Sexp) BoolValue() bool { return s.b }

// IntValue returns the atom's integer value.
func (s Sexp) IntValue() int64 { return s.i }

// FloatValue returns the atom's float value.
func (s Sexp) FloatValue() float64 { return s.f }

// StringValue returns the atom's string value.
func (s Sexp) StringValue() string { return s.s }

// Elements returns a list's children. Calling it on an atom returns nil.
func (s Sexp) Elements() []Sexp { return s.list }

// Len returns the number of children in a list, or 0 for an atom.
func (s Sexp) Len() int { return len(s.list) }

// Head returns the tag name of a compound list: its first element, if
// that element is a string atom. ok is false for atoms, empty lists,
// or lists whose first element isn't a string atom — i.e. data
// sequences such as a dictionary's [key value] pair.
func (s Sexp) Head() (name string, ok bool) {
	if !s.isList || len(s.list) == 0 {
		return "", false
	}
	head := s.list[0]
	if head.isList || head.atomKind != AtomString {
		return "", false
	}
	return head.s, true
}

// Rest returns every element after the first. Calling it on an empty
// list returns nil.
func (s Sexp) Rest() []Sexp {
	if len(s.list) == 0 {
		return nil
	}
	return s.list[1:]
}

// Clone returns a deep copy of s. Modifications to the clone's list
// structure do not affect the original. This is the Cloner[Sexp]
// implementation.
func (s Sexp) Clone() Sexp {
	if !s.isList {
		return s
	}
	cp := make([]Sexp, len(s.list))
	for i, child := range s.list {
		cp[i] = child.Clone()
	}
	return Sexp{isList: true, list: cp}
}

// Equal reports whether s and other are structurally equal. Equality
// is purely structural: two atoms are equal iff their kind and value
// match, two lists are equal iff they have the same length and every
// element pair is equal.
func (s Sexp) Equal(other Sexp) bool {
	if s.isList != other.isList {
		return false
	}
	if !s.isList {
		if s.atomKind != other.atomKind {
			return false
		}
		switch s.atomKind {
		case AtomNull:
			return true
		case AtomBool:
			return s.b == other.b
		case AtomInt:
			return s.i == other.i
		case AtomFloat:
			return s.f == other.f
		case AtomString:
			return s.s == other.s
		default:
			return false
		}
	}
	if len(s.list) != len(other.list) {
		return false
	}
	for i := range s.list {
		if !s.list[i].Equal(other.list[i]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for debugging; it is not the wire form.
func (s Sexp) String() string {
	if !s.isList {
		switch s.atomKind {
		case AtomNull:
			return "null"
		case AtomBool:
			return fmt.Sprintf("%t", s.b)
		case AtomInt:
			return fmt.Sprintf("%d", s.i)
		case AtomFloat:
			return fmt.Sprintf("%g", s.f)
		case AtomString:
			return fmt.Sprintf("%q", s.s)
		default:
			return "?"
		}
	}
	out := "("
	for i, child := range s.list {
		if i > 0 {
			out += " "
		}
		out += child.String()
	}
	return out + ")"
}

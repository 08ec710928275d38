package jelly

// Unpersistable is an in-band placeholder recording why a sub-object
// could not be serialized. It exists so that partial serialization of a
// large graph yields a legible graph with explicit holes rather than
// failing wholesale. Equality is by Reason alone.
type Unpersistable struct {
	Reason string
}

// Equal reports whether two Unpersistable placeholders carry the same
// reason.
func (u Unpersistable) Equal(other Unpersistable) bool {
	return u.Reason == other.Reason
}

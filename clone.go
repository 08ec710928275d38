package jelly

// Cloner is implemented by any type that can produce a deep copy of
// itself. Sexp implements Cloner[Sexp]. The encoder does not call it:
// it holds shared children as the same *slot and builds each Sexp once,
// in resolve (jellier.go).
type Cloner[T any] interface {
	Clone() T
}

// Package jelly provides a bidirectional, security-gated, cycle-and-
// sharing-preserving codec between live object graphs and a portable
// s-expression value.
//
// Relative to a binary pickling format, the goals are, in order,
// security (no code execution from untrusted input), human
// readability, and cross-environment portability. Performance is not
// a goal.
//
// # Basic usage
//
//	registry := jelly.NewRegistry()
//	class, _ := jelly.RegisterClass[Person](registry, "myapp", "Person")
//
//	sexp, err := jelly.Jelly(person, registry, jelly.Permissive(), nil)
//	back, err := jelly.Unjelly(sexp, registry, jelly.Permissive(), nil)
//
// # Security
//
// A Taster gates every module, class, and tag the codec touches.
// Permissive allows everything; Restrictive denies everything except
// an explicit allow-list built with AllowTypes, AllowBasicTypes,
// AllowModules, and AllowInstancesOf. Rejections during encode are
// soft: the disallowed sub-object becomes an embedded Unpersistable
// placeholder and encoding continues. Rejections during decode are
// hard: the call raises InsecureJelly before any instance is
// constructed.
//
// # Identity
//
// Shared and cyclic structure round-trips. Two variables that hold the
// same *List, *Tuple, or *Dict before encoding hold the same pointer
// after decoding, including when the sharing closes a cycle through an
// immutable Tuple.
//
// # Persistence
//
// A PersistentStoreFunc/PersistentLoadFunc pair lets the host swap any
// instance for an opaque external reference instead of structural
// encoding. FingerprintStore and SealedStore are two ready-made
// implementations: the former is a process-local cache keyed by a
// content hash, the latter a portable encrypted payload.
package jelly

import (
	"context"
	"time"
)

// Jelly encodes value into a portable Sexp. If taster is nil,
// Permissive is used. If store is non-nil, it is consulted for every
// instance encountered; see PersistentStoreFunc.
func Jelly(value any, reflector Reflector, taster Taster, store PersistentStoreFunc) (Sexp, error) {
	if taster == nil {
		taster = Permissive()
	}
	start := time.Now()
	emitJellyStart()

	j := newJellier(taster, reflector, store)
	node, err := j.encode(value)

	emitJellyComplete(time.Since(start), j.nextID, err)
	if err != nil {
		return Sexp{}, err
	}
	return j.resolve(node), nil
}

// Unjelly decodes sexp into a live value. If taster is nil, Permissive
// is used. If load is non-nil, it is consulted for every (persistent
// OPAQUE) node; see PersistentLoadFunc.
func Unjelly(sexp Sexp, reflector Reflector, taster Taster, load PersistentLoadFunc) (any, error) {
	if taster == nil {
		taster = Permissive()
	}
	start := time.Now()
	emitUnjellyStart()

	u := newUnjellier(taster, reflector, load)
	value, err := u.Decode(sexp)

	emitUnjellyComplete(time.Since(start), err)
	return value, err
}

// Encoder wraps Jelly with a fixed Reflector, Taster, and
// PersistentStoreFunc so a caller that encodes many values under the
// same configuration doesn't have to repeat all three at every call
// site. Built with NewEncoder and EncoderOptions; the zero value is not
// usable.
type Encoder struct {
	reflector Reflector
	taster    Taster
	store     PersistentStoreFunc
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithEncodeTaster sets the Taster an Encoder consults. Permissive is
// used if this option is never applied.
func WithEncodeTaster(taster Taster) EncoderOption {
	return func(e *Encoder) { e.taster = taster }
}

// WithPersistentStore sets the PersistentStoreFunc an Encoder consults
// for every instance it encounters.
func WithPersistentStore(store PersistentStoreFunc) EncoderOption {
	return func(e *Encoder) { e.store = store }
}

// NewEncoder returns an Encoder backed by reflector, configured by opts.
func NewEncoder(reflector Reflector, opts ...EncoderOption) *Encoder {
	e := &Encoder{reflector: reflector}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode jellies value using the Encoder's configured Reflector,
// Taster, and PersistentStoreFunc.
func (e *Encoder) Encode(value any) (Sexp, error) {
	return Jelly(value, e.reflector, e.taster, e.store)
}

// Decoder wraps Unjelly the way Encoder wraps Jelly.
type Decoder struct {
	reflector Reflector
	taster    Taster
	load      PersistentLoadFunc
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithDecodeTaster sets the Taster a Decoder consults. Permissive is
// used if this option is never applied.
func WithDecodeTaster(taster Taster) DecoderOption {
	return func(d *Decoder) { d.taster = taster }
}

// WithPersistentLoad sets the PersistentLoadFunc a Decoder consults for
// every (persistent OPAQUE) node.
func WithPersistentLoad(load PersistentLoadFunc) DecoderOption {
	return func(d *Decoder) { d.load = load }
}

// NewDecoder returns a Decoder backed by reflector, configured by opts.
func NewDecoder(reflector Reflector, opts ...DecoderOption) *Decoder {
	d := &Decoder{reflector: reflector}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode unjellies sexp using the Decoder's configured Reflector,
// Taster, and PersistentLoadFunc.
func (d *Decoder) Decode(sexp Sexp) (any, error) {
	return Unjelly(sexp, d.reflector, d.taster, d.load)
}

// JellyContext and UnjellyContext are context-aware variants kept for
// callers that want to thread cancellation or deadlines through to a
// StateExporter/StateImporter or persistent-store hook that accepts a
// context; the core codec itself performs no I/O and never observes
// ctx directly.
func JellyContext(ctx context.Context, value any, reflector Reflector, taster Taster, store PersistentStoreFunc) (Sexp, error) {
	_ = ctx
	return Jelly(value, reflector, taster, store)
}

// UnjellyContext is the decode counterpart of JellyContext.
func UnjellyContext(ctx context.Context, sexp Sexp, reflector Reflector, taster Taster, load PersistentLoadFunc) (any, error) {
	_ = ctx
	return Unjelly(sexp, reflector, taster, load)
}

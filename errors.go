package jelly

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownTag indicates a compound list's head atom is not a
	// member of the closed tag set (§3.2).
	ErrUnknownTag = errors.New("unknown tag")

	// ErrTypeDenied indicates the Taster rejected a tag during decode.
	ErrTypeDenied = errors.New("type not allowed")

	// ErrModuleDenied indicates the Taster rejected a module during decode.
	ErrModuleDenied = errors.New("module not allowed")

	// ErrClassDenied indicates the Taster rejected a class during decode.
	ErrClassDenied = errors.New("class not allowed")

	// ErrNotAClass indicates a position expected to resolve to a class
	// handle resolved to something else.
	ErrNotAClass = errors.New("resolved value is not a class")

	// ErrBadArity indicates a compound list has the wrong number of
	// elements for its tag's fixed schema.
	ErrBadArity = errors.New("bad arity")

	// ErrBadAtomType indicates a fixed position expected an atom of a
	// particular kind and found something else.
	ErrBadAtomType = errors.New("wrong atom type")

	// ErrDanglingDereference indicates a dereference ID with no prior
	// registered reference under that ID.
	ErrDanglingDereference = errors.New("dangling dereference")

	// ErrNoSuchModule indicates the Reflector could not resolve a module.
	ErrNoSuchModule = errors.New("no such module")

	// ErrNoSuchAttribute indicates the Reflector could not resolve a
	// name on a module or class.
	ErrNoSuchAttribute = errors.New("no such attribute")

	// ErrNoSuchMethod indicates a method name was absent from a class's
	// dictionary. See the strict-vs-inherited configuration knob in
	// reflector.go.
	ErrNoSuchMethod = errors.New("no such method")

	// ErrBuiltinCallable indicates the encoder was asked to jelly a
	// built-in (non-user) callable, which has no portable representation.
	// The encoder also returns it for any other value it has no form for,
	// such as a map, a slice, or a non-pointer struct.
	ErrBuiltinCallable = errors.New("built-in callables cannot be jellied")

	// ErrPromiseAlreadyKept indicates a Promise's Keep was invoked a
	// second time.
	ErrPromiseAlreadyKept = errors.New("promise already kept")

	// ErrMissingEncryptor indicates a required encryptor was not registered.
	ErrMissingEncryptor = errors.New("missing encryptor")

	// ErrMissingHasher indicates a required hasher was not registered.
	ErrMissingHasher = errors.New("missing hasher")

	// ErrMissingMasker indicates a required masker was not registered.
	ErrMissingMasker = errors.New("missing masker")

	// ErrEncrypt indicates encryption of a persisted payload failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates decryption of a persisted payload failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrHash indicates hashing of a fingerprint key failed.
	ErrHash = errors.New("hash failed")

	// ErrMask indicates masking of a field failed.
	ErrMask = errors.New("mask failed")

	// ErrInvalidKey indicates an encryption key has invalid size or format.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownAlgorithm indicates an EncryptAlgo or HashAlgo dispatch
	// was asked to build a store around an algorithm IsValidEncryptAlgo
	// or IsValidHashAlgo does not recognize.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrWrongPassphrase indicates NewPasswordSealedStore's bcrypt
	// check on the supplied passphrase failed, distinguishing a bad
	// passphrase from ErrDecrypt (corrupted or tampered ciphertext).
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// InsecureJelly reports that the Taster rejected a tag, module, or
// class encountered during decode, or that decode observed a structural
// rule violation consistent with a crafted adversarial input (e.g. an
// instance whose class position resolved to a non-class). It is always
// fatal to the unjelly call that raised it, and is raised before any
// instance construction occurs for the rejected node.
type InsecureJelly struct {
	Err    error  // one of ErrTypeDenied, ErrModuleDenied, ErrClassDenied, ErrNotAClass
	Detail string // the tag, module, or class name that was rejected
}

func (e *InsecureJelly) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("insecure jelly: %s: %s", e.Err.Error(), e.Detail)
	}
	return fmt.Sprintf("insecure jelly: %s", e.Err.Error())
}

func (e *InsecureJelly) Unwrap() error { return e.Err }

// FormatError reports a well-formed-but-malformed Sexp: an unknown tag,
// bad arity, a wrong atom type at a fixed position, a dereference to an
// unknown ID, or a reference whose ID mismatches. Fatal to the call.
type FormatError struct {
	Err    error
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("format error: %s: %s", e.Err.Error(), e.Detail)
	}
	return fmt.Sprintf("format error: %s", e.Err.Error())
}

func (e *FormatError) Unwrap() error { return e.Err }

// EncodeError reports that jelly cannot represent a value at all, as
// opposed to a per-object security rejection (which embeds an
// Unpersistable node and lets the call continue). Fatal to the call.
type EncodeError struct {
	Err    error
	Detail string
}

func (e *EncodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("encode error: %s: %s", e.Err.Error(), e.Detail)
	}
	return fmt.Sprintf("encode error: %s", e.Err.Error())
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ConfigError reports a Registry or Reflector misconfiguration: a class
// registered without a required hook, a persistent store asked to use
// an algorithm that was never wired in.
type ConfigError struct {
	Err       error
	Field     string
	Algorithm string
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q (field %s)", e.Err.Error(), e.Algorithm, e.Field)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q", e.Err.Error(), e.Algorithm)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CodecError represents a SexpCodec marshal/unmarshal failure.
type CodecError struct {
	Err   error
	Cause error
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error { return e.Err }

func newInsecureJelly(sentinel error, detail string) error {
	return &InsecureJelly{Err: sentinel, Detail: detail}
}

func newFormatError(sentinel error, detail string) error {
	return &FormatError{Err: sentinel, Detail: detail}
}

func newEncodeError(sentinel error, detail string) error {
	return &EncodeError{Err: sentinel, Detail: detail}
}

func newConfigError(sentinel error, algorithm, field string) error {
	return &ConfigError{Err: sentinel, Algorithm: algorithm, Field: field}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{Err: sentinel, Cause: cause}
}

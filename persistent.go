package jelly

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"sync"
)

// PersistentStoreFunc is consulted by the Jellier for every instance it
// encounters. Returning ok == true short-circuits structural encoding:
// the instance is emitted as (persistent opaque) instead of (instance
// CLASS STATE).
type PersistentStoreFunc func(instance any) (opaque string, ok bool)

// PersistentLoadFunc is consulted by the Unjellier for every
// (persistent OPAQUE) node. It returns the live object and, when the
// object's wiring depends on sub-objects decoded later in the same
// call, a deferred Promise that finishes that wiring; a nil Promise
// means the returned value is already complete.
type PersistentLoadFunc func(opaque string) (value any, promise *Promise, err error)

// FingerprintStore is a persistent-store/load pair backed by a content
// hash: Store computes a deterministic fingerprint of an instance's
// class and exported state via a Hasher and caches the live instance
// under that fingerprint; Load looks the fingerprint back up. It never
// leaves the process, so it models the common case of "this instance
// is actually a handle into a cache or connection the other side
// already holds" rather than a portable encrypted payload.
type FingerprintStore struct {
	hasher    Hasher
	reflector Reflector
	mu        sync.RWMutex
	byPrint   map[string]any
}

// NewFingerprintStore returns a FingerprintStore using hasher to derive
// fingerprints and reflector to read instance state.
func NewFingerprintStore(hasher Hasher, reflector Reflector) *FingerprintStore {
	return &FingerprintStore{
		hasher:    hasher,
		reflector: reflector,
		byPrint:   make(map[string]any),
	}
}

// NewFingerprintStoreWithAlgo is NewFingerprintStore for callers that
// configure a fingerprint algorithm from a string, e.g. a config file,
// rather than constructing a Hasher in code. Only deterministic
// algorithms (HashSHA256, HashSHA512) are accepted: a fingerprint is a
// cache key looked up by equality, and Argon2id/bcrypt hash the same
// plaintext to a different string on every call, which would make a
// fingerprint unfindable the moment it was recomputed.
func NewFingerprintStoreWithAlgo(algo HashAlgo, reflector Reflector) (*FingerprintStore, error) {
	if algo == HashArgon2 || algo == HashBcrypt {
		return nil, newConfigError(ErrMissingHasher, string(algo), "salted hashers cannot back a FingerprintStore")
	}
	if !IsValidHashAlgo(algo) {
		return nil, newConfigError(ErrUnknownAlgorithm, string(algo), "hash")
	}
	hasher := builtinHashers()[algo]
	return NewFingerprintStore(hasher, reflector), nil
}

// Store implements PersistentStoreFunc.
func (s *FingerprintStore) Store(instance any) (string, bool) {
	class, ok := s.reflector.ClassOf(instance)
	if !ok {
		return "", false
	}
	state, err := s.reflector.ExportState(instance)
	if err != nil {
		return "", false
	}
	payload, err := json.Marshal(map[string]any{
		"class": class.Module + "." + class.Name,
		"state": state,
	})
	if err != nil {
		return "", false
	}
	print, err := s.hasher.Hash(payload)
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	s.byPrint[print] = instance
	s.mu.Unlock()
	return print, true
}

// Load implements PersistentLoadFunc.
func (s *FingerprintStore) Load(opaque string) (any, *Promise, error) {
	s.mu.RLock()
	instance, ok := s.byPrint[opaque]
	s.mu.RUnlock()
	if !ok {
		return Unpersistable{Reason: RedactingReason("no instance registered for fingerprint " + opaque)}, nil, nil
	}
	return instance, nil, nil
}

// sealedPayload is the portable envelope a SealedStore encrypts: the
// instance's class name and exported state, serialized with
// encoding/json, so the ciphertext round-trips
// without needing a live connection back to the encoding process.
type sealedPayload struct {
	Module string         `json:"module"`
	Class  string         `json:"class"`
	State  map[string]any `json:"state"`
}

// SealedStore is a persistent-store/load pair that serializes an
// instance's class and state and seals them with an Encryptor, so the
// opaque payload is a self-contained encrypted blob rather than a
// process-local cache key. Encoding the payload reuses the Reflector
// directly instead of calling Jelly recursively: Jelly's own persistent
// hook would otherwise intercept the very instance SealedStore is
// trying to persist, since the same store function is in scope for the
// whole call.
type SealedStore struct {
	encryptor Encryptor
	reflector Reflector
}

// NewSealedStore returns a SealedStore using encryptor to seal and open
// payloads and reflector to read and install instance state.
func NewSealedStore(encryptor Encryptor, reflector Reflector) *SealedStore {
	return &SealedStore{encryptor: encryptor, reflector: reflector}
}

// NewSealedStoreWithAlgo is NewSealedStore for callers that configure
// an encryption algorithm from a string, e.g. a config file. RSA is not
// dispatched here since it takes a key pair rather than a symmetric
// key; construct it directly with RSA and NewSealedStore instead.
func NewSealedStoreWithAlgo(algo EncryptAlgo, key []byte, reflector Reflector) (*SealedStore, error) {
	if !IsValidEncryptAlgo(algo) {
		return nil, newConfigError(ErrUnknownAlgorithm, string(algo), "encrypt")
	}
	var (
		enc Encryptor
		err error
	)
	switch algo {
	case EncryptAES:
		enc, err = AES(key)
	case EncryptEnvelope:
		enc, err = Envelope(key)
	case EncryptRSA:
		return nil, newConfigError(ErrMissingEncryptor, string(algo), "rsa needs RSA(pub, priv), not a symmetric key")
	default:
		return nil, newConfigError(ErrUnknownAlgorithm, string(algo), "encrypt")
	}
	if err != nil {
		return nil, newConfigError(ErrInvalidKey, string(algo), "key")
	}
	return NewSealedStore(enc, reflector), nil
}

// Store implements PersistentStoreFunc.
func (s *SealedStore) Store(instance any) (string, bool) {
	class, ok := s.reflector.ClassOf(instance)
	if !ok {
		return "", false
	}
	state, err := s.reflector.ExportState(instance)
	if err != nil {
		return "", false
	}
	plain, err := json.Marshal(sealedPayload{Module: class.Module, Class: class.Name, State: state})
	if err != nil {
		return "", false
	}
	sealed, err := s.encryptor.Encrypt(plain)
	if err != nil {
		return "", false
	}
	return string(sealed), true
}

// Load implements PersistentLoadFunc. It resolves the sealed module and
// class by name through the Reflector passed to NewSealedStore.
func (s *SealedStore) Load(opaque string) (any, *Promise, error) {
	plain, err := s.encryptor.Decrypt([]byte(opaque))
	if err != nil {
		return nil, nil, newCodecError(ErrDecrypt, err)
	}
	var payload sealedPayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return nil, nil, newCodecError(ErrDecrypt, err)
	}

	module, ok := s.reflector.Module(payload.Module)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchModule, payload.Module)
	}
	attr, ok := s.reflector.Attribute(module, payload.Class)
	if !ok {
		return nil, nil, newFormatError(ErrNoSuchAttribute, payload.Module+"."+payload.Class)
	}
	class, ok := attr.(ClassHandle)
	if !ok {
		return nil, nil, newInsecureJelly(ErrNotAClass, payload.Module+"."+payload.Class)
	}

	instance, err := s.reflector.NewInstance(class)
	if err != nil {
		return nil, nil, err
	}
	if err := s.reflector.ImportState(instance, payload.State); err != nil {
		return nil, nil, err
	}
	return instance, nil, nil
}

// passphraseVerifier checks an operator passphrase against a bcrypt
// hash on PasswordSealedStore's behalf. Package-level because bcrypt
// itself is stateless; mirrors classFingerprintHasher in taster.go.
var passphraseVerifier = Bcrypt().(PasswordVerifier)

// NewPassphraseSalt returns a random 16-byte salt for
// NewPasswordSealedStore's Argon2id key derivation. Call it once during
// setup and persist the result alongside the bcrypt hash from
// HashPassphrase; both are needed to reopen the store later.
func NewPassphraseSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPassphrase returns the bcrypt hash NewPasswordSealedStore checks
// an operator-supplied passphrase against. Compute it once during setup
// and persist it next to the salt from NewPassphraseSalt.
func HashPassphrase(passphrase string) (string, error) {
	return Bcrypt().Hash([]byte(passphrase))
}

// PasswordSealedStore is a SealedStore whose AES-256 key is derived
// from an operator passphrase with Argon2id instead of being supplied
// directly, for hosts that want a human-memorable secret rather than
// key material to manage. A bcrypt check against passHash runs before
// any decryption is attempted, so a wrong passphrase fails fast with
// ErrWrongPassphrase instead of the generic ErrDecrypt a corrupted
// ciphertext would also produce.
type PasswordSealedStore struct {
	*SealedStore
}

// NewPasswordSealedStore derives an AES-256 key from passphrase and
// salt via Argon2id (DefaultArgon2Params) and returns a
// PasswordSealedStore wrapping a SealedStore built on that key.
// passHash and salt come from HashPassphrase and NewPassphraseSalt at
// setup time; the caller persists both outside the sealed payloads
// themselves (typically in host configuration) and supplies them again
// on every subsequent open.
func NewPasswordSealedStore(passphrase string, salt []byte, passHash string, reflector Reflector) (*PasswordSealedStore, error) {
	if !passphraseVerifier.Verify([]byte(passphrase), passHash) {
		return nil, newCodecError(ErrWrongPassphrase, nil)
	}
	key := Argon2Key([]byte(passphrase), salt, DefaultArgon2Params())
	enc, err := AES(key)
	if err != nil {
		return nil, newConfigError(ErrInvalidKey, string(EncryptAES), "derived key")
	}
	return &PasswordSealedStore{SealedStore: NewSealedStore(enc, reflector)}, nil
}

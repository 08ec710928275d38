package jelly

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher is the one-way hashing abstraction behind FingerprintStore
// (§ persistent-store fingerprinting) and RestrictiveTaster's
// AllowClassFingerprint. Deterministic hashers (SHA-256, SHA-512)
// produce a hex-encoded digest usable as a map key; salted password
// hashers (Argon2id, bcrypt) produce a self-describing string that
// embeds its own salt and cost, and so are unsuitable as a
// deterministic lookup key — they exist for PasswordSealedStore's
// passphrase check, not for fingerprinting.
type Hasher interface {
	// Hash returns the hash of plaintext as a string.
	Hash(plaintext []byte) (string, error)
}

// PasswordVerifier is implemented by salted password hashers, whose
// Hash output cannot be compared for equality directly because it
// embeds a fresh random salt on every call. Verify re-derives the hash
// under the embedded parameters and compares in constant time.
type PasswordVerifier interface {
	Hasher

	// Verify reports whether plaintext matches hash, a string
	// previously returned by Hash.
	Verify(plaintext []byte, hash string) bool
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns recommended Argon2id parameters.
// Based on OWASP recommendations for password hashing.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

// argon2Hasher implements Argon2id password hashing.
type argon2Hasher struct {
	params Argon2Params
}

// Argon2 returns an Argon2id hasher with default parameters.
func Argon2() Hasher {
	return Argon2WithParams(DefaultArgon2Params())
}

// Argon2WithParams returns an Argon2id hasher with custom parameters.
func Argon2WithParams(params Argon2Params) Hasher {
	return &argon2Hasher{params: params}
}

func (h *argon2Hasher) Hash(plaintext []byte) (string, error) {
	// Generate random salt
	salt := make([]byte, h.params.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	// Hash with Argon2id
	hash := argon2.IDKey(plaintext, salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	// Using base64 encoding for salt and hash
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

// Verify implements PasswordVerifier by parsing the parameters and
// salt back out of hash (produced by a prior Hash call, possibly with
// different params than h carries) and re-deriving the Argon2id key
// under them for comparison.
func (h *argon2Hasher) Verify(plaintext []byte, hash string) bool {
	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}
	got := argon2.IDKey(plaintext, salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// Argon2Key derives raw key bytes from passphrase and salt using
// Argon2id under params. Unlike Argon2()'s Hasher, which generates its
// own random salt and returns a self-describing string meant for
// one-way password storage, Argon2Key takes an explicit salt and
// returns raw bytes meant as symmetric key material — the form
// PasswordSealedStore needs to turn an operator passphrase into an AES
// key that can be re-derived identically on every open.
func Argon2Key(passphrase, salt []byte, params Argon2Params) []byte {
	return argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, params.KeyLen)
}

// BcryptCost represents the bcrypt cost factor.
type BcryptCost int

// Bcrypt cost constants.
const (
	BcryptMinCost     BcryptCost = BcryptCost(bcrypt.MinCost)
	BcryptDefaultCost BcryptCost = BcryptCost(bcrypt.DefaultCost)
	BcryptMaxCost     BcryptCost = BcryptCost(bcrypt.MaxCost)
)

// bcryptHasher implements bcrypt password hashing.
type bcryptHasher struct {
	cost int
}

// Bcrypt returns a bcrypt hasher with default cost.
func Bcrypt() Hasher {
	return BcryptWithCost(BcryptDefaultCost)
}

// BcryptWithCost returns a bcrypt hasher with a specific cost factor.
func BcryptWithCost(cost BcryptCost) Hasher {
	return &bcryptHasher{cost: int(cost)}
}

func (h *bcryptHasher) Hash(plaintext []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(plaintext, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash failed: %w", err)
	}
	return string(hash), nil
}

// Verify implements PasswordVerifier. The cost h carries is irrelevant
// here; bcrypt.CompareHashAndPassword reads the cost embedded in hash.
func (h *bcryptHasher) Verify(plaintext []byte, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), plaintext) == nil
}

// sha256Hasher backs FingerprintStore and ClassFingerprint: it is
// deterministic, so the same instance state always lands at the same
// cache key or allow-list digest.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher producing a hex-encoded
// 64-character digest. This is what classFingerprintHasher and the
// default FingerprintStore wiring use; do not use it for passwords.
func SHA256Hasher() Hasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) Hash(plaintext []byte) (string, error) {
	sum := sha256.Sum256(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hasher is the higher-digest-size alternative to sha256Hasher
// for fingerprint stores that want a larger collision margin.
type sha512Hasher struct{}

// SHA512Hasher returns a SHA-512 hasher producing a hex-encoded
// 128-character digest. Do not use it for passwords.
func SHA512Hasher() Hasher {
	return &sha512Hasher{}
}

func (h *sha512Hasher) Hash(plaintext []byte) (string, error) {
	sum := sha512.Sum512(plaintext)
	return hex.EncodeToString(sum[:]), nil
}

// builtinHashers maps HashAlgo to its Hasher, letting
// NewFingerprintStoreWithAlgo (persistent.go) take a HashAlgo from
// config instead of requiring the caller to construct a Hasher.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashArgon2: Argon2(),
		HashBcrypt: Bcrypt(),
		HashSHA256: SHA256Hasher(),
		HashSHA512: SHA512Hasher(),
	}
}

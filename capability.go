package jelly

// EncryptAlgo names a supported encryption algorithm for
// NewSealedStoreWithAlgo, letting a host pick a persistent-store cipher
// from a string (a config file, a CLI flag) instead of importing
// encrypt.go's constructors directly.
type EncryptAlgo string

const (
	// EncryptAES dispatches to AES.
	EncryptAES EncryptAlgo = "aes"

	// EncryptRSA names RSA-OAEP. NewSealedStoreWithAlgo rejects it: RSA
	// takes a key pair, not the symmetric key every other EncryptAlgo
	// does, so a caller that wants it constructs RSA and NewSealedStore
	// directly. It stays in this set so IsValidEncryptAlgo and
	// validation error messages can still name it.
	EncryptRSA EncryptAlgo = "rsa"

	// EncryptEnvelope dispatches to Envelope.
	EncryptEnvelope EncryptAlgo = "envelope"
)

// HashAlgo names a supported hash algorithm for
// NewFingerprintStoreWithAlgo.
type HashAlgo string

const (
	// HashArgon2 dispatches to Argon2. NewFingerprintStoreWithAlgo
	// rejects it: a fingerprint is looked up by equality, and Argon2id
	// hashes the same plaintext to a different string on every call.
	HashArgon2 HashAlgo = "argon2"

	// HashBcrypt dispatches to Bcrypt, with the same
	// NewFingerprintStoreWithAlgo caveat as HashArgon2. Argon2 and
	// bcrypt earn their place in this set through PasswordSealedStore,
	// which verifies an operator passphrase with bcrypt before deriving
	// a key from it with Argon2id.
	HashBcrypt HashAlgo = "bcrypt"

	// HashSHA256 dispatches to SHA256Hasher: deterministic, usable as a
	// FingerprintStore key.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 dispatches to SHA512Hasher: deterministic, usable as a
	// FingerprintStore key.
	HashSHA512 HashAlgo = "sha512"
)

var validEncryptAlgos = map[EncryptAlgo]bool{
	EncryptAES:      true,
	EncryptRSA:      true,
	EncryptEnvelope: true,
}

var validHashAlgos = map[HashAlgo]bool{
	HashArgon2: true,
	HashBcrypt: true,
	HashSHA256: true,
	HashSHA512: true,
}

var validMaskTypes = map[MaskType]bool{
	MaskSSN:   true,
	MaskEmail: true,
	MaskPhone: true,
	MaskCard:  true,
	MaskIP:    true,
	MaskUUID:  true,
	MaskIBAN:  true,
	MaskName:  true,
}

// IsValidEncryptAlgo returns true if algo is a known encryption
// algorithm. NewSealedStoreWithAlgo checks this before dispatching.
func IsValidEncryptAlgo(algo EncryptAlgo) bool { return validEncryptAlgos[algo] }

// IsValidHashAlgo returns true if algo is a known hash algorithm.
// NewFingerprintStoreWithAlgo checks this before dispatching.
func IsValidHashAlgo(algo HashAlgo) bool { return validHashAlgos[algo] }

// IsValidMaskType returns true if mt is a known mask type. Consulted by
// buildClassPlan (reflector.go) when validating a jelly.mask tag at
// RegisterClass time.
func IsValidMaskType(mt MaskType) bool { return validMaskTypes[mt] }

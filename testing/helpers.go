// Package testing provides shared fixtures for jelly's integration tests.
package testing

import (
	"github.com/gosexp/jelly"
)

// AESKey returns a valid 32-byte AES key for testing.
func AESKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// Encryptor returns an AES encryptor configured for testing, suitable
// for a SealedStore.
func Encryptor() jelly.Encryptor {
	enc, err := jelly.AES(AESKey())
	if err != nil {
		panic(err)
	}
	return enc
}

// Account is a plain test type with no renamed or masked fields.
type Account struct {
	ID   string
	Name string
}

// Profile is a test type demonstrating field renaming and masking via
// struct tags consulted by RegisterClass.
type Profile struct {
	ID    string
	Email string `jelly.mask:"email"`
	SSN   string `jelly:"ssn_number" jelly.mask:"ssn"`
}

// Friend links one Friend to another, used to exercise instance
// cycles and sharing through a registered class rather than a bare
// *jelly.List.
type Friend struct {
	Name string
	Next *Friend
}

// NewRegistry returns a *jelly.Registry with Account, Profile, and
// Friend pre-registered under the "fixtures" module.
func NewRegistry() *jelly.Registry {
	reg := jelly.NewRegistry()
	if _, err := jelly.RegisterClass[Account](reg, "fixtures", "Account"); err != nil {
		panic(err)
	}
	if _, err := jelly.RegisterClass[Profile](reg, "fixtures", "Profile"); err != nil {
		panic(err)
	}
	if _, err := jelly.RegisterClass[Friend](reg, "fixtures", "Friend"); err != nil {
		panic(err)
	}
	return reg
}

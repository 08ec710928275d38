package jelly

import (
	"errors"
	"testing"
)

func TestConfigError_Is(t *testing.T) {
	err := newConfigError(ErrMissingEncryptor, "aes", "Email")

	if !errors.Is(err, ErrMissingEncryptor) {
		t.Error("ConfigError should unwrap to ErrMissingEncryptor")
	}
	if errors.Is(err, ErrMissingHasher) {
		t.Error("ConfigError should not match ErrMissingHasher")
	}
}

func TestConfigError_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantPart string
	}{
		{
			name:     "full context",
			err:      newConfigError(ErrMissingEncryptor, "aes", "Email"),
			wantPart: `missing encryptor for algorithm "aes" (field Email)`,
		},
		{
			name:     "algorithm only",
			err:      &ConfigError{Err: ErrMissingHasher, Algorithm: "argon2"},
			wantPart: `missing hasher for algorithm "argon2"`,
		},
		{
			name:     "field only",
			err:      &ConfigError{Err: ErrMissingMasker, Field: "Password"},
			wantPart: `missing masker (field Password)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantPart {
				t.Errorf("Error() = %q, want %q", got, tt.wantPart)
			}
		})
	}
}

func TestInsecureJelly_Is(t *testing.T) {
	err := newInsecureJelly(ErrClassDenied, "myapp.Secret")

	if !errors.Is(err, ErrClassDenied) {
		t.Error("InsecureJelly should unwrap to ErrClassDenied")
	}
	if errors.Is(err, ErrModuleDenied) {
		t.Error("InsecureJelly should not match ErrModuleDenied")
	}

	want := "insecure jelly: class not allowed: myapp.Secret"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFormatError_Is(t *testing.T) {
	err := newFormatError(ErrDanglingDereference, "7")

	if !errors.Is(err, ErrDanglingDereference) {
		t.Error("FormatError should unwrap to ErrDanglingDereference")
	}

	want := "format error: dangling dereference: 7"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestEncodeError_Is(t *testing.T) {
	err := newEncodeError(ErrBuiltinCallable, "func()")

	if !errors.Is(err, ErrBuiltinCallable) {
		t.Error("EncodeError should unwrap to ErrBuiltinCallable")
	}
}

func TestCodecError_Is(t *testing.T) {
	cause := errors.New("unexpected end of input")
	err := newCodecError(ErrDecrypt, cause)

	if !errors.Is(err, ErrDecrypt) {
		t.Error("CodecError should unwrap to ErrDecrypt")
	}

	want := "decrypt failed: unexpected end of input"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

package veil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidKeySize indicates a root key with the wrong length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidCiphertext indicates a token that could not be decrypted:
	// malformed, truncated, tampered with, or sealed under a different
	// purpose. Always recoverable; the caller keeps the original value.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrMissingSchema indicates the schema-driven query mode was configured
	// without a Shape. Reveal degrades to pass-through for keys it cannot
	// classify; Validate reports the gap at startup.
	ErrMissingSchema = errors.New("missing schema")

	// ErrInvalidTag indicates a veil struct tag with an unknown value.
	ErrInvalidTag = errors.New("invalid tag")
)

// FieldError wraps a sentinel error with the field that triggered it.
type FieldError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag, etc.)
	Field string // Field name that triggered the error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// newFieldError creates a FieldError for shape declaration failures.
func newFieldError(sentinel error, field string) error {
	return &FieldError{
		Err:   sentinel,
		Field: field,
	}
}

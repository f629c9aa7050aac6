package veil

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// purposeInfoPrefix versions the key derivation so the token format can
// change without old purposes colliding with new ones.
const purposeInfoPrefix = "veil-purpose-v1:"

// aeadProtector seals values with ChaCha20-Poly1305 under a purpose-derived
// key. Tokens are base64 raw-URL encoded with the nonce prepended.
type aeadProtector struct {
	aead cipher.AEAD
}

// NewProtector returns a Protector scoped to purpose.
//
// The root key must be exactly 32 bytes. A per-purpose subkey is derived
// with HKDF-SHA256 using the purpose as the info string, so tokens sealed
// under one purpose fail authentication under every other.
//
// The returned Protector holds no mutable state and is safe for
// unsynchronized concurrent use.
func NewProtector(rootKey []byte, purpose string) (Protector, error) {
	if len(rootKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, chacha20poly1305.KeySize, len(rootKey))
	}

	key, err := derivePurposeKey(rootKey, purpose)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &aeadProtector{aead: aead}, nil
}

// derivePurposeKey derives a 32-byte subkey from the root key via
// HKDF-SHA256. The purpose string acts as a namespace: path protection and
// query protection use distinct purposes so their tokens never cross-decrypt.
func derivePurposeKey(rootKey []byte, purpose string) ([]byte, error) {
	info := []byte(purposeInfoPrefix + purpose)
	reader := hkdf.New(sha256.New, rootKey, nil, info)

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}

	return key, nil
}

func (p *aeadProtector) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Prepend nonce to ciphertext
	sealed := p.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (p *aeadProtector) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}

	nonceSize := p.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := p.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCiphertext, err)
	}

	return string(plaintext), nil
}

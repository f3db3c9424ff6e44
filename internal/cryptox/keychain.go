// Package cryptox implements the end-to-end encryption core: an AES-GCM
// keychain plus the envelope codec that turns plaintext messages and files
// into transportable ciphertext payloads.
//
// The parameters are fixed for wire compatibility with previously issued
// links: a 128-bit key, a 128-bit IV and a 128-bit authentication tag.
// Note that the 16-byte IV is unusual (GCM is conventionally paired with a
// 96-bit nonce); it is kept deliberately so that existing payloads remain
// decryptable. A change here requires a Version bump in the envelope.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/muliswilliam/secureshare/internal/common"
)

const (
	// KeyLength is the AES key size in bytes (AES-128).
	KeyLength = 16
	// IVLength is the GCM nonce size in bytes.
	IVLength = 16
	// TagLength is the GCM authentication tag size in bytes.
	TagLength = 16

	// Algorithm and Mode identify the AEAD in persisted envelopes.
	Algorithm = "AES"
	Mode      = "GCM"
)

// Keychain is an opaque handle around an imported symmetric key. The raw key
// bytes are not reachable through it; the only operations are Encrypt and
// Decrypt.
type Keychain struct {
	aead cipher.AEAD
}

// ImportKey constructs a Keychain from raw key material.
//
// It returns common.ErrInvalidKeyMaterial if rawKey is not exactly KeyLength
// bytes long.
func ImportKey(rawKey []byte) (*Keychain, error) {
	if len(rawKey) != KeyLength {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", common.ErrInvalidKeyMaterial, KeyLength, len(rawKey))
	}

	block, err := aes.NewCipher(rawKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKeyMaterial, err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, IVLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidKeyMaterial, err)
	}

	return &Keychain{aead: aead}, nil
}

// Encrypt seals plaintext under the given IV and returns the ciphertext with
// the authentication tag appended, per AEAD convention.
//
// The caller must supply a fresh random IV for every encryption under the
// same key. Reusing an IV with the same key breaks both confidentiality and
// integrity of GCM.
func (k *Keychain) Encrypt(iv, plaintext []byte) ([]byte, error) {
	if len(iv) != IVLength {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrInvalidKeyMaterial, IVLength, len(iv))
	}
	return k.aead.Seal(nil, iv, plaintext, nil), nil
}

// Decrypt opens ciphertextWithTag under the given IV and returns the
// plaintext.
//
// It returns common.ErrAuthenticationFailed if the tag does not verify,
// which covers tampered data, a wrong key and corruption alike. No partial
// plaintext is ever returned.
func (k *Keychain) Decrypt(iv, ciphertextWithTag []byte) ([]byte, error) {
	if len(iv) != IVLength {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrInvalidKeyMaterial, IVLength, len(iv))
	}
	// Open appends to the destination; seeding an empty slice keeps the
	// result non-nil when the plaintext is empty.
	plaintext, err := k.aead.Open(make([]byte, 0), iv, ciphertextWithTag, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthenticationFailed, err)
	}
	return plaintext, nil
}

// GenerateKey returns fresh random key material suitable for ImportKey.
func GenerateKey() ([]byte, error) {
	return randBytes(KeyLength)
}

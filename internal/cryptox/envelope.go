package cryptox

import (
	"fmt"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/encodex"
	"github.com/muliswilliam/secureshare/internal/randx"
)

func randBytes(n int) ([]byte, error) {
	return randx.Bytes(n)
}

// EncryptText encrypts a text message under key and returns the transportable
// payload: IV‖ciphertext‖tag, URL-safe base64 encoded into a single string.
//
// A fresh random IV is generated per call; the key is never used with the
// same IV twice.
func EncryptText(text string, key []byte) (string, error) {
	keychain, err := ImportKey(key)
	if err != nil {
		return "", err
	}

	iv, err := randBytes(IVLength)
	if err != nil {
		return "", err
	}

	ciphertext, err := keychain.Encrypt(iv, []byte(text))
	if err != nil {
		return "", err
	}

	combined := make([]byte, 0, len(iv)+len(ciphertext))
	combined = append(combined, iv...)
	combined = append(combined, ciphertext...)

	return encodex.EncodeURLSafe(combined), nil
}

// DecryptText reverses EncryptText: it decodes the payload, splits off the
// leading IV and decrypts the remainder.
//
// It returns common.ErrMalformedEncoding for payloads that cannot possibly
// carry a message and common.ErrDecryptionFailed (wrapping the underlying
// authentication failure) for everything else. Callers at the UI boundary
// must collapse both into a single generic "could not decrypt" message.
func DecryptText(payload string, key []byte) (string, error) {
	combined, err := encodex.DecodeURLSafe(payload)
	if err != nil {
		return "", err
	}
	if len(combined) < IVLength+TagLength {
		return "", fmt.Errorf("%w: payload too short", common.ErrMalformedEncoding)
	}

	keychain, err := ImportKey(key)
	if err != nil {
		return "", err
	}

	iv := combined[:IVLength]
	ciphertext := combined[IVLength:]

	plaintext, err := keychain.Decrypt(iv, ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// EncryptFile encrypts raw file bytes under key. Unlike text messages the
// ciphertext is returned as bytes, destined for blob storage rather than for
// inline transport; only the IV is URL-safe encoded, to be carried in the
// envelope alongside the blob reference.
func EncryptFile(data []byte, key []byte) (ciphertext []byte, ivText string, err error) {
	keychain, err := ImportKey(key)
	if err != nil {
		return nil, "", err
	}

	iv, err := randBytes(IVLength)
	if err != nil {
		return nil, "", err
	}

	ciphertext, err = keychain.Encrypt(iv, data)
	if err != nil {
		return nil, "", err
	}

	return ciphertext, encodex.EncodeURLSafe(iv), nil
}

// DecryptFile decrypts an encrypted blob fetched from storage using the
// URL-safe encoded IV from the envelope. The returned bytes are the original
// file content, ready for a save-to-disk action by the consuming UI.
func DecryptFile(encryptedBlob []byte, ivText string, key []byte) ([]byte, error) {
	iv, err := encodex.DecodeURLSafe(ivText)
	if err != nil {
		return nil, err
	}
	if len(iv) != IVLength {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrMalformedEncoding, IVLength, len(iv))
	}

	keychain, err := ImportKey(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := keychain.Decrypt(iv, encryptedBlob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

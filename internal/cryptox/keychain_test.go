package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/randx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateKey()
	require.NoError(t, err)
	require.Len(t, key, KeyLength)
	return key
}

func mustIV(t *testing.T) []byte {
	t.Helper()
	iv, err := randx.Bytes(IVLength)
	require.NoError(t, err)
	return iv
}

func TestImportKey_WrongLength(t *testing.T) {
	for _, n := range []int{0, 8, 15, 17, 24, 32} {
		_, err := ImportKey(make([]byte, n))
		assert.True(t, errors.Is(err, common.ErrInvalidKeyMaterial), "length %d", n)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := mustKey(t)
	keychain, err := ImportKey(key)
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}},
		{"larger", bytes.Repeat([]byte("secureshare"), 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := mustIV(t)
			ciphertext, err := keychain.Encrypt(iv, tt.plaintext)
			require.NoError(t, err)
			// AEAD convention: tag appended to the ciphertext.
			assert.Len(t, ciphertext, len(tt.plaintext)+TagLength)

			plaintext, err := keychain.Decrypt(iv, ciphertext)
			require.NoError(t, err)
			assert.NotNil(t, plaintext)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	keychain, err := ImportKey(mustKey(t))
	require.NoError(t, err)

	iv := mustIV(t)
	ciphertext, err := keychain.Encrypt(iv, []byte("attack at dawn"))
	require.NoError(t, err)

	// Flip one bit in every position, including the tag bytes.
	for i := range ciphertext {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01

		_, err := keychain.Decrypt(iv, tampered)
		assert.True(t, errors.Is(err, common.ErrAuthenticationFailed), "byte %d", i)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	encKeychain, err := ImportKey(mustKey(t))
	require.NoError(t, err)
	decKeychain, err := ImportKey(mustKey(t))
	require.NoError(t, err)

	iv := mustIV(t)
	ciphertext, err := encKeychain.Encrypt(iv, []byte("secret"))
	require.NoError(t, err)

	_, err = decKeychain.Decrypt(iv, ciphertext)
	assert.True(t, errors.Is(err, common.ErrAuthenticationFailed))
}

func TestEncrypt_RejectsBadIVLength(t *testing.T) {
	keychain, err := ImportKey(mustKey(t))
	require.NoError(t, err)

	_, err = keychain.Encrypt(make([]byte, 12), []byte("x"))
	assert.Error(t, err)

	_, err = keychain.Decrypt(make([]byte, 12), []byte("x"))
	assert.Error(t, err)
}

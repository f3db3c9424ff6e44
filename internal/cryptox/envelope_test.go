package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/encodex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptText_RoundTrip(t *testing.T) {
	key := mustKey(t)

	tests := []string{"", "hello", "многоязычный текст 🎉", strings.Repeat("long ", 500)}

	for _, text := range tests {
		payload, err := EncryptText(text, key)
		require.NoError(t, err)
		assert.NotContains(t, payload, "+")
		assert.NotContains(t, payload, "/")
		assert.NotContains(t, payload, "=")

		got, err := DecryptText(payload, key)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	}
}

func TestEncryptText_FreshIVPerCall(t *testing.T) {
	key := mustKey(t)

	p1, err := EncryptText("same message", key)
	require.NoError(t, err)
	p2, err := EncryptText("same message", key)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestDecryptText_WrongKey(t *testing.T) {
	payload, err := EncryptText("secret", mustKey(t))
	require.NoError(t, err)

	_, err = DecryptText(payload, mustKey(t))
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestDecryptText_Tampered(t *testing.T) {
	key := mustKey(t)
	payload, err := EncryptText("secret", key)
	require.NoError(t, err)

	raw, err := encodex.DecodeURLSafe(payload)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	_, err = DecryptText(encodex.EncodeURLSafe(raw), key)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestDecryptText_MalformedPayload(t *testing.T) {
	key := mustKey(t)

	_, err := DecryptText("!!!not-base64!!!", key)
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))

	// Valid encoding but too short to hold an IV and a tag.
	_, err = DecryptText(encodex.EncodeURLSafe([]byte("short")), key)
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))
}

func TestEncryptDecryptFile_RoundTrip(t *testing.T) {
	key := mustKey(t)
	original := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a}

	ciphertext, ivText, err := EncryptFile(original, key)
	require.NoError(t, err)
	assert.NotEqual(t, original, ciphertext)
	assert.Len(t, ciphertext, len(original)+TagLength)

	got, err := DecryptFile(ciphertext, ivText, key)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestDecryptFile_WrongIV(t *testing.T) {
	key := mustKey(t)
	ciphertext, _, err := EncryptFile([]byte("file content"), key)
	require.NoError(t, err)

	otherIV, err := randBytes(IVLength)
	require.NoError(t, err)

	_, err = DecryptFile(ciphertext, encodex.EncodeURLSafe(otherIV), key)
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))
}

func TestDecryptFile_BadIVEncoding(t *testing.T) {
	key := mustKey(t)

	_, err := DecryptFile([]byte("blob"), "%%%", key)
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))

	_, err = DecryptFile([]byte("blob"), encodex.EncodeURLSafe([]byte("tooshort")), key)
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))
}

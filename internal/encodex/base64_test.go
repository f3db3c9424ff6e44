package encodex

import (
	"errors"
	"testing"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x00}},
		{"one padding char needed", []byte("ab")},
		{"two padding chars needed", []byte("a")},
		{"no padding needed", []byte("abc")},
		{"bytes that map to + and /", []byte{0xfb, 0xff, 0xbf, 0xfe}},
		{"all byte values", allBytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeURLSafe(tt.data)
			decoded, err := DecodeURLSafe(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.data, decoded)
		})
	}
}

func allBytes() []byte {
	b := make([]byte, 256)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestEncode_AlphabetIsURLSafe(t *testing.T) {
	encoded := EncodeURLSafe(allBytes())
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, "/")
	assert.NotContains(t, encoded, "=")
}

func TestDecode_AcceptsPaddedInput(t *testing.T) {
	decoded, err := DecodeURLSafe("YQ==")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), decoded)
}

func TestDecode_InvalidCharacters(t *testing.T) {
	_, err := DecodeURLSafe("not!valid")
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))
}

func TestDecode_UnrecoverableLength(t *testing.T) {
	// A single base64 character can never form a whole byte.
	_, err := DecodeURLSafe("A")
	assert.True(t, errors.Is(err, common.ErrMalformedEncoding))
}

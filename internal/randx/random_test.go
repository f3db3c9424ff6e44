package randx

import (
	"errors"
	"math"
	"testing"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	size := 32
	data1, err := Bytes(size)
	require.NoError(t, err)
	data2, err := Bytes(size)
	require.NoError(t, err)

	assert.Len(t, data1, size)
	assert.Len(t, data2, size)
	assert.NotEqual(t, data1, data2)
}

func TestBytes_Zero(t *testing.T) {
	data, err := Bytes(0)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestHexToken(t *testing.T) {
	token, err := HexToken(16)
	require.NoError(t, err)
	assert.Len(t, token, 32)
	assert.Regexp(t, "^[0-9a-f]+$", token)

	other, err := HexToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestInt_WithinBounds(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
	}{
		{"small range", 1, 6},
		{"negative min", -10, 10},
		{"full 32-bit range", 0, math.MaxUint32},
		{"offset range", 1000, 1005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				n, err := Int(tt.min, tt.max)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, n, tt.min)
				assert.LessOrEqual(t, n, tt.max)
			}
		})
	}
}

func TestInt_MinEqualsMax(t *testing.T) {
	n, err := Int(42, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestInt_MinGreaterThanMax(t *testing.T) {
	_, err := Int(10, 5)
	assert.True(t, errors.Is(err, common.ErrInvalidRange))
}

func TestInt_RangeTooWide(t *testing.T) {
	_, err := Int(0, math.MaxUint32+1)
	assert.True(t, errors.Is(err, common.ErrInvalidRange))
}

func TestInt_CoversBothEndpoints(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 200; i++ {
		n, err := Int(0, 1)
		require.NoError(t, err)
		seen[n] = true
	}
	assert.True(t, seen[0], "expected to observe min")
	assert.True(t, seen[1], "expected to observe max")
}

// Package randx provides cryptographically secure random byte and number
// generation. All randomness comes from crypto/rand; there is no fallback
// to a weaker source.
package randx

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/muliswilliam/secureshare/internal/common"
)

// Bytes returns n cryptographically secure random bytes.
//
// It returns common.ErrEntropyUnavailable (wrapped) if the OS entropy source
// cannot be read. Callers must treat that as fatal for the operation in
// progress and must not substitute a non-cryptographic generator.
func Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEntropyUnavailable, err)
	}
	return b, nil
}

// HexToken returns a random hexadecimal string built from size random bytes.
// The resulting string is twice as long as size, since every byte expands to
// two hex characters. It is used for public message identifiers.
func HexToken(size int) (string, error) {
	b, err := Bytes(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Int returns a uniformly distributed integer in [min, max] inclusive.
//
// Uniformity is achieved with rejection sampling: a 32-bit value is drawn and
// redrawn while it falls above the largest multiple of the range size that
// fits in the 32-bit space, which removes modulo bias entirely.
//
// It returns common.ErrInvalidRange when min > max or when the range does not
// fit in 32 bits. When min == max no randomness is consumed and min is
// returned directly.
func Int(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("%w: max (%d) must be >= min (%d)", common.ErrInvalidRange, max, min)
	}

	rangeSize := uint64(max - min)
	if rangeSize > math.MaxUint32 {
		return 0, fmt.Errorf("%w: range of %d (from %d to %d) exceeds 32 bits", common.ErrInvalidRange, rangeSize, min, max)
	}
	if min == max {
		return min, nil
	}

	possibleResultValues := rangeSize + 1
	remainder := (uint64(math.MaxUint32) + 1) % possibleResultValues
	maxUnbiased := uint64(math.MaxUint32) - remainder

	for {
		b, err := Bytes(4)
		if err != nil {
			return 0, err
		}
		generated := uint64(binary.BigEndian.Uint32(b))
		if generated > maxUnbiased {
			continue
		}
		return min + int64(generated%possibleResultValues), nil
	}
}

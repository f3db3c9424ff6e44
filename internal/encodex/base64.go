// Package encodex transcodes binary data to and from URL-safe text. The
// encoding is base64 with the URL-safe alphabet ('-' and '_' in place of '+'
// and '/') and with '=' padding stripped, so the output can travel inside a
// URL path or fragment untouched.
package encodex

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/muliswilliam/secureshare/internal/common"
)

// EncodeURLSafe encodes b as unpadded URL-safe base64. It is total and
// lossless for any byte sequence; the output never contains '+', '/' or '='.
func EncodeURLSafe(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeURLSafe reverses EncodeURLSafe. Padded input is accepted as well,
// since some producers re-add '=' before transport.
//
// It returns common.ErrMalformedEncoding (wrapped) on characters outside the
// URL-safe alphabet or on an unrecoverable length.
func DecodeURLSafe(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedEncoding, err)
	}
	return b, nil
}

package envelope

import (
	"errors"
	"testing"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalParse_RoundTrip(t *testing.T) {
	e := NewText("dGVzdC1wYXlsb2Fk")

	data, err := e.Marshal()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, &e, got)
	assert.False(t, got.IsFile())
}

func TestMarshalParse_FileRoundTrip(t *testing.T) {
	e := NewFile("aXYtYnl0ZXM", "report.pdf", "https://blobs.example.com/abc")

	data, err := e.Marshal()
	require.NoError(t, err)

	got, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, got.IsFile())
	assert.Equal(t, "report.pdf", got.FileHandle.FileName)
	assert.True(t, got.FileHandle.Completed)
}

func TestParse_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `ct=abc`},
		{"trailing data", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc"}{"v":2}`},
		{"trailing garbage", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc"} junk`},
		{"unknown field", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc","extra":true}`},
		{"wrong version", `{"version":2,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc"}`},
		{"wrong cipher", `{"version":1,"cipher":"DES","mode":"GCM","tagLength":128,"ct":"abc"}`},
		{"wrong mode", `{"version":1,"cipher":"AES","mode":"CBC","tagLength":128,"ct":"abc"}`},
		{"wrong tag length", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":96,"ct":"abc"}`},
		{"missing ct", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128}`},
		{"incomplete file handle", `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc","fileHandle":{"completed":true,"fileName":"","url":""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.True(t, errors.Is(err, common.ErrMalformedEncoding), "got %v", err)
		})
	}
}

func TestParse_WireShape(t *testing.T) {
	// The exact shape persisted by existing deployments must keep parsing.
	data := `{"version":1,"cipher":"AES","mode":"GCM","tagLength":128,"ct":"abc","fileHandle":{"completed":true,"fileName":"a.pdf","url":"https://blob/x"}}`

	e, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "abc", e.CT)
	assert.Equal(t, "a.pdf", e.FileHandle.FileName)
}

func TestShareLink(t *testing.T) {
	link := ShareLink("https://secureshare.app", "5b1d2a", "a-b_c")
	assert.Equal(t, "https://secureshare.app/5b1d2a#a-b_c", link)

	// Trailing slash on the origin must not double up.
	link = ShareLink("https://secureshare.app/", "5b1d2a", "k")
	assert.Equal(t, "https://secureshare.app/5b1d2a#k", link)

	// No key, no fragment: the server side never holds one.
	link = ShareLink("https://secureshare.app", "5b1d2a", "")
	assert.Equal(t, "https://secureshare.app/5b1d2a", link)
}

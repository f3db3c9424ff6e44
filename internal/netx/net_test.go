package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("blob-bytes"))
	}))
	defer srv.Close()

	got, err := FetchURL(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob-bytes"), got)
}

func TestFetchURL_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchURL(context.Background(), srv.Client(), srv.URL)
	assert.ErrorContains(t, err, "fetch failed")
}

// Package netx contains small HTTP helpers for fetching ciphertext blobs
// from object storage behind presigned URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchURL GETs the content behind an opaque blob URL. It is the recipient
// side of the transfer: the URL comes straight out of an envelope's file
// handle.
func FetchURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

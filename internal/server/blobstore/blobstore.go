// Package blobstore holds encrypted file ciphertext in object storage. The
// core never looks inside a blob; it only passes the opaque URL through the
// envelope's file handle.
package blobstore

import "context"

// BlobStore is the contract for the object-storage collaborator. Upload
// returns an opaque URL the recipient can fetch the ciphertext from; Fetch
// reverses it. Blobs are ciphertext only, so the store needs no knowledge of
// keys or envelopes.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, suggestedName string) (url string, err error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Package envelope defines the persisted encryption envelope: the
// server-visible record of how a payload was encrypted. An envelope carries
// the ciphertext payload (or a blob reference for files) and the cipher
// parameters, and never the symmetric key. The key exists only in the
// client process and in the share link's URL fragment.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/cryptox"
)

// Version is the current envelope format revision.
const Version = 1

// FileHandle references an encrypted blob held by the storage collaborator.
// The URL is opaque to the core; it is produced by blob storage on upload and
// handed back to the recipient for download.
type FileHandle struct {
	Completed bool   `json:"completed"`
	FileName  string `json:"fileName"`
	URL       string `json:"url"`
}

// Envelope is the serialized body of a message. For text messages CT holds
// the URL-safe encoded IV‖ciphertext‖tag; for files CT holds only the
// URL-safe encoded IV and FileHandle points at the ciphertext blob.
type Envelope struct {
	Version    int         `json:"version"`
	Cipher     string      `json:"cipher"`
	Mode       string      `json:"mode"`
	TagLength  int         `json:"tagLength"`
	CT         string      `json:"ct"`
	FileHandle *FileHandle `json:"fileHandle,omitempty"`
}

// NewText builds an envelope for a text message from the combined payload
// produced by cryptox.EncryptText.
func NewText(ciphertextPayload string) Envelope {
	return Envelope{
		Version:   Version,
		Cipher:    cryptox.Algorithm,
		Mode:      cryptox.Mode,
		TagLength: cryptox.TagLength * 8,
		CT:        ciphertextPayload,
	}
}

// NewFile builds an envelope for a file message. ivText is the URL-safe
// encoded IV from cryptox.EncryptFile; url is the blob location returned by
// the storage collaborator.
func NewFile(ivText, fileName, url string) Envelope {
	return Envelope{
		Version:   Version,
		Cipher:    cryptox.Algorithm,
		Mode:      cryptox.Mode,
		TagLength: cryptox.TagLength * 8,
		CT:        ivText,
		FileHandle: &FileHandle{
			Completed: true,
			FileName:  fileName,
			URL:       url,
		},
	}
}

// Marshal serializes the envelope to its JSON wire shape.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse deserializes and validates an envelope. Parsing fails closed: unknown
// fields, a missing payload or unsupported cipher parameters all return
// common.ErrMalformedEncoding rather than proceeding with undefined values.
func Parse(data []byte) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var e Envelope
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedEncoding, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after envelope", common.ErrMalformedEncoding)
	}

	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *Envelope) validate() error {
	switch {
	case e.Version != Version:
		return fmt.Errorf("%w: unsupported envelope version %d", common.ErrMalformedEncoding, e.Version)
	case e.Cipher != cryptox.Algorithm || e.Mode != cryptox.Mode:
		return fmt.Errorf("%w: unsupported cipher %s-%s", common.ErrMalformedEncoding, e.Cipher, e.Mode)
	case e.TagLength != cryptox.TagLength*8:
		return fmt.Errorf("%w: unsupported tag length %d", common.ErrMalformedEncoding, e.TagLength)
	case e.CT == "":
		return fmt.Errorf("%w: empty ciphertext payload", common.ErrMalformedEncoding)
	case e.FileHandle != nil && (e.FileHandle.FileName == "" || e.FileHandle.URL == ""):
		return fmt.Errorf("%w: incomplete file handle", common.ErrMalformedEncoding)
	}
	return nil
}

// IsFile reports whether the envelope carries a file rather than a text
// message.
func (e *Envelope) IsFile() bool {
	return e.FileHandle != nil
}

// ShareLink builds the one-time link for a message: {origin}/{publicID} with
// the URL-safe encoded key in the fragment. Browsers never send the fragment
// over the wire, so the path may be logged freely while the key stays with
// the recipient. The server only ever builds keyless links (empty key); the
// client holds the key and appends the fragment itself.
func ShareLink(origin, publicID, urlSafeKey string) string {
	link := fmt.Sprintf("%s/%s", strings.TrimRight(origin, "/"), publicID)
	if urlSafeKey == "" {
		return link
	}
	return link + "#" + urlSafeKey
}

// Package common defines shared constants and sentinel errors used across
// the crypto core and server layers of SecureShare. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrNotFound is deliberately uniform: a missing,
	// already-seen or expired message all surface the same way so that probing
	// identifiers reveals nothing about their state.
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Randomness errors. ErrEntropyUnavailable is fatal for the operation that
	// hit it; there is no fallback generator.
	ErrEntropyUnavailable = errors.New("entropy source unavailable")
	ErrInvalidRange       = errors.New("invalid range")

	// Crypto errors. ErrAuthenticationFailed covers tampering, a wrong key and
	// corrupted data alike; the distinction is never surfaced to clients.
	ErrInvalidKeyMaterial   = errors.New("invalid key material")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrDecryptionFailed     = errors.New("decryption failed")

	// Encoding errors.
	ErrMalformedEncoding = errors.New("malformed encoding")

	// Auth errors (invalid or malformed sender token).
	ErrInvalidToken = errors.New("invalid token")
)

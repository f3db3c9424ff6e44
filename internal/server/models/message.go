// Package models defines server-side data models persisted in the database.
package models

import "time"

// MessageStatus is the lifecycle state of a message. The only legal
// transitions are pending→seen (first successful read) and pending→expired
// (time-based sweep); seen and expired are terminal.
type MessageStatus string

const (
	StatusPending MessageStatus = "pending"
	StatusSeen    MessageStatus = "seen"
	StatusExpired MessageStatus = "expired"
)

// Message is a one-time message row. Body holds the serialized encryption
// envelope; it never contains the symmetric key.
type Message struct {
	// ID is the internal identifier, never exposed outside the API.
	ID string
	// PublicID is the external-facing random token used in share links.
	// It carries at least 16 bytes of entropy and is unrelated to the key.
	PublicID string
	// UserID is the sender, when the message was created by an
	// authenticated user. Empty for anonymous senders.
	UserID string
	// Body is the serialized EncryptionEnvelope JSON.
	Body string
	// Note is an optional sender-private label, editable by the owner only.
	Note string
	// NotifyOnOpen requests an open notification for authenticated senders.
	NotifyOnOpen bool

	Status    MessageStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

package models

import "time"

// EventType enumerates audit event kinds. Values match the strings recorded
// by existing deployments.
type EventType string

const (
	EventMessageCreated EventType = "message_created"
	EventMessageViewed  EventType = "message_viewed"
	EventMessageExpired EventType = "message_expired"
)

// ClientInfo captures request metadata recorded alongside audit events.
type ClientInfo struct {
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
	Language  string `json:"language"`
}

// EventData is the JSON payload of an audit event.
type EventData struct {
	PublicID string `json:"publicId"`
	UserID   string `json:"userId,omitempty"`
	ClientInfo
}

// Event is an immutable, append-only audit record. Events are never updated
// or deleted by the application; retention is the storage layer's concern.
type Event struct {
	ID        int64
	EventType EventType
	Timestamp time.Time
	EventData EventData
}

// Package httpapi exposes the message lifecycle over HTTP. All payload
// encryption and decryption happens in the client; these endpoints only move
// envelopes, so neither request logging nor storage ever observes a key.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/envelope"
	"github.com/muliswilliam/secureshare/internal/logging"
	"github.com/muliswilliam/secureshare/internal/server/auth"
	"github.com/muliswilliam/secureshare/internal/server/blobstore"
	"github.com/muliswilliam/secureshare/internal/server/config"
	"github.com/muliswilliam/secureshare/internal/server/models"
	"github.com/muliswilliam/secureshare/internal/server/services"
)

// maxUploadSize bounds encrypted file uploads.
const maxUploadSize = 25 << 20

// deadLinkMessage is the single response body for every way a one-time link
// can be unusable. It deliberately does not distinguish unknown, already
// viewed and expired.
const deadLinkMessage = "link invalid or expired"

// MessageProvider is the slice of the message service the handlers use.
type MessageProvider interface {
	Create(ctx context.Context, p services.CreateParams) (*models.Message, error)
	Consume(ctx context.Context, publicID string, info models.ClientInfo) (*envelope.Envelope, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
	UpdateNote(ctx context.Context, publicID, callerID, note string) error
	Delete(ctx context.Context, publicID, callerID string) error
	ListMessages(ctx context.Context, callerID string) ([]*models.Message, error)
	MessageEvents(ctx context.Context, publicID, callerID string) ([]*models.Event, error)
}

type Handler struct {
	messages MessageProvider
	blobs    blobstore.BlobStore
	config   *config.Config
	logger   logging.Logger
}

func NewHandler(messages MessageProvider, blobs blobstore.BlobStore, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		messages: messages,
		blobs:    blobs,
		config:   cfg,
		logger:   logger,
	}
}

type createRequest struct {
	EncryptionDetails string              `json:"encryptionDetails"`
	Note              string              `json:"note"`
	NotifyOnOpen      bool                `json:"notifyOnOpen"`
	Expiry            models.ExpiryPolicy `json:"expiry"`
}

type createResponse struct {
	PublicID string `json:"publicId"`
	// URL is the share link without the key fragment; the client appends
	// "#<key>" locally before showing it to the sender.
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageResponse struct {
	PublicID     string    `json:"publicId"`
	Note         string    `json:"note"`
	NotifyOnOpen bool      `json:"notifyOnOpen"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

type eventResponse struct {
	EventType string           `json:"eventType"`
	Timestamp time.Time        `json:"timestamp"`
	EventData models.EventData `json:"eventData"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateMessage stores a new envelope and returns the keyless share link.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EncryptionDetails == "" {
		h.error(w, http.StatusBadRequest, "encryptionDetails is required")
		return
	}

	created, err := h.messages.Create(r.Context(), services.CreateParams{
		Body:         req.EncryptionDetails,
		Note:         req.Note,
		UserID:       userID(r.Context()),
		NotifyOnOpen: req.NotifyOnOpen,
		Expiry:       req.Expiry,
		Info:         clientInfo(r),
	})
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	h.json(w, http.StatusCreated, createResponse{
		PublicID:  created.PublicID,
		URL:       envelope.ShareLink(h.config.BaseURL, created.PublicID, ""),
		ExpiresAt: created.ExpiresAt,
		CreatedAt: created.CreatedAt,
	})
}

// ConsumeMessage reveals a pending envelope exactly once. Every failure mode
// is the same 404 so probes learn nothing.
func (h *Handler) ConsumeMessage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	env, err := h.messages.Consume(r.Context(), publicID, clientInfo(r))
	if errors.Is(err, common.ErrNotFound) {
		h.error(w, http.StatusNotFound, deadLinkMessage)
		return
	}
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	h.json(w, http.StatusOK, env)
}

// ListMessages returns the caller's messages without their bodies.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messages.ListMessages(r.Context(), userID(r.Context()))
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			PublicID:     m.PublicID,
			Note:         m.Note,
			NotifyOnOpen: m.NotifyOnOpen,
			Status:       string(m.Status),
			ExpiresAt:    m.ExpiresAt,
			CreatedAt:    m.CreatedAt,
		})
	}
	h.json(w, http.StatusOK, out)
}

type updateRequest struct {
	Note string `json:"note"`
}

// UpdateMessage edits the sender-private note.
func (h *Handler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	publicID := chi.URLParam(r, "publicID")
	if err := h.messages.UpdateNote(r.Context(), publicID, userID(r.Context()), req.Note); err != nil {
		h.mapError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteMessage removes one of the caller's messages.
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	if err := h.messages.Delete(r.Context(), publicID, userID(r.Context())); err != nil {
		h.mapError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]bool{"success": true})
}

// MessageEvents returns the audit trail of one of the caller's messages.
func (h *Handler) MessageEvents(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")

	events, err := h.messages.MessageEvents(r.Context(), publicID, userID(r.Context()))
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			EventType: string(e.EventType),
			Timestamp: e.Timestamp,
			EventData: e.EventData,
		})
	}
	h.json(w, http.StatusOK, out)
}

type uploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// UploadFile stores an already-encrypted blob and returns its opaque URL for
// the envelope's file handle. The body is raw ciphertext, not multipart.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	fileName := r.Header.Get("X-File-Name")
	if fileName == "" {
		h.error(w, http.StatusBadRequest, "X-File-Name header is required")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		h.error(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	if len(data) == 0 {
		h.error(w, http.StatusBadRequest, "empty body")
		return
	}

	url, err := h.blobs.Upload(r.Context(), data, fileName)
	if err != nil {
		h.logger.Error(r.Context(), "blob upload failed", "error", err)
		h.error(w, http.StatusInternalServerError, "upload failed")
		return
	}

	h.json(w, http.StatusCreated, uploadResponse{URL: url, FileName: fileName})
}

// Sweep expires overdue pending messages. Deployments call it from a
// scheduler in addition to the built-in ticker.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	count, err := h.messages.Sweep(r.Context(), time.Now().UTC())
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	h.json(w, http.StatusOK, map[string]int{"expired": count})
}

type guestTokenResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// GuestToken issues a sender identity. Holding the token lets a sender see
// their dashboard and manage the messages created with it.
func (h *Handler) GuestToken(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	token, err := auth.GenerateToken(id, []byte(h.config.SecretKey), h.config.TokenValidityDuration)
	if err != nil {
		h.logger.Error(r.Context(), "token generation failed", "error", err)
		h.error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.json(w, http.StatusCreated, guestTokenResponse{UserID: id, Token: token})
}

func (h *Handler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) error(w http.ResponseWriter, status int, message string) {
	h.json(w, status, errorResponse{Error: message})
}

func (h *Handler) mapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		h.error(w, http.StatusNotFound, "message not found")
	case errors.Is(err, common.ErrForbidden):
		h.error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrMalformedEncoding):
		h.error(w, http.StatusBadRequest, "invalid request")
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.error(w, http.StatusInternalServerError, "internal error")
	}
}

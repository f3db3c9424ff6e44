// Package services holds the application logic between the HTTP handlers
// and the repositories. MessageService owns the one-time message lifecycle:
// create, consume exactly once, sweep expirations, and the owner-only
// management operations.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/dbx"
	"github.com/muliswilliam/secureshare/internal/envelope"
	"github.com/muliswilliam/secureshare/internal/logging"
	"github.com/muliswilliam/secureshare/internal/randx"
	"github.com/muliswilliam/secureshare/internal/server/models"
	"github.com/muliswilliam/secureshare/internal/server/notify"
	"github.com/muliswilliam/secureshare/internal/server/repositories/messages"
	"github.com/muliswilliam/secureshare/internal/server/repositories/repomanager"
)

// publicIDSize is the byte length of the random public identifier. 16 bytes
// hex-encoded gives a 32-character, 128-bit unguessable path segment.
const publicIDSize = 16

type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    notify.Notifier
	logger      logging.Logger
	now         func() time.Time
}

func NewMessageService(db *sql.DB, repomanager repomanager.RepositoryManager, notifier notify.Notifier, logger logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: repomanager,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateParams describes a new message. Body is the serialized encryption
// envelope produced by the client; the server never sees the key.
type CreateParams struct {
	Body         string
	Note         string
	UserID       string
	NotifyOnOpen bool
	Expiry       models.ExpiryPolicy
	Info         models.ClientInfo
}

// Create validates the envelope, assigns a fresh public identifier and
// stores the message as pending. The insert and the created audit event
// commit in one transaction.
func (s *MessageService) Create(ctx context.Context, p CreateParams) (*models.Message, error) {
	if _, err := envelope.Parse([]byte(p.Body)); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expiresAt, err := p.Expiry.ExpiresAt(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedEncoding, err)
	}

	publicID, err := randx.HexToken(publicIDSize)
	if err != nil {
		return nil, err
	}

	m := &models.Message{
		ID:           uuid.NewString(),
		PublicID:     publicID,
		UserID:       p.UserID,
		Body:         p.Body,
		Note:         p.Note,
		NotifyOnOpen: p.NotifyOnOpen,
		Status:       models.StatusPending,
		ExpiresAt:    expiresAt,
	}

	var created *models.Message
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err = s.repomanager.Messages(tx).Insert(ctx, m)
		if err != nil {
			return err
		}
		return s.repomanager.Events(tx).Record(ctx, s.newEvent(models.EventMessageCreated, created, p.Info))
	})
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	s.logger.Info(ctx, "message created", "public_id", created.PublicID)
	return created, nil
}

// Consume returns the envelope of a pending message and marks it seen, at
// most once. Concurrent callers race on an atomic conditional update; the
// losers, like callers of already seen, expired or unknown identifiers, all
// get common.ErrNotFound so responses reveal nothing about why the link is
// dead.
func (s *MessageService) Consume(ctx context.Context, publicID string, info models.ClientInfo) (*envelope.Envelope, error) {
	repo := s.repomanager.Messages(s.db)

	m, err := repo.FindPendingByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	// Past-deadline rows the sweeper has not reached yet are already dead.
	if !m.ExpiresAt.After(s.now().UTC()) {
		return nil, common.ErrNotFound
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		won, err := s.repomanager.Messages(tx).CompareAndSetStatus(ctx, m.ID, models.StatusPending, models.StatusSeen)
		if err != nil {
			return err
		}
		if !won {
			return common.ErrNotFound
		}
		return s.repomanager.Events(tx).Record(ctx, s.newEvent(models.EventMessageViewed, m, info))
	})
	if err != nil {
		return nil, err
	}

	env, err := envelope.Parse([]byte(m.Body))
	if err != nil {
		// Bodies are validated on create, so this means storage corruption.
		return nil, fmt.Errorf("%w: stored envelope unreadable: %v", common.ErrInternal, err)
	}

	if m.NotifyOnOpen && m.UserID != "" {
		if err := s.notifier.MessageOpened(ctx, m.UserID, m.PublicID, info); err != nil {
			s.logger.Error(ctx, "open notification failed", "public_id", m.PublicID, "error", err)
		}
	}

	s.logger.Info(ctx, "message consumed", "public_id", m.PublicID)
	return env, nil
}

// Sweep transitions pending messages past their deadline to expired and
// records an expired event for each. It is safe to run concurrently with
// consumers and with other sweepers: the conditional update lets exactly one
// writer move each row, so a repeat run finds nothing left to do.
func (s *MessageService) Sweep(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repomanager.Messages(s.db).SelectExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range expired {
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			won, err := s.repomanager.Messages(tx).CompareAndSetStatus(ctx, m.ID, models.StatusPending, models.StatusExpired)
			if err != nil {
				return err
			}
			if !won {
				// A consume or another sweeper got there first.
				return nil
			}
			if err := s.repomanager.Events(tx).Record(ctx, s.newEvent(models.EventMessageExpired, m, models.ClientInfo{})); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return count, fmt.Errorf("error expiring message: %w", err)
		}
	}

	if count > 0 {
		s.logger.Info(ctx, "expired messages swept", "count", count)
	}
	return count, nil
}

// UpdateNote sets the sender-private note. Only the owner may call it; the
// note never reaches recipients.
func (s *MessageService) UpdateNote(ctx context.Context, publicID, callerID, note string) error {
	repo := s.repomanager.Messages(s.db)

	m, err := repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := ownerCheck(m, callerID); err != nil {
		return err
	}
	return repo.UpdateNote(ctx, m.ID, note)
}

// Delete removes a message regardless of status. Owner only.
func (s *MessageService) Delete(ctx context.Context, publicID, callerID string) error {
	repo := s.repomanager.Messages(s.db)

	m, err := repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if err := ownerCheck(m, callerID); err != nil {
		return err
	}
	return repo.Delete(ctx, m.ID)
}

// ListMessages returns the caller's messages, newest first.
func (s *MessageService) ListMessages(ctx context.Context, callerID string) ([]*models.Message, error) {
	if callerID == "" {
		return nil, common.ErrForbidden
	}
	return s.repomanager.Messages(s.db).FindMany(ctx, messages.Filter{UserID: callerID})
}

// MessageEvents returns the audit trail of one of the caller's messages.
func (s *MessageService) MessageEvents(ctx context.Context, publicID, callerID string) ([]*models.Event, error) {
	m, err := s.repomanager.Messages(s.db).GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := ownerCheck(m, callerID); err != nil {
		return nil, err
	}
	return s.repomanager.Events(s.db).SelectByPublicID(ctx, m.PublicID)
}

func ownerCheck(m *models.Message, callerID string) error {
	if callerID == "" || m.UserID != callerID {
		return common.ErrForbidden
	}
	return nil
}

func (s *MessageService) newEvent(t models.EventType, m *models.Message, info models.ClientInfo) *models.Event {
	return &models.Event{
		EventType: t,
		Timestamp: s.now().UTC(),
		EventData: models.EventData{
			PublicID:   m.PublicID,
			UserID:     m.UserID,
			ClientInfo: info,
		},
	}
}

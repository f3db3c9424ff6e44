package messages

import (
	"context"
	"time"

	"github.com/muliswilliam/secureshare/internal/server/models"
)

// Filter narrows FindMany results. Zero-valued fields are ignored.
type Filter struct {
	UserID string
	Status models.MessageStatus
}

// Repository is the storage contract for messages.
//
// CompareAndSetStatus is the serialization point for the one-time-access
// guarantee: it must be an atomic conditional update, so that of any number
// of concurrent callers exactly one observes a true result.
type Repository interface {
	Insert(ctx context.Context, m *models.Message) (*models.Message, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Message, error)
	FindPendingByPublicID(ctx context.Context, publicID string) (*models.Message, error)
	CompareAndSetStatus(ctx context.Context, id string, expected, next models.MessageStatus) (bool, error)
	SelectExpiredPending(ctx context.Context, now time.Time) ([]*models.Message, error)
	FindMany(ctx context.Context, filter Filter) ([]*models.Message, error)
	UpdateNote(ctx context.Context, id, note string) error
	Delete(ctx context.Context, id string) error
}

package events

import (
	"context"

	"github.com/muliswilliam/secureshare/internal/server/models"
)

// Repository is the append-only audit log contract. There is no update or
// delete: rows are immutable once written.
type Repository interface {
	Record(ctx context.Context, e *models.Event) error
	SelectByPublicID(ctx context.Context, publicID string) ([]*models.Event, error)
}

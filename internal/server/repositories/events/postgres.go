// Package events provides PostgreSQL-backed persistence for the append-only
// audit log.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muliswilliam/secureshare/internal/dbx"
	"github.com/muliswilliam/secureshare/internal/server/models"
)

// PostgresRepository implements event storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record appends one audit event. EventData is stored as JSONB.
func (r *PostgresRepository) Record(ctx context.Context, e *models.Event) error {
	data, err := json.Marshal(e.EventData)
	if err != nil {
		return fmt.Errorf("event data marshal error: %w", err)
	}

	query := `INSERT INTO events (event_type, timestamp, event_data) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, e.EventType, e.Timestamp, data); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SelectByPublicID returns the audit trail of one message, oldest first.
func (r *PostgresRepository) SelectByPublicID(ctx context.Context, publicID string) ([]*models.Event, error) {
	query := `
		SELECT id, event_type, timestamp, event_data FROM events
		WHERE event_data ->> 'publicId' = $1
		ORDER BY timestamp`

	rows, err := r.db.QueryContext(ctx, query, publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		var e models.Event
		var data []byte
		if err := rows.Scan(&e.ID, &e.EventType, &e.Timestamp, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &e.EventData); err != nil {
			return nil, fmt.Errorf("event data unmarshal error: %w", err)
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

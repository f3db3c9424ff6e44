// Package messages provides PostgreSQL-backed persistence for one-time
// messages, including the atomic status transition that enforces at-most-one
// consumption.
package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/muliswilliam/secureshare/internal/common"
	"github.com/muliswilliam/secureshare/internal/dbx"
	"github.com/muliswilliam/secureshare/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const messageColumns = `id, public_id, user_id, body, note, notify_on_open, status, expires_at, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.PublicID, &m.UserID, &m.Body, &m.Note, &m.NotifyOnOpen, &m.Status, &m.ExpiresAt, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert persists a new message and returns it with DB-assigned fields set.
func (r *PostgresRepository) Insert(ctx context.Context, m *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (id, public_id, user_id, body, note, notify_on_open, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + messageColumns

	row := r.db.QueryRowContext(ctx, query,
		m.ID, m.PublicID, m.UserID, m.Body, m.Note, m.NotifyOnOpen, m.Status, m.ExpiresAt)

	created, err := scanMessage(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// GetByPublicID returns the message with the given public identifier in any
// status, or common.ErrNotFound. Owner-facing operations use it; the consume
// path goes through FindPendingByPublicID instead.
func (r *PostgresRepository) GetByPublicID(ctx context.Context, publicID string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE public_id = $1`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, publicID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// FindPendingByPublicID returns the pending message with the given public
// identifier. A seen, expired or never-created message yields the same
// common.ErrNotFound.
func (r *PostgresRepository) FindPendingByPublicID(ctx context.Context, publicID string) (*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE public_id = $1 AND status = $2`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, publicID, models.StatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// CompareAndSetStatus atomically transitions the message with the given ID
// from expected to next. The returned bool reports whether this caller's
// update won; a false result with a nil error means another transition got
// there first (or the row is gone).
func (r *PostgresRepository) CompareAndSetStatus(ctx context.Context, id string, expected, next models.MessageStatus) (bool, error) {
	query := `UPDATE messages SET status = $3 WHERE id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query, id, expected, next)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// SelectExpiredPending returns all pending messages whose expiry has passed.
func (r *PostgresRepository) SelectExpiredPending(ctx context.Context, now time.Time) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE status = $1 AND expires_at <= $2`

	rows, err := r.db.QueryContext(ctx, query, models.StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to select expired messages: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindMany returns messages matching the filter, newest first.
func (r *PostgresRepository) FindMany(ctx context.Context, filter Filter) ([]*models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages`
	var conds []string
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, "user_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateNote sets the sender-private note on a message.
func (r *PostgresRepository) UpdateNote(ctx context.Context, id, note string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET note = $2 WHERE id = $1`, id, note)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a message row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

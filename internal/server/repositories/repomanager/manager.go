package repomanager

import (
	"context"
	"database/sql"

	"github.com/muliswilliam/secureshare/internal/dbx"
	"github.com/muliswilliam/secureshare/internal/server/repositories/events"
	"github.com/muliswilliam/secureshare/internal/server/repositories/messages"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run a set of repository calls either standalone or inside a
// single transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Messages(db dbx.DBTX) messages.Repository
	Events(db dbx.DBTX) events.Repository
}

// Package repomanager vends the repositories of the server and owns the
// transaction boundary. Two implementations exist: PostgreSQL and an
// in-memory one used when no DSN is configured.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/dbx"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/notes"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/noteversions"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/users"
)

// TxFunc is run by WithTx with a transactional handle.
type TxFunc func(ctx context.Context, tx dbx.DBTX) error

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error

	// Conn is the non-transactional handle passed to the factories.
	Conn() dbx.DBTX
	// WithTx runs fn atomically: its writes are all kept or all discarded.
	WithTx(ctx context.Context, fn TxFunc) error

	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
	NoteVersions(db dbx.DBTX) noteversions.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}

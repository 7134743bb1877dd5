// Package repomanager vends repository implementations bound to a database
// handle and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpavlenko/curex/internal/dbx"
	"github.com/dpavlenko/curex/internal/server/repositories/accounts"
)

// RepositoryManager hands out repositories bound to the provided DBTX, so
// callers can run them against either the pool or an open transaction.
type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

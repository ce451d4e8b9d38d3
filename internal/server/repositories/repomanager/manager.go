// Package repomanager wires repositories to a shared database handle.
// Repositories are handed out bound to either the root *sql.DB or a
// transaction, so services can compose multi-statement units of work.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/lendaro/bankcore/internal/dbx"
	"github.com/lendaro/bankcore/internal/server/repositories/cards"
	"github.com/lendaro/bankcore/internal/server/repositories/employees"
	"github.com/lendaro/bankcore/internal/server/repositories/loans"
	"github.com/lendaro/bankcore/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Close() error
	Users(db dbx.DBTX) users.Repository
	Loans(db dbx.DBTX) loans.Repository
	Cards(db dbx.DBTX) cards.Repository
	Employees(db dbx.DBTX) employees.Repository
}

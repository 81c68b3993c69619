// Package db wires the database connection, migrations, and repositories
// together behind a RepositoryManager.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authkeeper/internal/server/users"
)

// RepositoryManager owns the database handle and hands out repositories
// bound to it.
type RepositoryManager interface {
	Conn() *sql.DB
	Users() users.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

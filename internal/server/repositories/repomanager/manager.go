// Package repomanager wires concrete repositories to a database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/suggestbox/internal/dbx"
	"github.com/dmitrijs2005/suggestbox/internal/server/repositories/messages"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Messages(db dbx.DBTX) messages.Repository
}

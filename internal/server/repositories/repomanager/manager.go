package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/journals"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/moods"
	"github.com/dmitrijs2005/mindease/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Moods(db dbx.DBTX) moods.Repository
	Journals(db dbx.DBTX) journals.Repository
}

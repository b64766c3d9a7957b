// Package repomanager vends repository implementations bound to a database
// handle, so services can run the same repositories against *sql.DB or an
// open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkireev/realty/internal/dbx"
	"github.com/dkireev/realty/internal/server/repositories/listings"
	"github.com/dkireev/realty/internal/server/repositories/photos"
	"github.com/dkireev/realty/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Listings(db dbx.DBTX) listings.Repository
	Photos(db dbx.DBTX) photos.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

package accounts

import (
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenSQLite opens a bun handle over SQLite, e.g. "file::memory:?cache=shared"
// for tests or a file path for a standalone deployment.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to open database").
			WithMetadata(map[string]any{
				"dsn": dsn,
			})
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

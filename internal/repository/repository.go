package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BindNamed(query string, arg interface{}) (string, []interface{}, error)
	DriverName() string
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

// namedGet binds :name parameters for the executor's driver and scans one row.
func namedGet(ctx context.Context, db DBTX, dest interface{}, query string, arg interface{}) error {
	q, args, err := db.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return db.GetContext(ctx, dest, q, args...)
}

// namedSelect binds :name parameters and scans every row into dest.
func namedSelect(ctx context.Context, db DBTX, dest interface{}, query string, arg interface{}) error {
	q, args, err := db.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return db.SelectContext(ctx, dest, q, args...)
}

// dialect covers the few statements Oracle and SQLite spell differently.
type dialect struct {
	sqlite bool
}

func dialectOf(db DBTX) dialect {
	return dialect{sqlite: db.DriverName() == "sqlite"}
}

// forUpdate returns the row locking clause. SQLite locks the whole database
// for a write transaction instead.
func (d dialect) forUpdate() string {
	if d.sqlite {
		return ""
	}
	return " FOR UPDATE"
}

// paginate expects :offset and :limit in the named arguments.
func (d dialect) paginate() string {
	if d.sqlite {
		return " LIMIT :limit OFFSET :offset"
	}
	return " OFFSET :offset ROWS FETCH NEXT :limit ROWS ONLY"
}

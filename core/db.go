package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/inflect"
	"github.com/volatiletech/strmangle"
)

type (
	// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		Close() error
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

// Column returns the snake_cased column name of the ordering field.
func (ord DBOrdering) Column() string {
	return inflect.Underscore(ord.Field)
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return strmangle.IdentQuote('"', '"', ord.Column()) + " " + direction
}

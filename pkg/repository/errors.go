package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes surfaced to callers.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError translates database errors to domain errors: sql.ErrNoRows becomes
// notFoundErr and a unique violation becomes duplicateErr. Anything else is
// returned as is.
func MapError(err error, notFoundErr, duplicateErr error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFoundErr
	case hasCode(err, pgUniqueViolation):
		return duplicateErr
	}
	return err
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation,
// such as an evaluation referencing a classroom that no longer exists.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, pgForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

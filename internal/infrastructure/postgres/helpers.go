package postgres

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique-constraint breach.
const uniqueViolation = "23505"

// finalize rebinds a gendry-built query (`?` placeholders) to the `$n`
// placeholders lib/pq expects.
func finalize(query string, args []interface{}) (string, []interface{}) {
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// isConflict reports whether err is a unique-constraint violation, so callers
// can map duplicate inserts to a conflict instead of a generic failure.
func isConflict(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code) == uniqueViolation
	}
	return false
}

package submissiondb

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrNotFound is returned when no verification hash row matches.
	ErrNotFound = errors.New("verification hash not found")

	// ErrHashConflict is returned by InsertVerificationHash when another transaction
	// already owns the hash. The caller should re-read it and treat the submission as a duplicate.
	ErrHashConflict = errors.New("verification hash already recorded")
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique_violation from either
// the bun pgdriver or pgx.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C') == uniqueViolationCode
	}
	return false
}

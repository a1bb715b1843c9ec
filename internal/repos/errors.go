package repos

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error classes. SQLite (local mode) surfaces constraint errors
// through gorm.ErrDuplicatedKey instead.
const (
	pgUniqueViolation = "23505"
	pgDeadlock        = "40P01"
	pgSerialization   = "40001"
)

// IsUniqueViolation reports whether err is a duplicate-key failure.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsRetryable reports whether err is a transient conflict worth one more
// attempt (deadlock or serialization failure).
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgDeadlock || pgErr.Code == pgSerialization
}

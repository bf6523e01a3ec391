package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/sarraf/internal/domain"
)

// PostgreSQL error codes surfaced as domain-level contention.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrUniqueViolation      = "23505"
)

// translateError maps contention-class PostgreSQL errors to
// domain.ErrConcurrentConflict so callers can decide to retry the whole
// unit of work. Everything else passes through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure:
			return fmt.Errorf("%w: %s", domain.ErrConcurrentConflict, pgErr.Message)
		}
	}

	return err
}

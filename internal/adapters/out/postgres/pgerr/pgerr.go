// Package pgerr translates Postgres driver failures into the errs taxonomy.
package pgerr

import (
	"context"
	"errors"

	"ordertracker/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation is the SQLSTATE of a unique constraint violation.
const UniqueViolation = "23505"

// Constraints maps a unique constraint (or index) name to the error reported
// when a write violates it.
type Constraints map[string]func(cause error) error

// Translate wraps err for operation. Known unique violations are mapped via
// constraints; unknown ones become conflicts; timeouts become retryable
// internal errors; everything else is a plain internal error.
func Translate(err error, operation string, constraints Constraints) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		if mapped, ok := constraints[pgErr.ConstraintName]; ok {
			return mapped(err)
		}
		return errs.NewConflictErrorWithCause(operation+": duplicate key", err)
	}

	if pgconn.Timeout(err) && !errors.Is(err, context.DeadlineExceeded) {
		err = errors.Join(context.DeadlineExceeded, err)
	}
	return errs.NewInternalError(operation, err)
}

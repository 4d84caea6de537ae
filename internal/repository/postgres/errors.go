package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
)

// SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if c := pgCode(err); c != "" {
		return c == code
	}
	return strings.Contains(err.Error(), code)
}

func isUniqueViolation(err error) bool     { return hasCode(err, pgUniqueViolation) }
func isForeignKeyViolation(err error) bool { return hasCode(err, pgForeignKeyViolation) }
func isCheckViolation(err error) bool      { return hasCode(err, pgCheckViolation) }

// constraintName returns the violated constraint, or "" when unknown.
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// spanError drops expected lookup and uniqueness outcomes so they do not mark
// the query span as failed.
func spanError(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrAlreadyExists) {
		return nil
	}
	return err
}

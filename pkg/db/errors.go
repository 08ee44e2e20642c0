package db

import (
	"strings"

	pkgerrors "github.com/andresfigueroa/salescap-backend/pkg/errors"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation on either Postgres or SQLite. When constraintName is
// provided, the helper looks for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsCheckViolation reports whether the provided error references a check
// constraint failure on either Postgres or SQLite.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "violates check constraint") ||
		strings.Contains(msg, "CHECK constraint failed")
}

// WrapError classifies a storage error before surfacing it: schema CHECK
// failures are the caller's fault, unique violations are conflicts, and
// everything else is a retryable dependency failure.
func WrapError(err error, msg string) error {
	switch {
	case IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
	}
}

package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeStringTooLong       = "22001"
	codeOutOfRange          = "22003"
	codeInvalidText         = "22P02"
)

func pqCode(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

func IsUniqueViolation(err error) bool {
	code, _ := pqCode(err)
	return code == codeUniqueViolation
}

// IsIntegrityViolation reports constraint failures caused by the submitted
// data rather than by duplicates.
func IsIntegrityViolation(err error) bool {
	code, _ := pqCode(err)
	switch code {
	case codeForeignKeyViolation, codeCheckViolation, codeNotNullViolation:
		return true
	}
	return false
}

// ConstraintName returns the violated constraint, or "" for other errors.
func ConstraintName(err error) string {
	_, constraint := pqCode(err)
	return constraint
}

// IsInvalidValue reports data exceptions raised for a single value that the
// column cannot hold: an over-length string, an out-of-range number or text
// that does not parse as the column type.
func IsInvalidValue(err error) bool {
	code, _ := pqCode(err)
	switch code {
	case codeStringTooLong, codeOutOfRange, codeInvalidText:
		return true
	}
	return false
}

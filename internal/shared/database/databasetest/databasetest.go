// Package databasetest holds helpers for tests that need a transaction
// runner or a real PostgreSQL instance.
package databasetest

import (
	"context"

	"starwars-api/internal/shared/database"

	"github.com/lib/pq"
)

// ErrUniqueViolation is the driver error a duplicate key produces. In-memory
// fakes wrap it so their conflicts look like the repositories'.
var ErrUniqueViolation error = &pq.Error{Code: "23505"}

// NoTx runs the callback directly with a nil transaction, which repositories
// and in-memory fakes treat as "use the default executor".
type NoTx struct{}

func (NoTx) WithTx(_ context.Context, fn func(tx *database.Tx) error) error {
	return fn(nil)
}

package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassification(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "people_name_key"}
	check := &pq.Error{Code: "23514", Constraint: "favorites_nature_check"}
	fk := fmt.Errorf("insert favorite: %w", &pq.Error{Code: "23503", Constraint: "favorites_user_id_fkey"})
	other := errors.New("connection refused")

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsIntegrityViolation(unique))
	assert.Equal(t, "people_name_key", ConstraintName(unique))

	assert.True(t, IsIntegrityViolation(check))
	assert.True(t, IsIntegrityViolation(fk))
	assert.Equal(t, "favorites_user_id_fkey", ConstraintName(fk))

	assert.False(t, IsUniqueViolation(other))
	assert.False(t, IsIntegrityViolation(other))
	assert.Empty(t, ConstraintName(other))
}

func TestInvalidValueClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"string too long", &pq.Error{Code: "22001"}, true},
		{"numeric out of range", fmt.Errorf("update: %w", &pq.Error{Code: "22003"}), true},
		{"invalid text representation", &pq.Error{Code: "22P02"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalidValue(tt.err))
		})
	}
}

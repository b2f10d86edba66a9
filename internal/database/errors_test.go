package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsOverlapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"exclusion sqlstate", &pgconn.PgError{Code: "23P01"}, true},
		{"constraint name", &pgconn.PgError{Code: "23000", ConstraintName: OverlapConstraint}, true},
		{"wrapped pg error", fmt.Errorf("approve: %w", &pgconn.PgError{Code: "23P01"}), true},
		{"message names constraint", errors.New(`violates exclusion constraint "booking_no_overlap_excl"`), true},
		{"message mentions overlap", errors.New("date ranges overlap"), true},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "idx_payments_booking_id", Message: "duplicate key"}, false},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverlapError(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_booking_id"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "idx_reviews_booking_id"))
	assert.False(t, IsUniqueViolation(err, "idx_users_email"))
	assert.False(t, IsUniqueViolation(errors.New("duplicate"), ""))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"connection exception class", &pgconn.PgError{Code: "08006"}, true},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"reset text", errors.New("read tcp: connection reset by peer"), true},
		{"exclusion is permanent", &pgconn.PgError{Code: "23P01"}, false},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("record not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateExclusionViolation = "23P01"
	sqlStateUniqueViolation    = "23505"
	sqlStateSerialization      = "40001"
	sqlStateDeadlock           = "40P01"
	sqlStateAdminShutdown      = "57P01"
	sqlStateCannotConnectNow   = "57P03"
)

var (
	overlapPattern   = regexp.MustCompile(`(?i)` + OverlapConstraint + `|overlap|exclusion|exclude`)
	transientPattern = regexp.MustCompile(`(?i)connection reset|broken pipe|connection refused|server closed the connection|unexpected EOF|conn closed`)
)

// IsOverlapError reports whether err is a violation of the booking overlap
// exclusion constraint.
func IsOverlapError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == sqlStateExclusionViolation || pgErr.ConstraintName == OverlapConstraint {
			return true
		}
	}
	return overlapPattern.MatchString(err.Error())
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != sqlStateUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsTransient reports whether err is worth retrying: lost connections,
// serialization failures and deadlocks.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerialization, sqlStateDeadlock, sqlStateAdminShutdown, sqlStateCannotConnectNow:
			return true
		}
		// Class 08: connection exception
		return strings.HasPrefix(pgErr.Code, "08")
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return transientPattern.MatchString(err.Error())
}

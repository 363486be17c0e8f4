package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a store write failure so callers can branch on structure
// instead of scraping error text.
type Kind int

const (
	// KindOther is any failure not recognized below.
	KindOther Kind = iota

	// KindConflict is a uniqueness violation: the record's key already
	// exists and the write was refused, not broken.
	KindConflict

	// KindUnavailable is a connectivity-class failure; the store itself
	// could not be reached.
	KindUnavailable
)

// Postgres error classes. 23505 is unique_violation; class 08 covers
// connection exceptions.
const (
	pgUniqueViolation = "23505"
	pgConnectionClass = "08"
)

// KindOf classifies err. Postgres errors are classified by SQLSTATE;
// anything else falls back to a substring scan of the message, which is the
// weaker signal and only there for non-Postgres wrappers.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return KindConflict
		case strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return KindUnavailable
		}
		return KindOther
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "already exists"):
		return KindConflict
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"):
		return KindUnavailable
	}

	return KindOther
}

// IsConflict reports whether err is a uniqueness/conflict violation.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

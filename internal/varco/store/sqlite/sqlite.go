// Package sqlite implements the store interfaces over a single-connection
// SQLite database.  All writes go through the shared db.Worker so write
// transactions are serialized; reads run directly on the pool.
package sqlite

import (
	"strings"
	"time"
)

func timeToMs(t time.Time) int64 { return t.UTC().UnixMilli() }

func msToTime(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// nullableMs maps an optional time onto a nullable ms-epoch column value.
func nullableMs(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeToMs(*t)
}

// isUniqueViolation reports whether err is a SQLite uniqueness/PK
// constraint failure.  modernc.org/sqlite surfaces these as plain errors
// with a "UNIQUE constraint failed" message, so string matching is the
// only handle available.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

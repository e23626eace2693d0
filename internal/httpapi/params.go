package httpapi

import (
	"time"

	"github.com/varcoaccess/varco/internal/varco/apperr"
)

// parseTimeParam parses a start/end query parameter.  An empty value means
// the bound is open and parses to the zero time.  RFC3339 is tried first;
// a bare date is also accepted, and when isEnd is set a bare date widens
// to the last instant of that day so "2026-01-15" captures the whole day.
func parseTimeParam(value string, isEnd bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.BadRequest, "invalid date %q", value)
	}
	if isEnd {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t.UTC(), nil
}

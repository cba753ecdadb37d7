package gorm

import (
	"database/sql"
	"fmt"

	"github.com/thebtf/momentum/internal/db"
	"github.com/thebtf/momentum/pkg/models"
)

var (
	_ db.ProgressStore     = (*Store)(nil)
	_ db.BenchmarkWriter   = (*Store)(nil)
	_ db.InteractionWriter = (*Store)(nil)
	_ db.Pinger            = (*Store)(nil)
)

// MaxListLimit caps list queries.
const MaxListLimit = 1000

// sqlNullString creates a sql.NullString from a string.
func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// clampLimit returns limit bounded to [1, MaxListLimit], or def when limit is not positive.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// counterColumn returns the column for a weekly counter.
// Counter values double as column names, so only known counters are accepted.
func counterColumn(c models.Counter) (string, error) {
	if !db.IsCounter(c) {
		return "", fmt.Errorf("%w: %q", db.ErrUnknownCounter, c)
	}
	return string(c), nil
}

package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// parseTime parses an RFC3339 timestamp column.
func parseTime(s, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// nullableString converts a sql.NullString to a *string.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

package normalize

import (
	"database/sql"
	"strings"
	"time"
)

// SplitDateParts derives partial calendar fields from an ISO-8601
// timestamp and the precision the source declares for it. Year is
// always produced when the timestamp parses; month and day only when
// the precision supports them. Any parse failure yields all-absent
// fields, upstream data quality is not guaranteed.
func SplitDateParts(dateUTC, precision sql.NullString) (year, month, day sql.NullInt64) {
	if !dateUTC.Valid {
		return
	}

	t, err := time.Parse(time.RFC3339, dateUTC.String)
	if err != nil {
		return
	}

	y, m, d := t.Date()
	year = sql.NullInt64{Int64: int64(y), Valid: true}

	switch strings.ToLower(precision.String) {
	case "month":
		month = sql.NullInt64{Int64: int64(m), Valid: true}
	case "day", "hour":
		month = sql.NullInt64{Int64: int64(m), Valid: true}
		day = sql.NullInt64{Int64: int64(d), Valid: true}
	}

	return
}

package report

import (
	"database/sql"
	"fmt"

	"github.com/franz/launchbase/internal/store"
)

// YearOutcome is one row of the failure-rate-by-year query
type YearOutcome struct {
	Year           int64
	Failures       int64
	Successes      int64
	Total          int64
	FailureRatePct float64
}

// FailureRateByYear aggregates past launch outcomes per calendar year.
// Upcoming launches and launches with an unknown outcome are excluded.
func FailureRateByYear(db *store.Store) ([]YearOutcome, error) {
	rows, err := db.DB().Query(`
		SELECT
		  year,
		  SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)               AS failures,
		  SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END)               AS successes,
		  COUNT(*)                                                   AS total,
		  ROUND(100.0 * SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)
		             / COUNT(*), 2)                                  AS failure_rate_pct
		FROM launches
		WHERE upcoming = 0
		  AND success IS NOT NULL
		  AND year IS NOT NULL
		GROUP BY year
		ORDER BY year
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure rates: %w", err)
	}
	defer rows.Close()

	var results []YearOutcome
	for rows.Next() {
		var y YearOutcome
		if err := rows.Scan(&y.Year, &y.Failures, &y.Successes, &y.Total, &y.FailureRatePct); err != nil {
			return nil, fmt.Errorf("failed to scan year outcome: %w", err)
		}
		results = append(results, y)
	}

	return results, rows.Err()
}

// AvgDaysBetweenCoreReuses computes the average gap, in days, between
// consecutive flights of the same core. Unknown when no core flew twice.
func AvgDaysBetweenCoreReuses(db *store.Store) (sql.NullFloat64, error) {
	var avg sql.NullFloat64
	err := db.DB().QueryRow(`
		WITH diffs AS (
		  SELECT
		    (l.date_unix - LAG(l.date_unix) OVER (
		       PARTITION BY lc.core_id ORDER BY l.date_unix
		    )) / 86400.0 AS days_between
		  FROM launch_cores AS lc
		  JOIN launches AS l
		    ON l.id = lc.launch_id
		)
		SELECT ROUND(AVG(days_between), 2)
		FROM diffs
		WHERE days_between IS NOT NULL
	`).Scan(&avg)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("failed to query core reuse gaps: %w", err)
	}

	return avg, nil
}

// NameCount is one row of a top-N ranking
type NameCount struct {
	Name     string
	Payloads int64
}

// TopManufacturers ranks payload manufacturers by payload count,
// exploding the encoded manufacturer arrays with json_each.
func TopManufacturers(db *store.Store) ([]NameCount, error) {
	return topJSONColumn(db, "manufacturers_json")
}

// TopCustomers ranks payload customers by payload count
func TopCustomers(db *store.Store) ([]NameCount, error) {
	return topJSONColumn(db, "customers_json")
}

func topJSONColumn(db *store.Store, column string) ([]NameCount, error) {
	query := fmt.Sprintf(`
		WITH exploded AS (
		  SELECT
		    TRIM(LOWER(j.value)) AS name
		  FROM payloads p
		  JOIN json_each(p.%s) AS j
		  WHERE p.%s IS NOT NULL
		    AND json_valid(p.%s)
		    AND j.value IS NOT NULL
		    AND TRIM(j.value) <> ''
		)
		SELECT name, COUNT(*) AS payload_count
		FROM exploded
		GROUP BY name
		ORDER BY payload_count DESC, name
	`, column, column, column)

	rows, err := db.DB().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s ranking: %w", column, err)
	}
	defer rows.Close()

	var results []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Payloads); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		results = append(results, nc)
	}

	return results, rows.Err()
}

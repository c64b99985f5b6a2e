package store

import (
	"database/sql"
	"fmt"
)

// RecordLoadRun writes the bookkeeping row for a load, inside the same
// transaction as the load itself so an aborted run leaves no trace.
func (s *Store) RecordLoadRun(tx *sql.Tx, run *LoadRun) error {
	_, err := tx.Exec(`
		INSERT INTO load_runs (
			id, started_at, finished_at,
			rockets_loaded, launches_loaded, payloads_loaded, payloads_skipped
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.StartedAt, run.FinishedAt,
		run.RocketsLoaded, run.LaunchesLoaded, run.PayloadsLoaded, run.PayloadsSkipped,
	)
	if err != nil {
		return fmt.Errorf("failed to record load run: %w", err)
	}

	return nil
}

// RecentLoadRuns retrieves the most recent load runs, newest first
func (s *Store) RecentLoadRuns(limit int) ([]LoadRun, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at,
		       rockets_loaded, launches_loaded, payloads_loaded, payloads_skipped
		FROM load_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query load runs: %w", err)
	}
	defer rows.Close()

	var runs []LoadRun
	for rows.Next() {
		var r LoadRun
		var started, finished sql.NullTime
		err := rows.Scan(
			&r.ID, &started, &finished,
			&r.RocketsLoaded, &r.LaunchesLoaded, &r.PayloadsLoaded, &r.PayloadsSkipped,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load run: %w", err)
		}
		r.StartedAt = started.Time
		r.FinishedAt = finished.Time
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

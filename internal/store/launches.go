package store

import (
	"database/sql"
	"fmt"
)

// UpsertLaunch inserts or replaces a launch and its paired date detail
// row in one call. The date row is written first: the launch's date_key
// back-reference carries the launch_dates identity (they share the
// launch id, so the order matters for atomicity, not key generation).
func (s *Store) UpsertLaunch(tx *sql.Tx, l *Launch, d *LaunchDate) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO launch_dates (
			launch_id, date_utc, date_local, date_precision,
			static_fire_date_utc, static_fire_date_unix
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		d.LaunchID, d.DateUTC, d.DateLocal, d.DatePrecision,
		d.StaticFireDateUTC, d.StaticFireDateUnix,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert launch date %s: %w", d.LaunchID, err)
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO launches (
			id, flight_number, name,
			year, month, day, date_unix, date_key,
			tbd, net, "window",
			rocket, success, details,
			fairings_reused, fairings_recovery_attempt, fairings_recovered,
			fairings_ships_json, failures_json, crew_json, ships_json, capsules_json,
			launchpad, upcoming, auto_update
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.FlightNumber, l.Name,
		l.Year, l.Month, l.Day, l.DateUnix, l.DateKey,
		l.TBD, l.Net, l.Window,
		l.RocketID, l.Success, l.Details,
		l.FairingsReused, l.FairingsRecoveryAttempt, l.FairingsRecovered,
		l.FairingsShipsJSON, l.FailuresJSON, l.CrewJSON, l.ShipsJSON, l.CapsulesJSON,
		l.Launchpad, l.Upcoming, l.AutoUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert launch %s: %w", l.ID, err)
	}

	return nil
}

// ReplaceLaunchCores deletes all core rows for the launch and inserts
// the current list. Replace-the-set, not a merge: a reload where the
// source list shrank leaves no stale core entries behind.
func (s *Store) ReplaceLaunchCores(tx *sql.Tx, launchID string, cores []LaunchCore) error {
	if _, err := tx.Exec("DELETE FROM launch_cores WHERE launch_id = ?", launchID); err != nil {
		return fmt.Errorf("failed to clear cores for launch %s: %w", launchID, err)
	}

	for _, c := range cores {
		_, err := tx.Exec(`
			INSERT INTO launch_cores (
				launch_id, core_id, flight, gridfins, legs, reused,
				landing_attempt, landing_success, landing_type, landpad
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			launchID, c.CoreID, c.Flight, c.Gridfins, c.Legs, c.Reused,
			c.LandingAttempt, c.LandingSuccess, c.LandingType, c.Landpad,
		)
		if err != nil {
			return fmt.Errorf("failed to insert core for launch %s: %w", launchID, err)
		}
	}

	return nil
}

// LaunchExists reports whether a launch row with the given identity is
// present, within the same transaction as the pending writes.
func (s *Store) LaunchExists(tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRow("SELECT 1 FROM launches WHERE id = ? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check launch %s: %w", id, err)
	}
	return true, nil
}

// GetLaunch retrieves a launch by id, or nil if absent
func (s *Store) GetLaunch(id string) (*Launch, error) {
	l := &Launch{}
	err := s.db.QueryRow(`
		SELECT id, flight_number, name,
		       year, month, day, date_unix, date_key,
		       tbd, net, "window",
		       rocket, success, details,
		       fairings_reused, fairings_recovery_attempt, fairings_recovered,
		       COALESCE(fairings_ships_json, '[]'), COALESCE(failures_json, '[]'),
		       COALESCE(crew_json, '[]'), COALESCE(ships_json, '[]'), COALESCE(capsules_json, '[]'),
		       launchpad, upcoming, auto_update
		FROM launches WHERE id = ?
	`, id).Scan(
		&l.ID, &l.FlightNumber, &l.Name,
		&l.Year, &l.Month, &l.Day, &l.DateUnix, &l.DateKey,
		&l.TBD, &l.Net, &l.Window,
		&l.RocketID, &l.Success, &l.Details,
		&l.FairingsReused, &l.FairingsRecoveryAttempt, &l.FairingsRecovered,
		&l.FairingsShipsJSON, &l.FailuresJSON,
		&l.CrewJSON, &l.ShipsJSON, &l.CapsulesJSON,
		&l.Launchpad, &l.Upcoming, &l.AutoUpdate,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get launch: %w", err)
	}

	return l, nil
}

// GetLaunchCores retrieves the core rows for a launch
func (s *Store) GetLaunchCores(launchID string) ([]LaunchCore, error) {
	rows, err := s.db.Query(`
		SELECT launch_id, core_id, flight, gridfins, legs, reused,
		       landing_attempt, landing_success, landing_type, landpad
		FROM launch_cores WHERE launch_id = ?
		ORDER BY core_id
	`, launchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cores: %w", err)
	}
	defer rows.Close()

	var cores []LaunchCore
	for rows.Next() {
		var c LaunchCore
		err := rows.Scan(
			&c.LaunchID, &c.CoreID, &c.Flight, &c.Gridfins, &c.Legs, &c.Reused,
			&c.LandingAttempt, &c.LandingSuccess, &c.LandingType, &c.Landpad,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan core: %w", err)
		}
		cores = append(cores, c)
	}

	return cores, rows.Err()
}

// GetLaunchDate retrieves the date detail row for a launch, or nil
func (s *Store) GetLaunchDate(launchID string) (*LaunchDate, error) {
	d := &LaunchDate{}
	err := s.db.QueryRow(`
		SELECT launch_id, date_utc, date_local, date_precision,
		       static_fire_date_utc, static_fire_date_unix
		FROM launch_dates WHERE launch_id = ?
	`, launchID).Scan(
		&d.LaunchID, &d.DateUTC, &d.DateLocal, &d.DatePrecision,
		&d.StaticFireDateUTC, &d.StaticFireDateUnix,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get launch date: %w", err)
	}

	return d, nil
}

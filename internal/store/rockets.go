package store

import (
	"database/sql"
	"fmt"
)

// UpsertRocket inserts or replaces a rocket row keyed by its provider
// identity. Rockets have no dependents, so the replace is unconditional.
func (s *Store) UpsertRocket(tx *sql.Tx, r *Rocket) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO rockets (
			id, name, type, active, stages, boosters, cost_per_launch,
			success_rate_pct, first_flight, country, company,
			height_meters, diameter_meters, mass_kg, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.Name, r.Type, r.Active, r.Stages, r.Boosters, r.CostPerLaunch,
		r.SuccessRatePct, r.FirstFlight, r.Country, r.Company,
		r.HeightMeters, r.DiameterMeters, r.MassKg, r.Description,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert rocket %s: %w", r.ID, err)
	}

	return nil
}

// GetRocket retrieves a rocket by id, or nil if absent
func (s *Store) GetRocket(id string) (*Rocket, error) {
	r := &Rocket{}
	err := s.db.QueryRow(`
		SELECT id, name, type, active, stages, boosters, cost_per_launch,
		       success_rate_pct, first_flight, country, company,
		       height_meters, diameter_meters, mass_kg, description
		FROM rockets WHERE id = ?
	`, id).Scan(
		&r.ID, &r.Name, &r.Type, &r.Active, &r.Stages, &r.Boosters, &r.CostPerLaunch,
		&r.SuccessRatePct, &r.FirstFlight, &r.Country, &r.Company,
		&r.HeightMeters, &r.DiameterMeters, &r.MassKg, &r.Description,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rocket: %w", err)
	}

	return r, nil
}

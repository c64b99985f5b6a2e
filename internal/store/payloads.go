package store

import (
	"database/sql"
	"fmt"
)

// UpsertPayload inserts or replaces a payload row, guarded on its
// launch reference: an empty or dangling launch id makes the call a
// no-op and returns inserted=false so the caller can count the skip.
// This is why payloads load strictly after all launches have landed.
func (s *Store) UpsertPayload(tx *sql.Tx, p *Payload) (inserted bool, err error) {
	if p.LaunchID == "" {
		return false, nil
	}

	exists, err := s.LaunchExists(tx, p.LaunchID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO payloads (
			id, name, type, reused, launch_id,
			customers_json, manufacturers_json, nationalities_json, norad_ids_json,
			mass_kg, mass_lbs, orbit, reference_system, regime,
			apoapsis_km, periapsis_km, inclination_deg, lifespan_years,
			dragon_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.Type, p.Reused, p.LaunchID,
		p.CustomersJSON, p.ManufacturersJSON, p.NationalitiesJSON, p.NoradIDsJSON,
		p.MassKg, p.MassLbs, p.Orbit, p.ReferenceSystem, p.Regime,
		p.ApoapsisKm, p.PeriapsisKm, p.InclinationDeg, p.LifespanYears,
		p.DragonJSON,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert payload %s: %w", p.ID, err)
	}

	return true, nil
}

// GetPayload retrieves a payload by id, or nil if absent
func (s *Store) GetPayload(id string) (*Payload, error) {
	p := &Payload{}
	err := s.db.QueryRow(`
		SELECT id, name, type, reused, launch_id,
		       COALESCE(customers_json, '[]'), COALESCE(manufacturers_json, '[]'),
		       COALESCE(nationalities_json, '[]'), COALESCE(norad_ids_json, '[]'),
		       mass_kg, mass_lbs, orbit, reference_system, regime,
		       apoapsis_km, periapsis_km, inclination_deg, lifespan_years,
		       COALESCE(dragon_json, '{}')
		FROM payloads WHERE id = ?
	`, id).Scan(
		&p.ID, &p.Name, &p.Type, &p.Reused, &p.LaunchID,
		&p.CustomersJSON, &p.ManufacturersJSON,
		&p.NationalitiesJSON, &p.NoradIDsJSON,
		&p.MassKg, &p.MassLbs, &p.Orbit, &p.ReferenceSystem, &p.Regime,
		&p.ApoapsisKm, &p.PeriapsisKm, &p.InclinationDeg, &p.LifespanYears,
		&p.DragonJSON,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payload: %w", err)
	}

	return p, nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const (
	currentSchemaVersion = 2
)

// Store represents the file-backed launch warehouse
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path and brings
// its schema up to date. Repeated opens against the same file are
// idempotent.
func Open(path string) (*Store, error) {
	// Open with pragmas for performance and reliability
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer only, the load is one serialized transaction
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// CheckIntegrity runs PRAGMA integrity_check on the database
func (s *Store) CheckIntegrity() error {
	var result string
	err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	return nil
}

// migrate applies database migrations
func (s *Store) migrate() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version >= currentSchemaVersion {
		// Already at current version
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if version < 1 {
		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if err := s.setSchemaVersion(tx, 1); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}

	// Apply schema v2 - analytics indexes
	if version < 2 {
		if _, err := tx.Exec(schemaV2); err != nil {
			return fmt.Errorf("failed to apply schema v2: %w", err)
		}
		if err := s.setSchemaVersion(tx, 2); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}

// getSchemaVersion returns the current schema version
func (s *Store) getSchemaVersion() (int, error) {
	var exists int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&exists)
	if err != nil {
		return 0, err
	}

	if exists == 0 {
		// No schema yet
		return 0, nil
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion records a schema version in a transaction
func (s *Store) setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// Transaction executes a function within a transaction
func (s *Store) Transaction(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// TableCounts returns the row count of every warehouse table
func (s *Store) TableCounts() (map[string]int64, error) {
	tables := []string{"rockets", "launches", "launch_dates", "launch_cores", "payloads", "load_runs"}
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Rocket is one row of the rockets table. Nullable columns use the
// sql.Null wrappers so absent source data stays absent in the store.
type Rocket struct {
	ID             string
	Name           sql.NullString
	Type           sql.NullString
	Active         sql.NullBool
	Stages         sql.NullInt64
	Boosters       sql.NullInt64
	CostPerLaunch  sql.NullInt64
	SuccessRatePct sql.NullInt64
	FirstFlight    sql.NullString
	Country        sql.NullString
	Company        sql.NullString
	HeightMeters   sql.NullFloat64
	DiameterMeters sql.NullFloat64
	MassKg         sql.NullFloat64
	Description    sql.NullString
}

// Launch is one row of the launches table
type Launch struct {
	ID                      string
	FlightNumber            sql.NullInt64
	Name                    sql.NullString
	Year                    sql.NullInt64
	Month                   sql.NullInt64
	Day                     sql.NullInt64
	DateUnix                sql.NullInt64
	DateKey                 string
	TBD                     sql.NullBool
	Net                     sql.NullBool
	Window                  sql.NullInt64
	RocketID                sql.NullString
	Success                 sql.NullBool
	Details                 sql.NullString
	FairingsReused          sql.NullBool
	FairingsRecoveryAttempt sql.NullBool
	FairingsRecovered       sql.NullBool
	FairingsShipsJSON       string
	FailuresJSON            string
	CrewJSON                string
	ShipsJSON               string
	CapsulesJSON            string
	Launchpad               sql.NullString
	Upcoming                sql.NullBool
	AutoUpdate              sql.NullBool
}

// LaunchDate is the one-to-one date detail row owned by a launch
type LaunchDate struct {
	LaunchID           string
	DateUTC            sql.NullString
	DateLocal          sql.NullString
	DatePrecision      sql.NullString
	StaticFireDateUTC  sql.NullString
	StaticFireDateUnix sql.NullInt64
}

// LaunchCore is one core use within a launch
type LaunchCore struct {
	LaunchID       string
	CoreID         sql.NullString
	Flight         sql.NullInt64
	Gridfins       sql.NullBool
	Legs           sql.NullBool
	Reused         sql.NullBool
	LandingAttempt sql.NullBool
	LandingSuccess sql.NullBool
	LandingType    sql.NullString
	Landpad        sql.NullString
}

// Payload is one row of the payloads table
type Payload struct {
	ID                string
	Name              sql.NullString
	Type              sql.NullString
	Reused            sql.NullBool
	LaunchID          string
	CustomersJSON     string
	ManufacturersJSON string
	NationalitiesJSON string
	NoradIDsJSON      string
	MassKg            sql.NullFloat64
	MassLbs           sql.NullFloat64
	Orbit             sql.NullString
	ReferenceSystem   sql.NullString
	Regime            sql.NullString
	ApoapsisKm        sql.NullFloat64
	PeriapsisKm       sql.NullFloat64
	InclinationDeg    sql.NullFloat64
	LifespanYears     sql.NullFloat64
	DragonJSON        string
}

// LoadRun is the bookkeeping row for one completed load
type LoadRun struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	RocketsLoaded   int
	LaunchesLoaded  int
	PayloadsLoaded  int
	PayloadsSkipped int
}

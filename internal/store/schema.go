package store

// Schema v1 - the five warehouse tables plus run bookkeeping.
//
// Foreign keys are declared for documentation and tooling only. The
// loader guarantees consistency by insertion order (rockets before
// launches before payloads) and the connection never turns the
// foreign_keys pragma on: upstream data contains launches whose rocket
// id is unknown, and those must still load.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rockets (
  id TEXT PRIMARY KEY,
  name TEXT,
  type TEXT,
  active INTEGER,
  stages INTEGER,
  boosters INTEGER,
  cost_per_launch INTEGER,
  success_rate_pct INTEGER,
  first_flight TEXT,
  country TEXT,
  company TEXT,
  height_meters REAL,
  diameter_meters REAL,
  mass_kg REAL,
  description TEXT
);

-- One row per launch, written together with its launches row
CREATE TABLE IF NOT EXISTS launch_dates (
  launch_id TEXT PRIMARY KEY,
  date_utc TEXT,
  date_local TEXT,
  date_precision TEXT,
  static_fire_date_utc TEXT,
  static_fire_date_unix INTEGER
);

CREATE TABLE IF NOT EXISTS launches (
  id TEXT PRIMARY KEY,
  flight_number INTEGER,
  name TEXT,
  year INTEGER,
  month INTEGER,
  day INTEGER,
  date_unix INTEGER,
  date_key TEXT REFERENCES launch_dates(launch_id),
  tbd INTEGER,
  net INTEGER,
  "window" INTEGER,
  rocket TEXT REFERENCES rockets(id),
  success INTEGER,
  details TEXT,
  fairings_reused INTEGER,
  fairings_recovery_attempt INTEGER,
  fairings_recovered INTEGER,
  fairings_ships_json TEXT,
  failures_json TEXT,
  crew_json TEXT,
  ships_json TEXT,
  capsules_json TEXT,
  launchpad TEXT,
  upcoming INTEGER,
  auto_update INTEGER
);

CREATE INDEX IF NOT EXISTS idx_launches_rocket ON launches(rocket);

-- Per-core-use rows, fully replaced on every load of the parent launch
CREATE TABLE IF NOT EXISTS launch_cores (
  launch_id TEXT NOT NULL REFERENCES launches(id),
  core_id TEXT,
  flight INTEGER,
  gridfins INTEGER,
  legs INTEGER,
  reused INTEGER,
  landing_attempt INTEGER,
  landing_success INTEGER,
  landing_type TEXT,
  landpad TEXT
);

CREATE INDEX IF NOT EXISTS idx_launch_cores_launch ON launch_cores(launch_id);

CREATE TABLE IF NOT EXISTS payloads (
  id TEXT PRIMARY KEY,
  name TEXT,
  type TEXT,
  reused INTEGER,
  launch_id TEXT NOT NULL REFERENCES launches(id),
  customers_json TEXT,
  manufacturers_json TEXT,
  nationalities_json TEXT,
  norad_ids_json TEXT,
  mass_kg REAL,
  mass_lbs REAL,
  orbit TEXT,
  reference_system TEXT,
  regime TEXT,
  apoapsis_km REAL,
  periapsis_km REAL,
  inclination_deg REAL,
  lifespan_years REAL,
  dragon_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_payloads_launch ON payloads(launch_id);

-- One row per completed load run
CREATE TABLE IF NOT EXISTS load_runs (
  id TEXT PRIMARY KEY,
  started_at DATETIME,
  finished_at DATETIME,
  rockets_loaded INTEGER,
  launches_loaded INTEGER,
  payloads_loaded INTEGER,
  payloads_skipped INTEGER
);
`

// Schema v2 - indexes for the analytical queries
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_launches_year ON launches(year);
CREATE INDEX IF NOT EXISTS idx_launch_cores_core ON launch_cores(core_id);
`

// Package normalize converts raw API records into flat relational rows.
// Every function here is pure and total: malformed or partial input
// degrades to absent column values, never to an error.
package normalize

import (
	"github.com/franz/launchbase/internal/store"
)

// Rocket flattens one rocket record. Physical dimensions live in
// nested objects that may be missing entirely.
func Rocket(rec Record) *store.Rocket {
	height := rec.Obj("height")
	diameter := rec.Obj("diameter")
	mass := rec.Obj("mass")

	return &store.Rocket{
		ID:             rec.Str("id").String,
		Name:           rec.Str("name"),
		Type:           rec.Str("type"),
		Active:         rec.Bool("active"),
		Stages:         rec.Int("stages"),
		Boosters:       rec.Int("boosters"),
		CostPerLaunch:  rec.Int("cost_per_launch"),
		SuccessRatePct: rec.Int("success_rate_pct"),
		FirstFlight:    rec.Str("first_flight"),
		Country:        rec.Str("country"),
		Company:        rec.Str("company"),
		HeightMeters:   height.Float("meters"),
		DiameterMeters: diameter.Float("meters"),
		MassKg:         mass.Float("kg"),
		Description:    rec.Str("description"),
	}
}

// Launch flattens one launch record into its launches row and the
// paired launch_dates row. The decomposed year/month/day fields follow
// the source's declared date precision.
func Launch(rec Record) (*store.Launch, *store.LaunchDate) {
	id := rec.Str("id").String
	fairings := rec.Obj("fairings")

	date := &store.LaunchDate{
		LaunchID:           id,
		DateUTC:            rec.Str("date_utc"),
		DateLocal:          rec.Str("date_local"),
		DatePrecision:      rec.Str("date_precision"),
		StaticFireDateUTC:  rec.Str("static_fire_date_utc"),
		StaticFireDateUnix: rec.Int("static_fire_date_unix"),
	}

	year, month, day := SplitDateParts(date.DateUTC, date.DatePrecision)

	launch := &store.Launch{
		ID:                      id,
		FlightNumber:            rec.Int("flight_number"),
		Name:                    rec.Str("name"),
		Year:                    year,
		Month:                   month,
		Day:                     day,
		DateUnix:                rec.Int("date_unix"),
		DateKey:                 date.LaunchID,
		TBD:                     rec.Bool("tbd"),
		Net:                     rec.Bool("net"),
		Window:                  rec.Int("window"),
		RocketID:                rec.Str("rocket"),
		Success:                 rec.Bool("success"),
		Details:                 rec.Str("details"),
		FairingsReused:          fairings.Bool("reused"),
		FairingsRecoveryAttempt: fairings.Bool("recovery_attempt"),
		FairingsRecovered:       fairings.Bool("recovered"),
		FairingsShipsJSON:       fairings.EncodeArray("ships"),
		FailuresJSON:            rec.EncodeArray("failures"),
		CrewJSON:                rec.EncodeArray("crew"),
		ShipsJSON:               rec.EncodeArray("ships"),
		CapsulesJSON:            rec.EncodeArray("capsules"),
		Launchpad:               rec.Str("launchpad"),
		Upcoming:                rec.Bool("upcoming"),
		// upstream documents auto_update as defaulting to true
		AutoUpdate: rec.BoolDefault("auto_update", true),
	}

	return launch, date
}

// Cores flattens the per-core-use list of a launch record
func Cores(rec Record) []store.LaunchCore {
	launchID := rec.Str("id").String

	var cores []store.LaunchCore
	for _, c := range rec.Objs("cores") {
		cores = append(cores, store.LaunchCore{
			LaunchID:       launchID,
			CoreID:         c.Str("core"),
			Flight:         c.Int("flight"),
			Gridfins:       c.Bool("gridfins"),
			Legs:           c.Bool("legs"),
			Reused:         c.Bool("reused"),
			LandingAttempt: c.Bool("landing_attempt"),
			LandingSuccess: c.Bool("landing_success"),
			LandingType:    c.Str("landing_type"),
			Landpad:        c.Str("landpad"),
		})
	}
	return cores
}

// Payload flattens one payload record. The launch reference is kept as
// a plain string; the loader decides what to do when it is empty or
// dangling.
func Payload(rec Record) *store.Payload {
	return &store.Payload{
		ID:                rec.Str("id").String,
		Name:              rec.Str("name"),
		Type:              rec.Str("type"),
		Reused:            rec.Bool("reused"),
		LaunchID:          rec.Str("launch").String,
		CustomersJSON:     rec.EncodeArray("customers"),
		ManufacturersJSON: rec.EncodeArray("manufacturers"),
		NationalitiesJSON: rec.EncodeArray("nationalities"),
		NoradIDsJSON:      rec.EncodeArray("norad_ids"),
		MassKg:            rec.Float("mass_kg"),
		MassLbs:           rec.Float("mass_lbs"),
		Orbit:             rec.Str("orbit"),
		ReferenceSystem:   rec.Str("reference_system"),
		Regime:            rec.Str("regime"),
		ApoapsisKm:        rec.Float("apoapsis_km"),
		PeriapsisKm:       rec.Float("periapsis_km"),
		InclinationDeg:    rec.Float("inclination_deg"),
		LifespanYears:     rec.Float("lifespan_years"),
		DragonJSON:        rec.EncodeObject("dragon"),
	}
}

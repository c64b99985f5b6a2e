// Package loader sequences the ETL run: fetch, normalize, upsert, in
// parent-before-child order, inside one transaction.
package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/franz/launchbase/internal/normalize"
	"github.com/franz/launchbase/internal/report"
	"github.com/franz/launchbase/internal/store"
	"github.com/franz/launchbase/internal/util"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// Fetcher retrieves the three resource collections from the upstream API
type Fetcher interface {
	FetchAll(ctx context.Context) (rockets, launches, payloads []normalize.Record, err error)
}

// Config holds loader configuration
type Config struct {
	Store        *store.Store
	Fetcher      Fetcher
	Logger       *report.EventLogger
	ShowProgress bool
}

// Loader runs the load pipeline against one store
type Loader struct {
	store        *store.Store
	fetcher      Fetcher
	logger       *report.EventLogger
	showProgress bool
}

// New creates a new Loader
func New(cfg *Config) *Loader {
	return &Loader{
		store:        cfg.Store,
		fetcher:      cfg.Fetcher,
		logger:       cfg.Logger,
		showProgress: cfg.ShowProgress,
	}
}

// SkippedPayload records one payload rejected for a missing or
// dangling launch reference
type SkippedPayload struct {
	PayloadID string
	LaunchID  string
	Reason    string
}

// Summary is the outcome of one load run
type Summary struct {
	RunID           string
	Rockets         int
	Launches        int
	Payloads        int
	PayloadsSkipped int
	Skipped         []SkippedPayload
	FetchDuration   time.Duration
	LoadDuration    time.Duration
}

// Run executes one complete load: fetch the three collections, then
// apply all mutations in dependency order within a single transaction.
// A fetch failure aborts before any mutation; a store failure rolls
// the whole run back.
func (ld *Loader) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	startedAt := time.Now()

	util.InfoLog("Load run %s: fetching rockets, launches, payloads", runID[:8])

	fetchStart := time.Now()
	rockets, launches, payloads, err := ld.fetcher.FetchAll(ctx)
	if err != nil {
		ld.logger.LogError(runID, "fetch", err)
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	fetchDuration := time.Since(fetchStart)

	ld.logger.LogFetch(runID, "rockets", len(rockets), fetchDuration)
	ld.logger.LogFetch(runID, "launches", len(launches), fetchDuration)
	ld.logger.LogFetch(runID, "payloads", len(payloads), fetchDuration)

	util.InfoLog("Fetched %d rockets, %d launches, %d payloads in %v",
		len(rockets), len(launches), len(payloads), fetchDuration.Round(time.Millisecond))

	summary := &Summary{
		RunID:         runID,
		FetchDuration: fetchDuration,
	}

	var bar *progressbar.ProgressBar
	if ld.showProgress && util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(launches),
			progressbar.OptionSetDescription("Loading launches"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	loadStart := time.Now()
	err = ld.store.Transaction(func(tx *sql.Tx) error {
		// Phase 1: rockets have no dependents
		for _, rec := range rockets {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := ld.store.UpsertRocket(tx, normalize.Rocket(rec)); err != nil {
				return err
			}
			summary.Rockets++
		}

		// Phase 2: launches with their date detail and core set. Cores
		// are reconciled in the same pass as the parent so stale rows
		// never outlive a reload.
		for _, rec := range launches {
			if err := ctx.Err(); err != nil {
				return err
			}
			launch, date := normalize.Launch(rec)
			if err := ld.store.UpsertLaunch(tx, launch, date); err != nil {
				return err
			}
			if err := ld.store.ReplaceLaunchCores(tx, launch.ID, normalize.Cores(rec)); err != nil {
				return err
			}
			summary.Launches++
			if bar != nil {
				bar.Add(1)
			}
		}

		// Phase 3: payloads, strictly after every launch has landed
		for _, rec := range payloads {
			if err := ctx.Err(); err != nil {
				return err
			}
			payload := normalize.Payload(rec)
			inserted, err := ld.store.UpsertPayload(tx, payload)
			if err != nil {
				return err
			}
			if inserted {
				summary.Payloads++
				continue
			}

			skip := SkippedPayload{
				PayloadID: payload.ID,
				LaunchID:  payload.LaunchID,
				Reason:    "references missing launch",
			}
			if payload.LaunchID == "" {
				skip.Reason = "empty launch reference"
			}
			summary.Skipped = append(summary.Skipped, skip)
			summary.PayloadsSkipped++

			util.WarnLog("Skipping payload %s: %s %s", payload.ID, skip.Reason, payload.LaunchID)
			ld.logger.LogSkip(runID, payload.ID, payload.LaunchID, skip.Reason)
		}

		return ld.store.RecordLoadRun(tx, &store.LoadRun{
			ID:              runID,
			StartedAt:       startedAt,
			FinishedAt:      time.Now(),
			RocketsLoaded:   summary.Rockets,
			LaunchesLoaded:  summary.Launches,
			PayloadsLoaded:  summary.Payloads,
			PayloadsSkipped: summary.PayloadsSkipped,
		})
	})

	if bar != nil {
		bar.Finish()
	}

	if err != nil {
		ld.logger.LogError(runID, "load", err)
		return nil, fmt.Errorf("load failed, store unchanged: %w", err)
	}

	summary.LoadDuration = time.Since(loadStart)

	ld.logger.LogLoad(runID, "rockets", summary.Rockets, summary.LoadDuration)
	ld.logger.LogLoad(runID, "launches", summary.Launches, summary.LoadDuration)
	ld.logger.LogLoad(runID, "payloads", summary.Payloads, summary.LoadDuration)

	util.SuccessLog("Loaded rockets=%d launches=%d payloads=%d (skipped=%d) in %v",
		summary.Rockets, summary.Launches, summary.Payloads, summary.PayloadsSkipped,
		summary.LoadDuration.Round(time.Millisecond))

	return summary, nil
}

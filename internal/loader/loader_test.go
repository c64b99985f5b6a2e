package loader

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/franz/launchbase/internal/normalize"
	"github.com/franz/launchbase/internal/store"
)

// fakeFetcher serves canned records instead of the live API
type fakeFetcher struct {
	rockets  []normalize.Record
	launches []normalize.Record
	payloads []normalize.Record
	err      error
}

func (f *fakeFetcher) FetchAll(ctx context.Context) ([]normalize.Record, []normalize.Record, []normalize.Record, error) {
	if f.err != nil {
		return nil, nil, nil, f.err
	}
	return f.rockets, f.launches, f.payloads, nil
}

func records(t *testing.T, raw string) []normalize.Record {
	t.Helper()
	var recs []normalize.Record
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return recs
}

func openTestStore(t *testing.T, name string) *store.Store {
	t.Helper()

	t.Cleanup(func() {
		os.Remove(name)
		os.Remove(name + "-shm")
		os.Remove(name + "-wal")
	})

	s, err := store.Open(name)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func snapshotFetcher(t *testing.T) *fakeFetcher {
	return &fakeFetcher{
		rockets: records(t, `[
			{"id": "R1", "name": "Falcon 9", "active": true,
			 "height": {"meters": 70}, "mass": {"kg": 549054}}
		]`),
		launches: records(t, `[
			{"id": "L1", "flight_number": 1, "name": "Demo",
			 "date_utc": "2020-05-30T19:22:00Z", "date_precision": "hour",
			 "date_unix": 1590866520, "rocket": "R1",
			 "success": true, "upcoming": false,
			 "cores": [
			   {"core": "A", "flight": 1, "legs": true},
			   {"core": "B", "flight": 2, "legs": null}
			 ]}
		]`),
		payloads: records(t, `[
			{"id": "P1", "name": "Crew Dragon", "launch": "L1",
			 "customers": ["NASA"], "manufacturers": ["SpaceX"]}
		]`),
	}
}

func rowCounts(t *testing.T, s *store.Store) map[string]int64 {
	t.Helper()
	counts, err := s.TableCounts()
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return counts
}

func TestLoadEndToEnd(t *testing.T) {
	db := openTestStore(t, "test-load-e2e.db")
	ld := New(&Config{Store: db, Fetcher: snapshotFetcher(t)})

	summary, err := ld.Run(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if summary.Rockets != 1 || summary.Launches != 1 || summary.Payloads != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.PayloadsSkipped != 0 {
		t.Errorf("expected 0 skips, got %d", summary.PayloadsSkipped)
	}

	counts := rowCounts(t, db)
	want := map[string]int64{
		"rockets": 1, "launches": 1, "launch_dates": 1, "launch_cores": 2,
		"payloads": 1, "load_runs": 1,
	}
	for table, n := range want {
		if counts[table] != n {
			t.Errorf("expected %d rows in %s, got %d", n, table, counts[table])
		}
	}

	// Tri-state survives the full pipeline: legs null stays unknown
	cores, err := db.GetLaunchCores("L1")
	if err != nil {
		t.Fatalf("get cores failed: %v", err)
	}
	for _, c := range cores {
		switch c.CoreID.String {
		case "A":
			if !c.Legs.Valid || !c.Legs.Bool {
				t.Errorf("expected core A legs true, got %v", c.Legs)
			}
		case "B":
			if c.Legs.Valid {
				t.Errorf("expected core B legs unknown, got %v", c.Legs)
			}
		}
	}
}

func TestLoadSkipsDanglingPayload(t *testing.T) {
	db := openTestStore(t, "test-load-dangling.db")

	fetcher := snapshotFetcher(t)
	fetcher.payloads = records(t, `[
		{"id": "P1", "name": "Crew Dragon", "launch": "no-such-launch"}
	]`)

	ld := New(&Config{Store: db, Fetcher: fetcher})
	summary, err := ld.Run(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if summary.Payloads != 0 {
		t.Errorf("expected 0 payloads loaded, got %d", summary.Payloads)
	}
	if summary.PayloadsSkipped != 1 {
		t.Errorf("expected 1 skip, got %d", summary.PayloadsSkipped)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].PayloadID != "P1" {
		t.Errorf("unexpected skip detail: %+v", summary.Skipped)
	}

	if counts := rowCounts(t, db); counts["payloads"] != 0 {
		t.Errorf("expected no payload rows, got %d", counts["payloads"])
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	db := openTestStore(t, "test-load-idem.db")
	ld := New(&Config{Store: db, Fetcher: snapshotFetcher(t)})

	if _, err := ld.Run(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	first := rowCounts(t, db)
	firstLaunch, err := db.GetLaunch("L1")
	if err != nil {
		t.Fatalf("get launch failed: %v", err)
	}

	if _, err := ld.Run(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	second := rowCounts(t, db)
	secondLaunch, err := db.GetLaunch("L1")
	if err != nil {
		t.Fatalf("get launch failed: %v", err)
	}

	for _, table := range []string{"rockets", "launches", "launch_dates", "launch_cores", "payloads"} {
		if first[table] != second[table] {
			t.Errorf("row count for %s changed across identical loads: %d -> %d",
				table, first[table], second[table])
		}
	}
	// load_runs is bookkeeping and grows by one per run
	if second["load_runs"] != first["load_runs"]+1 {
		t.Errorf("expected one more load run, got %d -> %d", first["load_runs"], second["load_runs"])
	}

	if firstLaunch.FailuresJSON != secondLaunch.FailuresJSON ||
		firstLaunch.CrewJSON != secondLaunch.CrewJSON {
		t.Error("encoded sub-fields changed across identical loads")
	}
}

func TestLoadReconcilesShrunkCoreSet(t *testing.T) {
	db := openTestStore(t, "test-load-shrink.db")

	fetcher := snapshotFetcher(t)
	ld := New(&Config{Store: db, Fetcher: fetcher})
	if _, err := ld.Run(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	// Upstream dropped core B from the launch
	fetcher.launches = records(t, `[
		{"id": "L1", "flight_number": 1, "name": "Demo",
		 "date_utc": "2020-05-30T19:22:00Z", "date_precision": "hour",
		 "date_unix": 1590866520, "rocket": "R1",
		 "success": true, "upcoming": false,
		 "cores": [{"core": "A", "flight": 1, "legs": true}]}
	]`)

	if _, err := ld.Run(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	cores, err := db.GetLaunchCores("L1")
	if err != nil {
		t.Fatalf("get cores failed: %v", err)
	}
	if len(cores) != 1 {
		t.Fatalf("expected exactly 1 core after shrink, got %d", len(cores))
	}
	if cores[0].CoreID.String != "A" {
		t.Errorf("expected core A to remain, got %v", cores[0].CoreID)
	}
}

func TestFetchFailureLeavesStoreUntouched(t *testing.T) {
	db := openTestStore(t, "test-load-fetchfail.db")

	ld := New(&Config{Store: db, Fetcher: &fakeFetcher{err: errors.New("connection refused")}})
	if _, err := ld.Run(context.Background()); err == nil {
		t.Fatal("expected fetch failure to fail the run")
	}

	counts := rowCounts(t, db)
	for table, n := range counts {
		if n != 0 {
			t.Errorf("expected empty %s after failed fetch, got %d rows", table, n)
		}
	}
}

func TestLoadRecordsRun(t *testing.T) {
	db := openTestStore(t, "test-load-runs.db")
	ld := New(&Config{Store: db, Fetcher: snapshotFetcher(t)})

	summary, err := ld.Run(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	runs, err := db.RecentLoadRuns(5)
	if err != nil {
		t.Fatalf("failed to read load runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].ID != summary.RunID {
		t.Errorf("expected run id %s, got %s", summary.RunID, runs[0].ID)
	}
	if runs[0].LaunchesLoaded != 1 || runs[0].PayloadsSkipped != 0 {
		t.Errorf("unexpected run counts: %+v", runs[0])
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/launchbase/internal/store"
	"github.com/franz/launchbase/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show warehouse contents and recent load runs",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")

	info, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("database not found at %s, run 'lbx load' first", dbPath)
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Database: %s (%s)\n", dbPath, humanize.Bytes(uint64(info.Size())))

	if err := db.CheckIntegrity(); err != nil {
		util.ErrorLog("Integrity: %v", err)
	} else {
		fmt.Println("Integrity: ok")
	}

	counts, err := db.TableCounts()
	if err != nil {
		return err
	}

	fmt.Println("\nTable rows:")
	for _, table := range []string{"rockets", "launches", "launch_dates", "launch_cores", "payloads"} {
		fmt.Printf("  %-14s %s\n", table, humanize.Comma(counts[table]))
	}

	runs, err := db.RecentLoadRuns(5)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("\nNo load runs recorded yet.")
		return nil
	}

	fmt.Println("\nRecent load runs:")
	for _, r := range runs {
		fmt.Printf("  %s  %s  rockets=%d launches=%d payloads=%d skipped=%d\n",
			r.ID[:8], r.FinishedAt.Format(time.RFC3339),
			r.RocketsLoaded, r.LaunchesLoaded, r.PayloadsLoaded, r.PayloadsSkipped)
	}

	return nil
}

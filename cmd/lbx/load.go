package main

import (
	"context"
	"fmt"

	"github.com/franz/launchbase/internal/loader"
	"github.com/franz/launchbase/internal/report"
	"github.com/franz/launchbase/internal/spacex"
	"github.com/franz/launchbase/internal/store"
	"github.com/franz/launchbase/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch the SpaceX API and load it into the warehouse",
	Long: `Fetch rockets, launches and payloads from the SpaceX API and load
them into the warehouse in dependency order.

The whole load is one transaction: it either commits completely or
leaves the database untouched. Payloads whose launch reference is
missing or unknown are skipped and counted, never stored.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("api", spacex.BaseURL, "API base URL")
	loadCmd.Flags().String("artifacts", "artifacts", "directory for event logs")
	viper.BindPFlag("api", loadCmd.Flags().Lookup("api"))
	viper.BindPFlag("artifacts", loadCmd.Flags().Lookup("artifacts"))

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dbPath := viper.GetString("db")
	verbose := viper.GetBool("verbose")
	quiet := viper.GetBool("quiet")

	util.SetVerbose(verbose)
	util.SetQuiet(quiet)

	util.InfoLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Create event logger with appropriate log level
	logLevel := report.LevelInfo
	if quiet {
		logLevel = report.LevelWarning
	} else if verbose {
		logLevel = report.LevelDebug
	}

	logger, err := report.NewEventLogger(viper.GetString("artifacts"), logLevel)
	if err != nil {
		util.WarnLog("Failed to create event logger: %v", err)
		logger = report.NullLogger()
	}
	defer logger.Close()

	if logger.Path() != "" {
		util.InfoLog("Event log: %s", logger.Path())
	}

	client := spacex.NewClientWithBaseURL(viper.GetString("api"))

	ld := loader.New(&loader.Config{
		Store:        db,
		Fetcher:      client,
		Logger:       logger,
		ShowProgress: !quiet,
	})

	summary, err := ld.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded rockets=%d, launches=%d, payloads=%d (skipped=%d) into %s\n",
		summary.Rockets, summary.Launches, summary.Payloads, summary.PayloadsSkipped, dbPath)

	if summary.PayloadsSkipped > 0 && !quiet {
		util.InfoLog("Skipped payload details are in the event log")
	}

	util.InfoLog("Next step: lbx report")

	return nil
}

package main

import (
	"fmt"

	"github.com/franz/launchbase/internal/report"
	"github.com/franz/launchbase/internal/store"
	"github.com/franz/launchbase/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the analytical queries over the warehouse",
	Long: `Answer the analytical questions over a loaded warehouse:

1. Launch failure rate by year
2. Average days between flights of the same core
3. Top payload manufacturers
4. Top payload customers

Results are printed as tables and optionally written as Markdown.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("out", "", "write a Markdown report to this path")
	reportCmd.Flags().Int("top", 25, "rows to show in rankings")
	viper.BindPFlag("out", reportCmd.Flags().Lookup("out"))
	viper.BindPFlag("top", reportCmd.Flags().Lookup("top"))

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary, err := report.GenerateSummaryReport(db, dbPath)
	if err != nil {
		return fmt.Errorf("report generation failed: %w", err)
	}

	top := viper.GetInt("top")

	fmt.Println("\n[Q1] Failure rate by year")
	fmt.Println("year | failures | successes | total | failure_rate_pct")
	fmt.Println("------------------------------------------------------------")
	for _, y := range summary.Outcomes {
		fmt.Printf("%d | %d | %d | %d | %.2f\n", y.Year, y.Failures, y.Successes, y.Total, y.FailureRatePct)
	}

	fmt.Println("\n[Q2] Average days between core reuses")
	if summary.AvgCoreReuseDays.Valid {
		fmt.Printf("%.2f\n", summary.AvgCoreReuseDays.Float64)
	} else {
		fmt.Println("n/a (no core has flown twice)")
	}

	printRanking("[Q3] Top payload manufacturers (by payload count)", summary.Manufacturers, top)
	printRanking("[Q4] Top customers (by payload count)", summary.Customers, top)

	if out := viper.GetString("out"); out != "" {
		if err := report.WriteMarkdownReport(summary, out); err != nil {
			return err
		}
		util.SuccessLog("Markdown report written to %s", out)
	}

	return nil
}

func printRanking(title string, ranking []report.NameCount, limit int) {
	fmt.Println("\n" + title)
	fmt.Println("name | payload_count")
	fmt.Println("------------------------------------------------------------")
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	for _, nc := range ranking {
		fmt.Printf("%s | %d\n", nc.Name, nc.Payloads)
	}
}

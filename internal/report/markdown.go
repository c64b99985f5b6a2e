package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/franz/launchbase/internal/store"
)

// SummaryReport represents a complete analytics report over the warehouse
type SummaryReport struct {
	GeneratedAt time.Time

	// Warehouse state
	Counts map[string]int64

	// Query results
	Outcomes         []YearOutcome
	AvgCoreReuseDays sql.NullFloat64
	Manufacturers    []NameCount
	Customers        []NameCount

	// Metadata
	DatabasePath string
}

// GenerateSummaryReport runs all analytics queries and collects the results
func GenerateSummaryReport(db *store.Store, dbPath string) (*SummaryReport, error) {
	report := &SummaryReport{
		GeneratedAt:  time.Now(),
		DatabasePath: dbPath,
	}

	counts, err := db.TableCounts()
	if err != nil {
		return nil, err
	}
	report.Counts = counts

	if report.Outcomes, err = FailureRateByYear(db); err != nil {
		return nil, err
	}
	if report.AvgCoreReuseDays, err = AvgDaysBetweenCoreReuses(db); err != nil {
		return nil, err
	}
	if report.Manufacturers, err = TopManufacturers(db); err != nil {
		return nil, err
	}
	if report.Customers, err = TopCustomers(db); err != nil {
		return nil, err
	}

	return report, nil
}

// WriteMarkdownReport writes the summary report as Markdown
func WriteMarkdownReport(report *SummaryReport, outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var md strings.Builder

	md.WriteString("# Launch Warehouse - Analytics Report\n\n")
	md.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	if report.DatabasePath != "" {
		md.WriteString(fmt.Sprintf("**Database:** `%s`\n\n", report.DatabasePath))
	}
	md.WriteString("---\n\n")

	// Overview
	md.WriteString("## Warehouse Contents\n\n")
	md.WriteString("| Table | Rows |\n")
	md.WriteString("|-------|------|\n")
	for _, table := range []string{"rockets", "launches", "launch_dates", "launch_cores", "payloads"} {
		md.WriteString(fmt.Sprintf("| %s | %s |\n", table, humanize.Comma(report.Counts[table])))
	}
	md.WriteString("\n")

	// Failure rate by year
	if len(report.Outcomes) > 0 {
		md.WriteString("## Failure Rate by Year\n\n")
		md.WriteString("| Year | Failures | Successes | Total | Failure Rate |\n")
		md.WriteString("|------|----------|-----------|-------|--------------|\n")
		for _, y := range report.Outcomes {
			md.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %.2f%% |\n",
				y.Year, y.Failures, y.Successes, y.Total, y.FailureRatePct))
		}
		md.WriteString("\n")
	}

	// Core reuse cadence
	md.WriteString("## Core Reuse Cadence\n\n")
	if report.AvgCoreReuseDays.Valid {
		md.WriteString(fmt.Sprintf("Average days between flights of the same core: **%.2f**\n\n",
			report.AvgCoreReuseDays.Float64))
	} else {
		md.WriteString("No core has flown more than once yet.\n\n")
	}

	writeRanking(&md, "Top Payload Manufacturers", report.Manufacturers, 25)
	writeRanking(&md, "Top Payload Customers", report.Customers, 25)

	md.WriteString("---\n\n")
	md.WriteString("*Generated by [launchbase](https://github.com/franz/launchbase)*\n")

	if err := os.WriteFile(outputPath, []byte(md.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func writeRanking(md *strings.Builder, title string, ranking []NameCount, limit int) {
	if len(ranking) == 0 {
		return
	}
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}

	md.WriteString(fmt.Sprintf("## %s\n\n", title))
	md.WriteString("| Name | Payloads |\n")
	md.WriteString("|------|----------|\n")
	for _, nc := range ranking {
		md.WriteString(fmt.Sprintf("| %s | %d |\n", nc.Name, nc.Payloads))
	}
	md.WriteString("\n")
}

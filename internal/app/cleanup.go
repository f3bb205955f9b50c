package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cleaner"
	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
	"github.com/ikki-dali/hojokin-cleaner/internal/logging"
)

func runCleanup(args []string) int {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Minute, "Command timeout")
	dryRun := fs.Bool("dry-run", false, "Compute and report the plan without applying it")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "cleanup does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, cfg, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	runID, err := pool.StartCleanupRun(ctx, *dryRun)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start cleanup run")
		fmt.Fprintf(os.Stderr, "Failed to start cleanup run: %v\n", err)
		return 1
	}

	svc := cleaner.NewService(pool, pool, logger)
	report, runErr := svc.Run(ctx, *dryRun)

	if finishErr := pool.FinishCleanupRun(ctx, runID, report, runErr); finishErr != nil {
		logger.Error().Err(finishErr).Int64("run_id", runID).Msg("failed to finish cleanup run")
	}

	if runErr != nil {
		// A run that could not load its snapshot must not pretend the corpus
		// is clean.
		logger.Error().Err(runErr).Int64("run_id", runID).Msg("cleanup failed")
		fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", runErr)
		return 1
	}

	logger.Info().
		Int64("run_id", runID).
		Bool("dry_run", report.DryRun).
		Int("deleted", report.RecordsDeleted).
		Int("updated", report.RecordsUpdated).
		Int("failed", len(report.FailedIDs)).
		Msg("cleanup completed")

	if outputFormat == outputFormatJSON {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	if err := printCleanupReport(report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render report: %v\n", err)
		return 1
	}
	return 0
}

func printCleanupReport(report cleaner.Report) error {
	rows := [][]string{
		{"dry_run", strconv.FormatBool(report.DryRun)},
		{"records_loaded", strconv.Itoa(report.RecordsLoaded)},
		{"skipped_titles", strconv.Itoa(report.SkippedTitles)},
		{"junk_detected", strconv.Itoa(report.JunkDetected)},
		{"clusters_found", strconv.Itoa(report.ClustersFound)},
		{"records_deleted", strconv.Itoa(report.RecordsDeleted)},
		{"records_updated", strconv.Itoa(report.RecordsUpdated)},
		{"failed_ids", formatIDList(report.FailedIDs)},
	}
	return writeTable([]string{"metric", "value"}, rows)
}

func formatIDList(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

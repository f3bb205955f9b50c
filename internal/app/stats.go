package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, _, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	stats, err := pool.QueryCorpusStats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query corpus stats: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(stats); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := [][]string{
		{"sample", strconv.FormatInt(stats.Sample, 10)},
		{"jnet21", strconv.FormatInt(stats.JNet21, 10)},
		{"jgrants", strconv.FormatInt(stats.JGrants, 10)},
		{"other", strconv.FormatInt(stats.Other, 10)},
		{"TOTAL", strconv.FormatInt(stats.Total, 10)},
		{"soft_deleted", strconv.FormatInt(stats.SoftDeleted, 10)},
	}
	if err := writeTable([]string{"source", "records"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render stats table: %v\n", err)
		return 1
	}
	return 0
}

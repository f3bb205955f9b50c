package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
	"github.com/ikki-dali/hojokin-cleaner/internal/db"
)

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	query := fs.String("query", "", "Title substring filter (case-insensitive)")
	limit := fs.Int("limit", 50, "Maximum rows to return")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list does not accept positional arguments")
		return 2
	}
	if *limit <= 0 || *limit > 1000 {
		fmt.Fprintln(os.Stderr, "--limit must be between 1 and 1000")
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

	summaries, err := pool.ListRecords(ctx, *query, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list records: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if summaries == nil {
			summaries = []db.RecordSummary{}
		}
		if err := printJSON(summaries); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.ExternalID,
			s.Title,
			derefOrDash(s.StartDate),
			derefOrDash(s.EndDate),
			s.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := writeTable([]string{"id", "external_id", "title", "start", "end", "created_at"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render record table: %v\n", err)
		return 1
	}
	return 0
}

func derefOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

package app

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
	"github.com/ikki-dali/hojokin-cleaner/internal/globaltime"
)

// runDelete soft-deletes a single record by id. The batch cleanup pass has
// its own path; this is the manual escape hatch for one bad row.
func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	dryRun := fs.Bool("dry-run", false, "Preview affected rows without applying changes")
	force := fs.Bool("force", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "delete requires one record id")
		printDeleteUsage()
		return 2
	}

	recordID, err := parseRecordIDArgument(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid record id: %v\n", err)
		return 2
	}

	if !*dryRun && !*force {
		ok, err := confirmDangerousAction(fmt.Sprintf("Proceed with delete of record %d?", recordID))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read confirmation: %v\n", err)
			return 1
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return 1
		}
	}

	ctx, cancel, _, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	if *dryRun {
		count, err := pool.CountLiveRecord(ctx, recordID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to preview delete: %v\n", err)
			return 1
		}
		fmt.Printf("dry_run=true records_affected=%d\n", count)
		return 0
	}

	affected, err := pool.SoftDeleteRecord(ctx, recordID, globaltime.UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to soft delete record: %v\n", err)
		return 1
	}
	fmt.Printf("records_affected=%d\n", affected)
	return 0
}

func parseRecordIDArgument(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("record id is required")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return id, nil
}

func confirmDangerousAction(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", strings.TrimSpace(prompt))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func printDeleteUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hojokin-cleaner delete <record_id> [--dry-run] [--force] [--env .env] [--timeout 30s]")
}

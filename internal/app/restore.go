package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
	"github.com/ikki-dali/hojokin-cleaner/internal/globaltime"
)

// runRestore brings back a soft-deleted record, undoing a manual delete or
// one row of a cleanup pass.
func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
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
		fmt.Fprintln(os.Stderr, "restore requires one record id")
		printRestoreUsage()
		return 2
	}

	recordID, err := parseRecordIDArgument(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid record id: %v\n", err)
		return 2
	}

	if !*dryRun && !*force {
		ok, err := confirmDangerousAction(fmt.Sprintf("Proceed with restore of record %d?", recordID))
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
		count, err := pool.CountDeletedRecord(ctx, recordID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to preview restore: %v\n", err)
			return 1
		}
		fmt.Printf("dry_run=true records_affected=%d\n", count)
		return 0
	}

	affected, err := pool.RestoreRecord(ctx, recordID, globaltime.UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to restore record: %v\n", err)
		return 1
	}
	fmt.Printf("records_affected=%d\n", affected)
	return 0
}

func printRestoreUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hojokin-cleaner restore <record_id> [--dry-run] [--force] [--env .env] [--timeout 30s]")
}

package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "cleanup":
		return runCleanup(args[1:])
	case "stats":
		return runStats(args[1:])
	case "list":
		return runList(args[1:])
	case "clusters":
		return runClusters(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "restore":
		return runRestore(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "serve":
		return runServe(args[1:])
	case "hash-password":
		return runHashPassword(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "hojokin-cleaner CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hojokin-cleaner <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health         Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  cleanup        Run the data-quality pass (junk, duplicates, field normalization)")
	fmt.Fprintln(os.Stderr, "  stats          Show corpus counts by source provenance")
	fmt.Fprintln(os.Stderr, "  list           List live records, optionally filtered by title")
	fmt.Fprintln(os.Stderr, "  clusters       Preview the duplicate groups a cleanup pass would see")
	fmt.Fprintln(os.Stderr, "  delete         Soft-delete one record by id")
	fmt.Fprintln(os.Stderr, "  restore        Restore one soft-deleted record by id")
	fmt.Fprintln(os.Stderr, "  validate       Validate subsidy record JSON files against the v1 schema")
	fmt.Fprintln(os.Stderr, "  ingest         Insert one validated record JSON file into the store")
	fmt.Fprintln(os.Stderr, "  serve          Start the ops API server")
	fmt.Fprintln(os.Stderr, "  hash-password  Emit a bcrypt hash for the ops API credentials")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"hojokin-cleaner <command> -h\" for command-specific flags.")
}

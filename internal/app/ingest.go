package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
	"github.com/ikki-dali/hojokin-cleaner/internal/db"
	payloadschema "github.com/ikki-dali/hojokin-cleaner/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	file := fs.String("file", "-", "Path to a record JSON file, or - for stdin")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "ingest does not accept positional arguments")
		return 2
	}

	raw, err := readPayload(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read payload: %v\n", err)
		return 1
	}

	record, err := payloadschema.ValidateSubsidyRecordPayload(json.RawMessage(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Payload validation failed: %v\n", err)
		return 1
	}

	ctx, cancel, _, pool, err := connectPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	recordID, err := pool.InsertRecord(ctx, db.RecordInput{
		ExternalID:  record.ExternalID,
		Title:       record.Title,
		Description: record.Description,
		MaxAmount:   record.MaxAmount,
		SubsidyRate: record.SubsidyRate,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		TargetArea:  record.TargetArea,
		Industry:    record.Industry,
		CatchPhrase: record.CatchPhrase,
		FrontURL:    record.FrontURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to insert record: %v\n", err)
		return 1
	}

	fmt.Printf("ingest record_id=%d external_id=%s\n", recordID, record.ExternalID)
	return 0
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

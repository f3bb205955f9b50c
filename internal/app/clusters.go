package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ikki-dali/hojokin-cleaner/internal/cleaner"
	"github.com/ikki-dali/hojokin-cleaner/internal/cli"
)

type clusterView struct {
	Anchor  string              `json:"anchor"`
	Members []clusterMemberView `json:"members"`
}

type clusterMemberView struct {
	ID         int64  `json:"record_id"`
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
	Score      int    `json:"score"`
}

// runClusters previews the duplicate groups a cleanup pass would act on,
// without planning any deletions. Junk titles are filtered first so the
// grouping matches what cleanup sees.
func runClusters(args []string) int {
	fs := flag.NewFlagSet("clusters", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clusters does not accept positional arguments")
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

	records, err := pool.LoadAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load records: %v\n", err)
		return 1
	}

	views := duplicateClusterViews(records)

	if outputFormat == outputFormatJSON {
		if err := printJSON(views); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	if len(views) == 0 {
		fmt.Println("no duplicate clusters")
		return 0
	}

	var rows [][]string
	for i, view := range views {
		for _, member := range view.Members {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.FormatInt(member.ID, 10),
				member.ExternalID,
				strconv.Itoa(member.Score),
				member.Title,
			})
		}
	}
	if err := writeTable([]string{"cluster", "id", "external_id", "score", "title"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render cluster table: %v\n", err)
		return 1
	}
	return 0
}

func duplicateClusterViews(records []cleaner.Record) []clusterView {
	classifier := cleaner.NewDefaultClassifier()
	scorer := cleaner.NewDefaultScorer()

	survivors := make([]cleaner.Record, 0, len(records))
	for _, rec := range records {
		if rec.Title == "" || classifier.IsJunk(rec.Title) {
			continue
		}
		survivors = append(survivors, rec)
	}

	views := []clusterView{}
	for _, cluster := range cleaner.BuildClusters(survivors) {
		if len(cluster.Members) < 2 {
			continue
		}

		view := clusterView{Anchor: cluster.Anchor().Title}
		for _, member := range cluster.Members {
			view.Members = append(view.Members, clusterMemberView{
				ID:         member.ID,
				ExternalID: member.ExternalID,
				Title:      member.Title,
				Score:      scorer.Score(member),
			})
		}
		views = append(views, view)
	}
	return views
}

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ikki-dali/hojokin-cleaner/internal/cleaner"
	"github.com/ikki-dali/hojokin-cleaner/internal/globaltime"
)

// LoadAll returns the live record snapshot, most recent first. Implements
// cleaner.Loader.
func (p *Pool) LoadAll(ctx context.Context) ([]cleaner.Record, error) {
	const q = `
SELECT
	record_id,
	external_id,
	title,
	COALESCE(description, ''),
	max_amount,
	subsidy_rate,
	start_date,
	end_date,
	target_area,
	industry,
	catch_phrase,
	front_url,
	created_at
FROM subsidy.records
WHERE deleted_at IS NULL
ORDER BY created_at DESC, record_id DESC
`
	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query record snapshot: %w", err)
	}
	defer rows.Close()

	var records []cleaner.Record
	for rows.Next() {
		var (
			rec          cleaner.Record
			targetAreaJS []byte
			industryJS   []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.ExternalID,
			&rec.Title,
			&rec.Description,
			&rec.MaxAmount,
			&rec.SubsidyRate,
			&rec.StartDate,
			&rec.EndDate,
			&targetAreaJS,
			&industryJS,
			&rec.CatchPhrase,
			&rec.FrontURL,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}

		rec.TargetArea, err = decodeStringArray(targetAreaJS)
		if err != nil {
			return nil, fmt.Errorf("decode target_area for record %d: %w", rec.ID, err)
		}
		rec.Industry, err = decodeStringArray(industryJS)
		if err != nil {
			return nil, fmt.Errorf("decode industry for record %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record snapshot: %w", err)
	}

	return records, nil
}

// Delete soft-deletes the planned ids one at a time. Implements
// cleaner.Executor. A failed id is recorded and never aborts the rest of the
// batch. Dry-run validates the plan shape only and mutates nothing.
func (p *Pool) Delete(ctx context.Context, ids []int64, dryRun bool) (cleaner.ExecResult, error) {
	result := cleaner.ExecResult{}
	now := globaltime.UTC()

	for _, id := range ids {
		if id <= 0 {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  id,
				Err: fmt.Errorf("invalid record id"),
			})
			continue
		}
		if dryRun {
			result.Applied++
			continue
		}

		const q = `
UPDATE subsidy.records
SET
	deleted_at = $2,
	updated_at = $2
WHERE record_id = $1
  AND deleted_at IS NULL
`
		tag, err := p.Exec(ctx, q, id, now)
		if err != nil {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  id,
				Err: fmt.Errorf("soft delete record: %w", err),
			})
			continue
		}
		if tag.RowsAffected() == 0 {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  id,
				Err: fmt.Errorf("record not found or already deleted"),
			})
			continue
		}
		result.Applied++
	}

	return result, nil
}

// Update applies queued field normalizations. Implements cleaner.Executor.
// Each record's update is a single statement, so it applies atomically or
// fails as a whole for that id.
func (p *Pool) Update(ctx context.Context, ops []cleaner.FieldUpdate, dryRun bool) (cleaner.ExecResult, error) {
	result := cleaner.ExecResult{}
	now := globaltime.UTC()

	for _, op := range ops {
		if op.ID <= 0 {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  op.ID,
				Err: fmt.Errorf("invalid record id"),
			})
			continue
		}
		if !op.SetTargetArea && !op.ClearStartDate && !op.ClearEndDate {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  op.ID,
				Err: fmt.Errorf("update has no fields to change"),
			})
			continue
		}
		if dryRun {
			result.Applied++
			continue
		}

		setParts := []string{"updated_at = $2"}
		args := []any{op.ID, now}
		if op.SetTargetArea {
			encoded, err := json.Marshal(op.TargetArea)
			if err != nil {
				result.Errors = append(result.Errors, cleaner.ExecError{
					ID:  op.ID,
					Err: fmt.Errorf("encode target_area: %w", err),
				})
				continue
			}
			args = append(args, string(encoded))
			setParts = append(setParts, fmt.Sprintf("target_area = $%d::jsonb", len(args)))
		}
		if op.ClearStartDate {
			setParts = append(setParts, "start_date = NULL")
		}
		if op.ClearEndDate {
			setParts = append(setParts, "end_date = NULL")
		}

		q := fmt.Sprintf(`
UPDATE subsidy.records
SET
	%s
WHERE record_id = $1
  AND deleted_at IS NULL
`, strings.Join(setParts, ",\n\t"))

		tag, err := p.Exec(ctx, q, args...)
		if err != nil {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  op.ID,
				Err: fmt.Errorf("update record fields: %w", err),
			})
			continue
		}
		if tag.RowsAffected() == 0 {
			result.Errors = append(result.Errors, cleaner.ExecError{
				ID:  op.ID,
				Err: fmt.Errorf("record not found or already deleted"),
			})
			continue
		}
		result.Applied++
	}

	return result, nil
}

// RecordInput is one validated payload to insert via the ingest command.
type RecordInput struct {
	ExternalID  string
	Title       string
	Description *string
	MaxAmount   *int64
	SubsidyRate *string
	StartDate   *string
	EndDate     *string
	TargetArea  []string
	Industry    []string
	CatchPhrase *string
	FrontURL    *string
}

func (p *Pool) InsertRecord(ctx context.Context, input RecordInput) (int64, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return 0, fmt.Errorf("external_id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return 0, fmt.Errorf("title is required")
	}

	targetAreaJS, err := json.Marshal(emptyIfNil(input.TargetArea))
	if err != nil {
		return 0, fmt.Errorf("encode target_area: %w", err)
	}
	industryJS, err := json.Marshal(emptyIfNil(input.Industry))
	if err != nil {
		return 0, fmt.Errorf("encode industry: %w", err)
	}

	now := globaltime.UTC()

	const q = `
INSERT INTO subsidy.records (
	external_id,
	title,
	description,
	max_amount,
	subsidy_rate,
	start_date,
	end_date,
	target_area,
	industry,
	catch_phrase,
	front_url,
	created_at,
	updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11, $12, $12)
RETURNING record_id
`
	var recordID int64
	row := p.QueryRow(ctx, q,
		externalID,
		strings.TrimSpace(input.Title),
		input.Description,
		input.MaxAmount,
		input.SubsidyRate,
		input.StartDate,
		input.EndDate,
		string(targetAreaJS),
		string(industryJS),
		input.CatchPhrase,
		input.FrontURL,
		now,
	)
	if err := row.Scan(&recordID); err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	return recordID, nil
}

// CorpusStats summarizes the live corpus by source provenance.
type CorpusStats struct {
	Total       int64 `json:"total"`
	Sample      int64 `json:"sample"`
	JNet21      int64 `json:"jnet21"`
	JGrants     int64 `json:"jgrants"`
	Other       int64 `json:"other"`
	SoftDeleted int64 `json:"soft_deleted"`
}

func (p *Pool) QueryCorpusStats(ctx context.Context) (CorpusStats, error) {
	const q = `
SELECT
	COUNT(*) FILTER (WHERE deleted_at IS NULL),
	COUNT(*) FILTER (WHERE deleted_at IS NULL AND external_id LIKE 'sample:%'),
	COUNT(*) FILTER (WHERE deleted_at IS NULL AND external_id LIKE 'jnet21:%'),
	COUNT(*) FILTER (WHERE deleted_at IS NULL AND external_id ~ '^[0-9A-Za-z]+$'),
	COUNT(*) FILTER (WHERE deleted_at IS NOT NULL)
FROM subsidy.records
`
	var stats CorpusStats
	row := p.QueryRow(ctx, q)
	if err := row.Scan(
		&stats.Total,
		&stats.Sample,
		&stats.JNet21,
		&stats.JGrants,
		&stats.SoftDeleted,
	); err != nil {
		return CorpusStats{}, fmt.Errorf("query corpus stats: %w", err)
	}
	stats.Other = stats.Total - stats.Sample - stats.JNet21 - stats.JGrants
	return stats, nil
}

// StartCleanupRun opens an audit row for one pipeline pass.
func (p *Pool) StartCleanupRun(ctx context.Context, dryRun bool) (int64, error) {
	const q = `
INSERT INTO subsidy.cleanup_runs (dry_run, status, started_at, created_at)
VALUES ($1, 'running', $2, $2)
RETURNING run_id
`
	now := globaltime.UTC()
	var runID int64
	if err := p.QueryRow(ctx, q, dryRun, now).Scan(&runID); err != nil {
		return 0, fmt.Errorf("start cleanup run: %w", err)
	}
	return runID, nil
}

// FinishCleanupRun closes the audit row with the final report.
func (p *Pool) FinishCleanupRun(ctx context.Context, runID int64, report cleaner.Report, runErr error) error {
	status := "succeeded"
	var errorMessage *string
	if runErr != nil {
		status = "failed"
		msg := runErr.Error()
		errorMessage = &msg
	}

	const q = `
UPDATE subsidy.cleanup_runs
SET
	status = $2,
	records_loaded = $3,
	junk_detected = $4,
	clusters_found = $5,
	records_deleted = $6,
	records_updated = $7,
	failed_count = $8,
	error_message = $9,
	finished_at = $10
WHERE run_id = $1
`
	now := globaltime.UTC()
	tag, err := p.Exec(ctx, q,
		runID,
		status,
		report.RecordsLoaded,
		report.JunkDetected,
		report.ClustersFound,
		report.RecordsDeleted,
		report.RecordsUpdated,
		len(report.FailedIDs),
		errorMessage,
		now,
	)
	if err != nil {
		return fmt.Errorf("finish cleanup run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cleanup run %d not found", runID)
	}
	return nil
}

func decodeStringArray(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SoftDeleteRecord marks one record deleted. Used by the manual delete
// command; the pipeline has its own batch path.
func (p *Pool) SoftDeleteRecord(ctx context.Context, recordID int64, now time.Time) (int64, error) {
	if recordID <= 0 {
		return 0, fmt.Errorf("record id is required")
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const q = `
UPDATE subsidy.records
SET
	deleted_at = $2,
	updated_at = $2
WHERE record_id = $1
  AND deleted_at IS NULL
`
	tag, err := tx.Exec(ctx, q, recordID, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("soft delete record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return tag.RowsAffected(), nil
}

// RestoreRecord clears the deletion mark, undoing a manual delete or one
// record of a cleanup pass.
func (p *Pool) RestoreRecord(ctx context.Context, recordID int64, now time.Time) (int64, error) {
	if recordID <= 0 {
		return 0, fmt.Errorf("record id is required")
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const q = `
UPDATE subsidy.records
SET
	deleted_at = NULL,
	updated_at = $2
WHERE record_id = $1
  AND deleted_at IS NOT NULL
`
	tag, err := tx.Exec(ctx, q, recordID, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("restore record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return tag.RowsAffected(), nil
}

// CountLiveRecord reports whether the id currently points at a live row.
func (p *Pool) CountLiveRecord(ctx context.Context, recordID int64) (int64, error) {
	const q = `
SELECT COUNT(*)
FROM subsidy.records
WHERE record_id = $1
  AND deleted_at IS NULL
`
	var count int64
	if err := p.QueryRow(ctx, q, recordID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountDeletedRecord reports whether the id points at a soft-deleted row.
func (p *Pool) CountDeletedRecord(ctx context.Context, recordID int64) (int64, error) {
	const q = `
SELECT COUNT(*)
FROM subsidy.records
WHERE record_id = $1
  AND deleted_at IS NOT NULL
`
	var count int64
	if err := p.QueryRow(ctx, q, recordID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RecordSummary is one row of the operator-facing record listing.
type RecordSummary struct {
	ID         int64     `json:"record_id"`
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	StartDate  *string   `json:"start_date,omitempty"`
	EndDate    *string   `json:"end_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListRecords returns live records, newest first, optionally filtered by a
// case-insensitive title substring.
func (p *Pool) ListRecords(ctx context.Context, titleQuery string, limit int) ([]RecordSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	q := `
SELECT
	record_id,
	external_id,
	title,
	start_date,
	end_date,
	created_at
FROM subsidy.records
WHERE deleted_at IS NULL
`
	args := []any{}
	if trimmed := strings.TrimSpace(titleQuery); trimmed != "" {
		args = append(args, "%"+trimmed+"%")
		q += fmt.Sprintf("  AND title ILIKE $%d\n", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf("ORDER BY created_at DESC, record_id DESC\nLIMIT $%d\n", len(args))

	rows, err := p.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query record listing: %w", err)
	}
	defer rows.Close()

	var summaries []RecordSummary
	for rows.Next() {
		var s RecordSummary
		if err := rows.Scan(&s.ID, &s.ExternalID, &s.Title, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record listing row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record listing: %w", err)
	}

	return summaries, nil
}

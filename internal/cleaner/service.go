package cleaner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Loader supplies the full current record snapshot. A failed load is fatal
// for the run: proceeding with a partial snapshot would misread the missing
// corpus as already clean.
type Loader interface {
	LoadAll(ctx context.Context) ([]Record, error)
}

// ExecError is one record's failed delete or update.
type ExecError struct {
	ID  int64
	Err error
}

// ExecResult aggregates one executor call. Per-id failures never abort the
// remainder of the batch.
type ExecResult struct {
	Applied int
	Errors  []ExecError
}

// Executor applies the plan to the store. With dryRun set it must not mutate
// anything and reports the would-be counts from the plan shape alone.
type Executor interface {
	Delete(ctx context.Context, ids []int64, dryRun bool) (ExecResult, error)
	Update(ctx context.Context, ops []FieldUpdate, dryRun bool) (ExecResult, error)
}

// Report is the operator-facing summary of one pass, printed regardless of
// dry-run mode.
type Report struct {
	DryRun         bool    `json:"dry_run"`
	RecordsLoaded  int     `json:"records_loaded"`
	SkippedTitles  int     `json:"skipped_titles"`
	JunkDetected   int     `json:"junk_detected"`
	ClustersFound  int     `json:"clusters_found"`
	RecordsDeleted int     `json:"records_deleted"`
	RecordsUpdated int     `json:"records_updated"`
	FailedIDs      []int64 `json:"failed_ids,omitempty"`
}

type Service struct {
	loader   Loader
	executor Executor
	planner  *Planner
	logger   zerolog.Logger
}

func NewService(loader Loader, executor Executor, logger zerolog.Logger) *Service {
	return &Service{
		loader:   loader,
		executor: executor,
		planner:  NewDefaultPlanner(),
		logger:   logger,
	}
}

// WithPlanner swaps in an alternate planner (injected rule tables for tests).
func (s *Service) WithPlanner(planner *Planner) *Service {
	s.planner = planner
	return s
}

// Run executes one full batch pass: load, plan, apply. The returned error is
// non-nil only when no snapshot could be obtained or the service is
// miswired; executor failures are carried per-id in the report.
func (s *Service) Run(ctx context.Context, dryRun bool) (Report, error) {
	if s == nil || s.loader == nil || s.executor == nil {
		return Report{}, fmt.Errorf("cleaner service is not initialized")
	}

	records, err := s.loader.LoadAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load record snapshot: %w", err)
	}

	plan := s.planner.BuildPlan(records)
	s.logger.Info().
		Int("records", len(records)).
		Int("junk", plan.JunkDetected).
		Int("clusters", plan.ClustersFound).
		Int("deletes", len(plan.DeleteIDs)).
		Int("updates", len(plan.Updates)).
		Bool("dry_run", dryRun).
		Msg("cleanup plan computed")

	report := Report{
		DryRun:        dryRun,
		RecordsLoaded: len(records),
		SkippedTitles: plan.SkippedTitles,
		JunkDetected:  plan.JunkDetected,
		ClustersFound: plan.ClustersFound,
	}

	deleteResult, err := s.executor.Delete(ctx, plan.DeleteIDs, dryRun)
	if err != nil {
		return report, fmt.Errorf("apply deletions: %w", err)
	}
	report.RecordsDeleted = deleteResult.Applied
	for _, execErr := range deleteResult.Errors {
		report.FailedIDs = append(report.FailedIDs, execErr.ID)
		s.logger.Error().Err(execErr.Err).Int64("record_id", execErr.ID).Msg("delete failed")
	}

	updateResult, err := s.executor.Update(ctx, plan.Updates, dryRun)
	if err != nil {
		return report, fmt.Errorf("apply updates: %w", err)
	}
	report.RecordsUpdated = updateResult.Applied
	for _, execErr := range updateResult.Errors {
		report.FailedIDs = append(report.FailedIDs, execErr.ID)
		s.logger.Error().Err(execErr.Err).Int64("record_id", execErr.ID).Msg("update failed")
	}

	return report, nil
}

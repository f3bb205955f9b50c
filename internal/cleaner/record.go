package cleaner

import "time"

// Record is one subsidy entry as loaded from the store. The pipeline never
// mutates a Record; all changes go through the plan.
type Record struct {
	ID          int64
	ExternalID  string
	Title       string
	Description string
	MaxAmount   *int64
	SubsidyRate *string
	StartDate   *string
	EndDate     *string
	TargetArea  []string
	Industry    []string
	CatchPhrase *string
	FrontURL    *string
	CreatedAt   time.Time
}

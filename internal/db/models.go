package db

import (
	"encoding/json"
	"time"
)

// SubsidyRecord maps subsidy.records. TargetArea and Industry are stored as
// jsonb string arrays; external_id carries source provenance as a prefix
// convention and is never parsed beyond that.
type SubsidyRecord struct {
	RecordID    int64           `gorm:"column:record_id;primaryKey;autoIncrement"`
	ExternalID  string          `gorm:"column:external_id;type:text;not null"`
	Title       string          `gorm:"column:title;type:text;not null;default:''"`
	Description *string         `gorm:"column:description;type:text"`
	MaxAmount   *int64          `gorm:"column:max_amount;type:bigint"`
	SubsidyRate *string         `gorm:"column:subsidy_rate;type:text"`
	StartDate   *string         `gorm:"column:start_date;type:text"`
	EndDate     *string         `gorm:"column:end_date;type:text"`
	TargetArea  json.RawMessage `gorm:"column:target_area;type:jsonb"`
	Industry    json.RawMessage `gorm:"column:industry;type:jsonb"`
	CatchPhrase *string         `gorm:"column:catch_phrase;type:text"`
	FrontURL    *string         `gorm:"column:front_url;type:text"`
	DeletedAt   *time.Time      `gorm:"column:deleted_at;type:timestamptz"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;type:timestamptz;not null;default:now()"`
}

func (SubsidyRecord) TableName() string { return "subsidy.records" }

// CleanupRun maps subsidy.cleanup_runs, the audit trail of pipeline passes.
type CleanupRun struct {
	RunID          int64      `gorm:"column:run_id;primaryKey;autoIncrement"`
	DryRun         bool       `gorm:"column:dry_run;not null;default:false"`
	Status         string     `gorm:"column:status;type:text;not null;default:running"`
	RecordsLoaded  int        `gorm:"column:records_loaded;type:integer;not null;default:0"`
	JunkDetected   int        `gorm:"column:junk_detected;type:integer;not null;default:0"`
	ClustersFound  int        `gorm:"column:clusters_found;type:integer;not null;default:0"`
	RecordsDeleted int        `gorm:"column:records_deleted;type:integer;not null;default:0"`
	RecordsUpdated int        `gorm:"column:records_updated;type:integer;not null;default:0"`
	FailedCount    int        `gorm:"column:failed_count;type:integer;not null;default:0"`
	ErrorMessage   *string    `gorm:"column:error_message;type:text"`
	StartedAt      time.Time  `gorm:"column:started_at;type:timestamptz;not null;default:now()"`
	FinishedAt     *time.Time `gorm:"column:finished_at;type:timestamptz"`
	CreatedAt      time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (CleanupRun) TableName() string { return "subsidy.cleanup_runs" }

func autoMigrateModels() []any {
	return []any{
		&SubsidyRecord{},
		&CleanupRun{},
	}
}

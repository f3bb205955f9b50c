package payloadschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed subsidy_record.schema.json
var subsidyRecordSchemaJSON string

// SubsidyRecord is a validated v1 connector payload. Date fields stay raw
// strings here: malformed dates are the cleanup pipeline's concern, not a
// reason to reject ingest.
type SubsidyRecord struct {
	PayloadVersion string   `json:"payload_version"`
	ExternalID     string   `json:"external_id"`
	Title          string   `json:"title"`
	Description    *string  `json:"description,omitempty"`
	MaxAmount      *int64   `json:"max_amount,omitempty"`
	SubsidyRate    *string  `json:"subsidy_rate,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	TargetArea     []string `json:"target_area,omitempty"`
	Industry       []string `json:"industry,omitempty"`
	CatchPhrase    *string  `json:"catch_phrase,omitempty"`
	FrontURL       *string  `json:"front_url,omitempty"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

func ValidateSubsidyRecordPayload(payload json.RawMessage) (*SubsidyRecord, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize payload JSON: %w", err)
	}

	var record SubsidyRecord
	if err := json.Unmarshal(normalized, &record); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := validateSemantics(&record); err != nil {
		return nil, err
	}

	return &record, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource("subsidy_record.schema.json", strings.NewReader(subsidyRecordSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("subsidy_record.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}

	return value, nil
}

func validateSemantics(record *SubsidyRecord) error {
	if record == nil {
		return fmt.Errorf("payload is nil")
	}

	if strings.TrimSpace(record.PayloadVersion) != "v1" {
		return fmt.Errorf("payload_version must be v1")
	}
	if strings.TrimSpace(record.ExternalID) == "" {
		return fmt.Errorf("external_id must not be empty")
	}
	if strings.TrimSpace(record.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}

	if record.FrontURL != nil {
		trimmed := strings.TrimSpace(*record.FrontURL)
		if trimmed == "" {
			return fmt.Errorf("front_url must not be empty")
		}
		if _, err := url.ParseRequestURI(trimmed); err != nil {
			return fmt.Errorf("front_url is not a valid URI: %w", err)
		}
	}

	for i, area := range record.TargetArea {
		if strings.TrimSpace(area) == "" {
			return fmt.Errorf("target_area[%d] must not be empty", i)
		}
	}
	for i, tag := range record.Industry {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("industry[%d] must not be empty", i)
		}
	}

	return nil
}

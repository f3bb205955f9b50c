package payloadschema

import (
	"encoding/json"
	"testing"
)

func validPayload() map[string]any {
	return map[string]any{
		"payload_version": "v1",
		"external_id":     "jnet21:a1b2c3",
		"title":           "小規模事業者持続化補助金",
		"description":     "販路開拓に取り組む小規模事業者を支援します。",
		"max_amount":      int64(2_000_000),
		"subsidy_rate":    "2/3",
		"start_date":      "2025-04-01",
		"end_date":        "2025-12-26",
		"target_area":     []string{"東京都", "埼玉県"},
		"industry":        []string{"製造業"},
		"catch_phrase":    "販路開拓を後押し",
		"front_url":       "https://example.jp/subsidy/1",
	}
}

func marshalPayload(t *testing.T, payload map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestValidateSubsidyRecordPayload_Valid(t *testing.T) {
	t.Parallel()

	record, err := ValidateSubsidyRecordPayload(marshalPayload(t, validPayload()))
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if record.ExternalID != "jnet21:a1b2c3" {
		t.Fatalf("got external id %q", record.ExternalID)
	}
	if record.Title != "小規模事業者持続化補助金" {
		t.Fatalf("got title %q", record.Title)
	}
	if record.MaxAmount == nil || *record.MaxAmount != 2_000_000 {
		t.Fatalf("got max amount %v", record.MaxAmount)
	}
	if len(record.TargetArea) != 2 {
		t.Fatalf("got target area %v", record.TargetArea)
	}
}

func TestValidateSubsidyRecordPayload_MinimalValid(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"payload_version":"v1","external_id":"sample:x","title":"創業支援補助金"}`)
	record, err := ValidateSubsidyRecordPayload(raw)
	if err != nil {
		t.Fatalf("expected minimal payload to validate, got %v", err)
	}
	if record.Description != nil || record.MaxAmount != nil {
		t.Fatalf("optional fields should stay nil: %+v", record)
	}
}

func TestValidateSubsidyRecordPayload_MalformedDatesAreAccepted(t *testing.T) {
	t.Parallel()

	// Date plausibility is the cleanup pipeline's concern; ingest only checks
	// the type.
	payload := validPayload()
	payload["start_date"] = "令和7年4月"
	payload["end_date"] = "随時"

	record, err := ValidateSubsidyRecordPayload(marshalPayload(t, payload))
	if err != nil {
		t.Fatalf("expected non-strict dates to pass ingest validation, got %v", err)
	}
	if record.StartDate == nil || *record.StartDate != "令和7年4月" {
		t.Fatalf("got start date %v", record.StartDate)
	}
}

func TestValidateSubsidyRecordPayload_SchemaRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"wrong version", func(p map[string]any) { p["payload_version"] = "v2" }},
		{"missing title", func(p map[string]any) { delete(p, "title") }},
		{"empty title", func(p map[string]any) { p["title"] = "" }},
		{"missing external id", func(p map[string]any) { delete(p, "external_id") }},
		{"negative max amount", func(p map[string]any) { p["max_amount"] = int64(-1) }},
		{"max amount as string", func(p map[string]any) { p["max_amount"] = "100万円" }},
		{"target area as string", func(p map[string]any) { p["target_area"] = "東京都" }},
		{"unknown field", func(p map[string]any) { p["scraped_at"] = "2025-04-01" }},
	}
	for _, tc := range cases {
		payload := validPayload()
		tc.mutate(payload)
		if _, err := ValidateSubsidyRecordPayload(marshalPayload(t, payload)); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

func TestValidateSubsidyRecordPayload_SemanticRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"whitespace title", func(p map[string]any) { p["title"] = "   " }},
		{"whitespace external id", func(p map[string]any) { p["external_id"] = "\t" }},
		{"empty target area entry", func(p map[string]any) { p["target_area"] = []string{"東京都", " "} }},
		{"empty industry entry", func(p map[string]any) { p["industry"] = []string{""} }},
		{"blank front url", func(p map[string]any) { p["front_url"] = "   " }},
	}
	for _, tc := range cases {
		payload := validPayload()
		tc.mutate(payload)
		if _, err := ValidateSubsidyRecordPayload(marshalPayload(t, payload)); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

func TestValidateSubsidyRecordPayload_MalformedJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"truncated", `{"payload_version":"v1"`},
		{"trailing content", `{"payload_version":"v1","external_id":"x","title":"t"} extra`},
		{"array root", `[{"payload_version":"v1"}]`},
	}
	for _, tc := range cases {
		if _, err := ValidateSubsidyRecordPayload(json.RawMessage(tc.raw)); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

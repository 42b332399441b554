package slides_test

import (
	"encoding/json"
	"testing"
	"time"

	"marquee/internal/notion"
	"marquee/internal/slides"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func decodePage(t *testing.T, payload string) notion.Page {
	t.Helper()
	var page notion.Page
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	return page
}

func TestNormalizeDefaults(t *testing.T) {
	page := decodePage(t, `{"id":"p1","properties":{}}`)

	record, skip := slides.Normalize(page, now)
	if skip != "" {
		t.Fatalf("unexpected skip %q", skip)
	}
	s := record.Slide
	if s.Title != "Untitled" || s.Duration != 10 || s.Layout != "Standard" || s.Order != 999 {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if s.Type != slides.MediaText || s.Src != nil {
		t.Fatalf("expected text slide with nil src, got %+v", s)
	}
}

func TestNormalizeSkipsInactive(t *testing.T) {
	page := decodePage(t, `{"id":"p1","properties":{
		"Active": {"type":"checkbox","checkbox":false}
	}}`)
	if record, skip := slides.Normalize(page, now); record != nil || skip == "" {
		t.Fatalf("expected inactive skip, got record=%v skip=%q", record, skip)
	}
}

func TestNormalizeWindowFiltering(t *testing.T) {
	tests := []struct {
		name string
		date string
		keep bool
	}{
		{"future start", `{"start":"2027-01-01T00:00:00Z"}`, false},
		{"past end", `{"start":"2026-01-01T00:00:00Z","end":"2026-02-01T00:00:00Z"}`, false},
		{"inside window", `{"start":"2026-03-01T00:00:00Z","end":"2026-04-01T00:00:00Z"}`, true},
		{"start equals now", `{"start":"2026-03-15T12:00:00Z"}`, true},
		{"end equals now", `{"start":"2026-03-01T00:00:00Z","end":"2026-03-15T12:00:00Z"}`, true},
		{"no bounds", `null`, true},
		{"naive start treated as utc", `{"start":"2026-03-15T11:00:00"}`, true},
		{"date only in future", `{"start":"2026-03-16"}`, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := decodePage(t, `{"id":"p1","properties":{
				"Date": {"type":"date","date":`+tc.date+`}
			}}`)
			record, skip := slides.Normalize(page, now)
			if tc.keep && record == nil {
				t.Fatalf("expected record, skipped: %q", skip)
			}
			if !tc.keep && record != nil {
				t.Fatalf("expected skip, got %+v", record.Slide)
			}
		})
	}
}

func TestNormalizeLegacyStartProperty(t *testing.T) {
	page := decodePage(t, `{"id":"p1","properties":{
		"Start": {"type":"date","date":{"start":"2027-01-01T00:00:00Z"}}
	}}`)
	if record, _ := slides.Normalize(page, now); record != nil {
		t.Fatal("legacy Start property should filter like Date")
	}
}

func TestNormalizeExtractsFields(t *testing.T) {
	page := decodePage(t, `{"id":"p1","properties":{
		"Name": {"type":"title","title":[{"plain_text":"Launch Party"}]},
		"Description": {"type":"rich_text","rich_text":[{"plain_text":"Friday "},{"plain_text":"6pm"}]},
		"Duration": {"type":"number","number":25},
		"Layout": {"type":"select","select":{"name":"Hero"}},
		"Order": {"type":"number","number":2},
		"Media": {"type":"files","files":[{"name":"a.jpg","type":"external","external":{"url":"https://example.com/a.jpg"}}]}
	}}`)

	record, skip := slides.Normalize(page, now)
	if skip != "" {
		t.Fatalf("unexpected skip %q", skip)
	}
	s := record.Slide
	if s.Title != "Launch Party" || s.Description != "Friday 6pm" {
		t.Fatalf("unexpected text fields %+v", s)
	}
	if s.Duration != 25 || s.Layout != "Hero" || s.Order != 2 {
		t.Fatalf("unexpected numeric/layout fields %+v", s)
	}
	if len(record.MediaProp.Files) != 1 {
		t.Fatalf("media property not carried: %+v", record.MediaProp)
	}
}

func TestNormalizeNonPositiveDurationFallsBack(t *testing.T) {
	page := decodePage(t, `{"id":"p1","properties":{
		"Duration": {"type":"number","number":0}
	}}`)
	record, _ := slides.Normalize(page, now)
	if record.Slide.Duration != 10 {
		t.Fatalf("expected default duration, got %d", record.Slide.Duration)
	}
}

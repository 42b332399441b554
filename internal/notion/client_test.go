package notion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marquee/internal/notion"
)

func TestQueryDatabaseExhaustsPagination(t *testing.T) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("Notion-Version"); got != "2022-06-28" {
			t.Fatalf("unexpected version header %q", got)
		}

		var req struct {
			StartCursor string `json:"start_cursor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		cursors = append(cursors, req.StartCursor)

		w.Header().Set("Content-Type", "application/json")
		if req.StartCursor == "" {
			_, _ = w.Write([]byte(`{"results":[{"id":"a"}],"has_more":true,"next_cursor":"c2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"id":"b"}],"has_more":false,"next_cursor":""}`))
	}))
	defer server.Close()

	client := notion.NewClientWith(server.URL, "token", "2022-06-28", "db", server.Client())
	pages, err := client.QueryDatabase(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(pages) != 2 || pages[0].ID != "a" || pages[1].ID != "b" {
		t.Fatalf("unexpected pages %+v", pages)
	}
	if len(cursors) != 2 || cursors[1] != "c2" {
		t.Fatalf("expected second request with cursor c2, got %v", cursors)
	}
}

func TestQueryDatabaseSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := notion.NewClientWith(server.URL, "bad", "2022-06-28", "db", server.Client())
	if _, err := client.QueryDatabase(context.Background()); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestPropertyDecodingIsFailSoft(t *testing.T) {
	payload := `{
		"id": "page1",
		"properties": {
			"Name": {"type":"title","title":[{"plain_text":"Hello "},{"plain_text":"World"}]},
			"Active": {"type":"checkbox","checkbox":false},
			"Duration": {"type":"number","number":15},
			"Broken": {"type":"number","number":{"not":"a number"}},
			"Stringy": {"type":"number","number":"oops"},
			"Mangled": {"type":"checkbox","checkbox":{"weird":"shape"}},
			"Cleared": {"type":"checkbox","checkbox":null},
			"Media": {"type":"files","files":[{"name":"a.jpg","type":"external","external":{"url":"https://example.com/a.jpg"}}]}
		}
	}`

	var page notion.Page
	if err := json.Unmarshal([]byte(payload), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}

	name, _ := page.Property("Name")
	if got := name.PlainText(); got != "Hello World" {
		t.Fatalf("title fragments not joined: %q", got)
	}

	active, _ := page.Property("Active")
	if active.Checkbox == nil || *active.Checkbox {
		t.Fatalf("expected checkbox false, got %+v", active.Checkbox)
	}

	broken, _ := page.Property("Broken")
	if broken.Number != nil {
		t.Fatalf("malformed number should decode as absent, got %v", *broken.Number)
	}

	// A zero value here would be worse than absence: 0 overrides the
	// default display order and false deactivates the record.
	stringy, _ := page.Property("Stringy")
	if stringy.Number != nil {
		t.Fatalf("string-typed number should decode as absent, got %v", *stringy.Number)
	}

	mangled, _ := page.Property("Mangled")
	if mangled.Checkbox != nil {
		t.Fatalf("malformed checkbox should decode as absent, got %v", *mangled.Checkbox)
	}

	cleared, _ := page.Property("Cleared")
	if cleared.Checkbox != nil {
		t.Fatalf("null checkbox should decode as absent, got %v", *cleared.Checkbox)
	}

	media, _ := page.Property("Media")
	if len(media.Files) != 1 || media.Files[0].DownloadURL() != "https://example.com/a.jpg" {
		t.Fatalf("unexpected files %+v", media.Files)
	}
}

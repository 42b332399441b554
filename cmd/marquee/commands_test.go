package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newFakeAPI serves canned daemon responses and returns a config file whose
// api_bind points at it.
func newFakeAPI(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return writeCLIConfig(t, strings.TrimPrefix(server.URL, "http://"))
}

func TestStatusCommandRendersReport(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"running": true,
			"pid": 4242,
			"notion_configured": false,
			"playlist_path": "/var/lib/marquee/playlist.json",
			"last_run": {"outcome": "success", "slides": 5,
				"started_at": "2026-03-01T10:00:00Z", "finished_at": "2026-03-01T10:00:02Z"}
		}`)
	})

	out, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Marquee Daemon")
	requireContains(t, out, "Running")
	requireContains(t, out, "yes")
	requireContains(t, out, "4242")
	requireContains(t, out, "Last Sync")
	requireContains(t, out, "success")
}

func TestStatusCommandJSON(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"running": false, "pid": 1}`)
	})

	out, err := runCLI(t, []string{"status", "--json"}, configPath)
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	requireContains(t, out, `"running": false`)
}

func TestSyncCommandPrintsReport(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sync" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"run_id": "run-1", "total": 4, "published": 3, "skipped": 1, "resolved": 2,
			"started_at": "2026-03-01T10:00:00Z", "finished_at": "2026-03-01T10:00:01Z"}`)
	})

	out, err := runCLI(t, []string{"sync"}, configPath)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out, "run-1")
	requireContains(t, out, "published: 3")
	requireContains(t, out, "skipped: 1")
}

func TestSyncCommandSurfacesConflict(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error": "sync already in progress"}`)
	})

	_, err := runCLI(t, []string{"sync"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "sync already in progress") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestPlaylistCommandRendersTable(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": "a", "title": "Welcome", "type": "image", "src": "/media/a.jpg",
				"duration": 10, "layout": "Standard", "order": 1},
			{"id": "b", "title": "Notices", "type": "text", "src": null,
				"duration": 15, "layout": "Standard", "order": 2}
		]`)
	})

	out, err := runCLI(t, []string{"playlist"}, configPath)
	if err != nil {
		t.Fatalf("playlist: %v", err)
	}
	requireContains(t, out, "Welcome")
	requireContains(t, out, "/media/a.jpg")
	requireContains(t, out, "15s")
}

func TestPlaylistCommandEmpty(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[]`)
	})

	out, err := runCLI(t, []string{"playlist"}, configPath)
	if err != nil {
		t.Fatalf("playlist: %v", err)
	}
	requireContains(t, out, "Playlist is empty")
}

func TestHistoryCommandRendersTable(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			http.Error(w, "limit not forwarded", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": "run-1", "outcome": "failed", "slides": 0, "skipped": 0, "resolved": 0,
			"error": "remote query failed",
			"started_at": "2026-03-01T10:00:00Z", "finished_at": "2026-03-01T10:00:01Z"}]`)
	})

	out, err := runCLI(t, []string{"history", "--limit", "5"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "failed")
	requireContains(t, out, "remote query failed")
}

func TestSettingsGetAndSet(t *testing.T) {
	configPath := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"theme": "dark", "countdown_enabled": false}`)
		case http.MethodPost:
			fmt.Fprint(w, `{"theme": "dark", "countdown_enabled": true}`)
		}
	})

	out, err := runCLI(t, []string{"settings", "get"}, configPath)
	if err != nil {
		t.Fatalf("settings get: %v", err)
	}
	requireContains(t, out, "Theme:")
	requireContains(t, out, "Countdown Enabled:")

	out, err = runCLI(t, []string{"settings", "get", "theme"}, configPath)
	if err != nil {
		t.Fatalf("settings get theme: %v", err)
	}
	requireContains(t, out, "dark")

	if _, err := runCLI(t, []string{"settings", "get", "missing"}, configPath); err == nil {
		t.Fatal("expected unknown key error")
	}

	out, err = runCLI(t, []string{"settings", "set", "countdown_enabled", "true"}, configPath)
	if err != nil {
		t.Fatalf("settings set: %v", err)
	}
	requireContains(t, out, "countdown_enabled = true")
}

func TestParseSettingValueTypes(t *testing.T) {
	cases := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"42", float64(42)},
		{"null", nil},
		{`"quoted"`, "quoted"},
		{"plain text", "plain text"},
		{"#ffffff", "#ffffff"},
	}
	for _, tc := range cases {
		if got := parseSettingValue(tc.raw); got != tc.want {
			t.Errorf("parseSettingValue(%q) = %v (%T), want %v", tc.raw, got, got, tc.want)
		}
	}
}

func TestLabelFor(t *testing.T) {
	if got := labelFor("countdown_target_date"); got != "Countdown Target Date" {
		t.Fatalf("labelFor = %q", got)
	}
}

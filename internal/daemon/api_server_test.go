package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marquee/internal/calendar"
	"marquee/internal/config"
	"marquee/internal/history"
	"marquee/internal/logging"
	"marquee/internal/media"
	"marquee/internal/notion"
	"marquee/internal/playlist"
	"marquee/internal/settings"
	"marquee/internal/slides"
	syncpkg "marquee/internal/sync"
	"marquee/internal/testsupport"
)

const emptyQueryResponse = `{"results": [], "has_more": false, "next_cursor": null}`

// newTestDaemon wires a daemon against a local stand-in for the database
// API. The daemon is not started; handler tests drive the apiServer mux
// directly.
func newTestDaemon(t *testing.T, queryBody string, queryStatus int) (*Daemon, *config.Config) {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if queryStatus != http.StatusOK {
			http.Error(w, "backend unavailable", queryStatus)
			return
		}
		fmt.Fprint(w, queryBody)
	}))
	t.Cleanup(backend.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithNotion(backend.URL, "secret-token", "db"))

	source := notion.NewClient(cfg)
	cache := media.NewCacheWith(cfg.Paths.MediaDir, backend.Client(), logging.NewNop())
	resolver := media.NewResolver(cache, logging.NewNop())
	playlistStore := playlist.NewStore(cfg.PlaylistPath())
	settingsStore := settings.NewStore(cfg.SettingsPath(), logging.NewNop())

	historyStore, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}

	pipeline := syncpkg.NewPipeline(source, resolver, cache, playlistStore, historyStore,
		cfg.Sync.HistoryRetention, logging.NewNop())
	refresher := calendar.NewRefresher(calendar.NewClient(cfg), settingsStore, logging.NewNop())

	d, err := New(cfg, pipeline, refresher, settingsStore, playlistStore, historyStore, cache, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, cfg
}

func serve(t *testing.T, d *Daemon, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	d.api.routes().ServeHTTP(w, req)
	return w
}

func TestHandlePlaylistServesPublishedBytes(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	list := []slides.Slide{{ID: "slide", Title: "Hello", Type: slides.MediaText, Duration: 10, Layout: "Standard", Order: 1}}
	if err := d.playlist.Publish(list); err != nil {
		t.Fatalf("publish: %v", err)
	}

	w := serve(t, d, http.MethodGet, "/api/playlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var decoded []slides.Slide
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("decode playlist: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ID != "slide" {
		t.Fatalf("unexpected playlist %+v", decoded)
	}
}

func TestHandlePlaylistBeforeFirstSyncIsEmptyArray(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodGet, "/api/playlist", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestHandleSettingsRoundTrip(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodGet, "/api/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var doc settings.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if doc["theme"] != "dark" {
		t.Fatalf("expected default theme, got %v", doc["theme"])
	}

	w = serve(t, d, http.MethodPost, "/api/settings", `{"theme": "light", "custom": 7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode merged settings: %v", err)
	}
	if doc["theme"] != "light" || doc["custom"] != float64(7) {
		t.Fatalf("merge not applied: %v", doc)
	}
}

func TestHandleSettingsRejectsBadPayload(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodPost, "/api/settings", `{"theme": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSettingsBackup(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodGet, "/api/settings/backup", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before first save, got %d", w.Code)
	}

	if _, err := d.settings.Save(settings.Document{"theme": "light"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	w = serve(t, d, http.MethodGet, "/api/settings/backup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if disposition := w.Header().Get("Content-Disposition"); !strings.Contains(disposition, "attachment") {
		t.Fatalf("expected attachment disposition, got %q", disposition)
	}
	var doc settings.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode backup: %v", err)
	}
	if doc["theme"] != "light" {
		t.Fatalf("backup missing saved value: %v", doc)
	}
}

func TestHandleSyncRunsCycle(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodPost, "/api/sync", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var report syncpkg.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.RunID == "" || report.Total != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	if w := serve(t, d, http.MethodGet, "/api/sync", ""); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", w.Code)
	}
}

func TestHandleSyncRemoteFailureIsBadGateway(t *testing.T) {
	d, _ := newTestDaemon(t, "", http.StatusInternalServerError)

	w := serve(t, d, http.MethodPost, "/api/sync", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestHandleHistoryAfterSync(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	if w := serve(t, d, http.MethodPost, "/api/sync", ""); w.Code != http.StatusOK {
		t.Fatalf("sync failed with %d", w.Code)
	}

	w := serve(t, d, http.MethodGet, "/api/history?limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var runs []history.Run
	if err := json.Unmarshal(w.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(runs) != 1 || runs[0].Outcome != history.OutcomeSuccess {
		t.Fatalf("unexpected history %+v", runs)
	}
}

func TestHandleVersion(t *testing.T) {
	d, _ := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodGet, "/api/version", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if payload["version"] == "" {
		t.Fatalf("empty version payload: %v", payload)
	}
}

func TestHandleStatus(t *testing.T) {
	d, cfg := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	w := serve(t, d, http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status Status
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Running {
		t.Fatal("daemon reported running before Start")
	}
	if !status.NotionConfigured {
		t.Fatal("credentials not reflected in status")
	}
	if status.PlaylistPath != cfg.PlaylistPath() {
		t.Fatalf("unexpected playlist path %q", status.PlaylistPath)
	}
	if filepath.Dir(status.LockFilePath) != cfg.Paths.DataDir {
		t.Fatalf("lock file outside data dir: %q", status.LockFilePath)
	}
}

func TestMediaRouteServesCache(t *testing.T) {
	d, cfg := newTestDaemon(t, emptyQueryResponse, http.StatusOK)

	asset := filepath.Join(cfg.Paths.MediaDir, "page.jpg")
	if err := os.WriteFile(asset, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	w := serve(t, d, http.MethodGet, "/media/page.jpg", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "image-bytes" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}

	if w := serve(t, d, http.MethodPost, "/media/page.jpg", "x"); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", w.Code)
	}
}

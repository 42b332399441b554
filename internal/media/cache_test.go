package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"marquee/internal/media"
)

func TestEnsureDownloadsOnMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	cache := media.NewCacheWith(dir, server.Client(), nil)

	if err := cache.Ensure(context.Background(), server.URL+"/a.jpg", "a.jpg"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestEnsureHitSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	cache := media.NewCacheWith(dir, server.Client(), nil)
	if err := cache.Ensure(context.Background(), server.URL, "a.jpg"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected zero requests on cache hit, got %d", requests.Load())
	}
}

func TestEnsureFailureLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	cache := media.NewCacheWith(dir, server.Client(), nil)

	if err := cache.Ensure(context.Background(), server.URL, "missing.jpg"); err == nil {
		t.Fatal("expected error on 404")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty cache dir, found %v", entries)
	}
}

func TestEvictExceptRemovesOrphans(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keep.jpg", "orphan.jpg", "stale.partial"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	cache := media.NewCacheWith(dir, http.DefaultClient, nil)
	cache.EvictExcept(map[string]struct{}{"keep.jpg": {}})

	names, err := cache.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "keep.jpg" {
		t.Fatalf("expected only keep.jpg to remain, got %v", names)
	}
}

func TestEvictExceptMissingDirIsNoop(t *testing.T) {
	cache := media.NewCacheWith(filepath.Join(t.TempDir(), "absent"), http.DefaultClient, nil)
	cache.EvictExcept(map[string]struct{}{})
}

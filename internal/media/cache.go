package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"marquee/internal/config"
	"marquee/internal/logging"
)

// HTTPDoer describes the HTTP client used for media downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache owns the media directory. A file's existence is its validity: a
// present filename is never re-downloaded and never content-checked. When
// a remote asset changes without changing its derived filename the cache
// serves the old bytes until the file is evicted; revalidation would need
// checksums or ETags the source does not provide cheaply.
type Cache struct {
	dir    string
	client HTTPDoer
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache constructs a cache over the configured media directory.
func NewCache(cfg *config.Config, logger *slog.Logger) *Cache {
	timeout := time.Duration(cfg.Sync.DownloadTimeoutSeconds) * time.Second
	return NewCacheWith(cfg.Paths.MediaDir, &http.Client{Timeout: timeout}, logger)
}

// NewCacheWith constructs a cache with an explicit HTTP doer (used in tests).
func NewCacheWith(dir string, client HTTPDoer, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cache{
		dir:    dir,
		client: client,
		logger: logging.NewComponentLogger(logger, "media-cache"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the on-disk location for filename.
func (c *Cache) Path(filename string) string {
	return filepath.Join(c.dir, filename)
}

// Ensure makes filename present in the cache, downloading url on a miss.
// Concurrent calls for the same filename are serialized so at most one
// download is in flight per name. On any download or write error no file is
// left behind under the final name.
func (c *Cache) Ensure(ctx context.Context, url, filename string) error {
	lock := c.lockFor(filename)
	lock.Lock()
	defer lock.Unlock()

	target := c.Path(filename)
	if _, err := os.Stat(target); err == nil {
		c.logger.Debug("cache hit", logging.String("file", filename))
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create media directory: %w", err)
	}

	c.logger.Info("downloading media", logging.String("file", filename), logging.String("url", url))
	if err := c.download(ctx, url, target); err != nil {
		return fmt.Errorf("download %s: %w", filename, err)
	}
	return nil
}

func (c *Cache) download(ctx context.Context, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	partial := target + ".partial"
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create partial file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(partial)
		return fmt.Errorf("write body: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("close partial file: %w", err)
	}
	if err := os.Rename(partial, target); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("finalize file: %w", err)
	}
	return nil
}

// EvictExcept deletes every regular file in the cache directory whose name
// is not in keep. A failed deletion is logged and does not stop the sweep.
func (c *Cache) EvictExcept(keep map[string]struct{}) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("read media directory failed", logging.Error(err))
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := keep[name]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil {
			c.logger.Warn("evict failed", logging.String("file", name), logging.Error(err))
			continue
		}
		c.logger.Info("evicted orphaned media", logging.String("file", name))
	}
}

// List returns the filenames currently present in the cache.
func (c *Cache) List() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func (c *Cache) lockFor(filename string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[filename]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[filename] = lock
	}
	return lock
}

package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"marquee/internal/calendar"
	"marquee/internal/config"
	"marquee/internal/history"
	"marquee/internal/logging"
	"marquee/internal/media"
	"marquee/internal/playlist"
	"marquee/internal/settings"
	syncpkg "marquee/internal/sync"
)

// Daemon owns the background loops and enforces single-instance execution
// through a lock file in the data directory.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	pipeline  *syncpkg.Pipeline
	refresher *calendar.Refresher
	settings  *settings.Store
	playlist  *playlist.Store
	history   *history.Store
	cache     *media.Cache

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running   atomic.Bool
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

// Status is the daemon runtime snapshot served by the status endpoint.
type Status struct {
	Running          bool         `json:"running"`
	PID              int          `json:"pid"`
	StartedAt        time.Time    `json:"started_at"`
	NotionConfigured bool         `json:"notion_configured"`
	SyncInterval     int          `json:"sync_interval_seconds"`
	CalendarInterval int          `json:"calendar_interval_seconds"`
	PlaylistPath     string       `json:"playlist_path"`
	MediaDir         string       `json:"media_dir"`
	LockFilePath     string       `json:"lock_file_path"`
	LastRun          *history.Run `json:"last_run,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(
	cfg *config.Config,
	pipeline *syncpkg.Pipeline,
	refresher *calendar.Refresher,
	settingsStore *settings.Store,
	playlistStore *playlist.Store,
	historyStore *history.Store,
	cache *media.Cache,
	logger *slog.Logger,
) (*Daemon, error) {
	if cfg == nil || pipeline == nil || settingsStore == nil || playlistStore == nil {
		return nil, errors.New("daemon requires config, pipeline, settings store, and playlist store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "marqueed.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		pipeline:  pipeline,
		refresher: refresher,
		settings:  settingsStore,
		playlist:  playlistStore,
		history:   historyStore,
		cache:     cache,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, brings up the API server, and launches
// the sync and calendar loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another marquee daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	go d.syncLoop(d.ctx)
	go d.calendarLoop(d.ctx)

	d.startedAt = time.Now().UTC()
	d.running.Store(true)
	d.logger.Info("marquee daemon started",
		logging.String("lock", d.lockPath),
		logging.String("playlist", d.playlist.Path()))
	return nil
}

// Stop halts the loops and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("marquee daemon stopped")
}

// Close stops the daemon and releases held stores.
func (d *Daemon) Close() error {
	d.Stop()
	if d.history != nil {
		return d.history.Close()
	}
	return nil
}

// TriggerSync runs one cycle immediately, outside the timer cadence.
func (d *Daemon) TriggerSync(ctx context.Context) (*syncpkg.Report, error) {
	return d.pipeline.Run(ctx)
}

// Status reports the current runtime snapshot.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:          d.running.Load(),
		PID:              os.Getpid(),
		StartedAt:        d.startedAt,
		NotionConfigured: d.cfg.Notion.Configured(),
		SyncInterval:     d.cfg.Sync.IntervalSeconds,
		CalendarInterval: d.cfg.Calendar.IntervalSeconds,
		PlaylistPath:     d.playlist.Path(),
		LockFilePath:     d.lockPath,
	}
	if d.cache != nil {
		status.MediaDir = d.cache.Dir()
	}
	if d.history != nil {
		if runs, err := d.history.Recent(ctx, 1); err == nil && len(runs) > 0 {
			status.LastRun = &runs[0]
		}
	}
	return status
}

// syncLoop runs one cycle immediately, then on the configured interval.
func (d *Daemon) syncLoop(ctx context.Context) {
	interval := time.Duration(d.cfg.Sync.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.runSync(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runSync(ctx)
		}
	}
}

func (d *Daemon) runSync(ctx context.Context) {
	_, err := d.pipeline.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, syncpkg.ErrNotConfigured):
		d.logger.Warn("sync skipped", logging.Error(err))
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		d.logger.Debug("sync tick dropped, cycle still running")
	default:
		d.logger.Error("sync cycle failed", logging.Error(err))
	}
}

// calendarLoop refreshes the countdown override on its own cadence. The
// refresher is a no-op while the calendar countdown is not enabled.
func (d *Daemon) calendarLoop(ctx context.Context) {
	if d.refresher == nil {
		return
	}
	interval := time.Duration(d.cfg.Calendar.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.runCalendarRefresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runCalendarRefresh(ctx)
		}
	}
}

func (d *Daemon) runCalendarRefresh(ctx context.Context) {
	if err := d.refresher.RefreshOnce(ctx); err != nil {
		d.logger.Warn("calendar refresh failed", logging.Error(err))
	}
}

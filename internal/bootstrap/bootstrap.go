// Package bootstrap wires configuration into a fully assembled daemon. It is
// shared by the daemon binary and the CLI's foreground daemon command.
package bootstrap

import (
	"context"
	"fmt"

	"log/slog"

	"marquee/internal/calendar"
	"marquee/internal/config"
	"marquee/internal/daemon"
	"marquee/internal/history"
	"marquee/internal/logging"
	"marquee/internal/media"
	"marquee/internal/notion"
	"marquee/internal/playlist"
	"marquee/internal/settings"
	syncpkg "marquee/internal/sync"
)

// NewDaemon assembles the stores, the sync pipeline, and the calendar
// refresher from configuration. The caller owns the returned daemon and
// must Close it.
func NewDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	historyStore, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	cache := media.NewCache(cfg, logger)
	resolver := media.NewResolver(cache, logger)
	playlistStore := playlist.NewStore(cfg.PlaylistPath())
	settingsStore := settings.NewStore(cfg.SettingsPath(), logger)

	pipeline := syncpkg.NewPipeline(
		notion.NewClient(cfg),
		resolver,
		cache,
		playlistStore,
		historyStore,
		cfg.Sync.HistoryRetention,
		logger,
	)
	refresher := calendar.NewRefresher(calendar.NewClient(cfg), settingsStore, logger)

	d, err := daemon.New(cfg, pipeline, refresher, settingsStore, playlistStore, historyStore, cache, logger)
	if err != nil {
		_ = historyStore.Close()
		return nil, err
	}
	return d, nil
}

// Run assembles a daemon, starts it, and blocks until ctx is canceled.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	d, err := NewDaemon(cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

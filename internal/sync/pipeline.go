// Package sync drives one full playlist refresh: query the database,
// normalize and order the records, resolve media into the local cache,
// publish the playlist, then evict whatever the new playlist no longer
// references.
package sync

import (
	"context"
	"fmt"
	"sort"
	gosync "sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"marquee/internal/history"
	"marquee/internal/logging"
	"marquee/internal/media"
	"marquee/internal/notion"
	"marquee/internal/playlist"
	"marquee/internal/slides"
)

// Report summarizes one finished cycle.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Skipped    int       `json:"skipped"`
	Resolved   int       `json:"resolved"`
	Published  int       `json:"published"`
}

// Pipeline owns the sync sequence. Run is safe to call from multiple
// goroutines; overlapping calls are rejected rather than queued.
type Pipeline struct {
	source    *notion.Client
	resolver  *media.Resolver
	cache     *media.Cache
	playlist  *playlist.Store
	history   *history.Store
	logger    *slog.Logger
	retention int
	now       func() time.Time

	mu gosync.Mutex
}

// NewPipeline wires the sync sequence together. The history store may be
// nil, in which case runs are not recorded.
func NewPipeline(
	source *notion.Client,
	resolver *media.Resolver,
	cache *media.Cache,
	store *playlist.Store,
	hist *history.Store,
	retention int,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		source:    source,
		resolver:  resolver,
		cache:     cache,
		playlist:  store,
		history:   hist,
		logger:    logging.NewComponentLogger(logger, "sync"),
		retention: retention,
		now:       time.Now,
	}
}

// Run executes one cycle. The playlist on disk is only replaced after every
// record has been processed; a query failure leaves the previous playlist
// in place, and eviction happens strictly after a successful publish.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if !p.source.Configured() {
		return nil, ErrNotConfigured
	}
	if !p.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer p.mu.Unlock()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: p.now().UTC(),
	}
	p.logger.Info("sync started", logging.String("run_id", report.RunID))

	pages, err := p.source.QueryDatabase(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRemoteQuery, err)
		p.finish(ctx, report, err)
		return report, err
	}
	report.Total = len(pages)

	// One snapshot of now for the whole cycle, so every record's active
	// window is judged against the same instant.
	cycleNow := report.StartedAt

	published := make([]slides.Slide, 0, len(pages))
	keep := make(map[string]struct{})
	for _, page := range pages {
		record, skipReason := slides.Normalize(page, cycleNow)
		if record == nil {
			report.Skipped++
			p.logger.Debug("record skipped",
				logging.String("page", page.ID),
				logging.String("reason", skipReason))
			continue
		}
		if filename := p.resolver.Resolve(ctx, record); filename != "" {
			keep[filename] = struct{}{}
			report.Resolved++
		}
		published = append(published, record.Slide)
	}

	sort.SliceStable(published, func(i, j int) bool {
		return published[i].Order < published[j].Order
	})

	if err := p.playlist.Publish(published); err != nil {
		err = fmt.Errorf("%w: %v", ErrPublish, err)
		p.finish(ctx, report, err)
		return report, err
	}
	report.Published = len(published)

	// Evict only after the new playlist is durable, so a crash between the
	// two steps can leave extra files but never a playlist that references
	// missing ones.
	p.cache.EvictExcept(keep)

	p.finish(ctx, report, nil)
	p.logger.Info("sync finished",
		logging.String("run_id", report.RunID),
		logging.Int("published", report.Published),
		logging.Int("skipped", report.Skipped),
		logging.Int("resolved", report.Resolved))
	return report, nil
}

// finish stamps the report and records the run. History failures are logged
// and ignored; the cycle outcome does not depend on the run log.
func (p *Pipeline) finish(ctx context.Context, report *Report, runErr error) {
	report.FinishedAt = p.now().UTC()
	if p.history == nil {
		return
	}

	run := history.Run{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Outcome:    history.OutcomeSuccess,
		Slides:     report.Published,
		Skipped:    report.Skipped,
		Resolved:   report.Resolved,
	}
	if runErr != nil {
		run.Outcome = history.OutcomeFailed
		run.Error = runErr.Error()
	}
	if err := p.history.Record(ctx, run); err != nil {
		p.logger.Warn("record sync run failed", logging.Error(err))
		return
	}
	if p.retention > 0 {
		if _, err := p.history.Prune(ctx, p.retention); err != nil {
			p.logger.Warn("prune sync history failed", logging.Error(err))
		}
	}
}

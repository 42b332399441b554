package calendar

import (
	"context"
	"log/slog"
	"time"

	"marquee/internal/logging"
	"marquee/internal/settings"
)

// Refresher periodically derives the countdown override from the calendar
// feed configured in the settings document.
type Refresher struct {
	client   *Client
	settings *settings.Store
	logger   *slog.Logger

	// retainLastGood keeps the previous override when a fetch fails or
	// returns no future event, so an intermittent feed outage does not
	// blank the countdown. Clearing instead is the stricter alternative.
	retainLastGood bool
}

// NewRefresher constructs a refresher with last-good-value retention.
func NewRefresher(client *Client, store *settings.Store, logger *slog.Logger) *Refresher {
	return &Refresher{
		client:         client,
		settings:       store,
		logger:         logging.NewComponentLogger(logger, "calendar"),
		retainLastGood: true,
	}
}

// SetRetainLastGood toggles override retention on empty or failed fetches.
func (r *Refresher) SetRetainLastGood(retain bool) {
	r.retainLastGood = retain
}

// RefreshOnce performs one fetch-and-apply pass. It is a no-op unless the
// countdown is enabled in calendar mode with a feed URL configured.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	doc := r.settings.Get()
	if !doc.Bool(settings.KeyCountdownEnabled) {
		return nil
	}
	if doc.String(settings.KeyCountdownMode) != settings.CountdownModeCalendar {
		return nil
	}
	feedURL := doc.String(settings.KeyCalendarURL)
	if feedURL == "" {
		return nil
	}

	event, err := r.client.NextEvent(ctx, feedURL, doc.String(settings.KeyCalendarFilter), time.Now().UTC())
	if err != nil {
		r.logger.Warn("calendar fetch failed, keeping previous override", logging.Error(err))
		return err
	}
	if event == nil {
		if r.retainLastGood {
			r.logger.Info("no future calendar event, keeping previous override")
		} else {
			r.logger.Info("no future calendar event, clearing override")
			r.settings.ClearCalendarOverride()
		}
		return nil
	}

	r.settings.ApplyCalendarOverride(event.Summary, event.Start)
	return nil
}

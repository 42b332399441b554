package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"marquee/internal/config"
)

// HTTPDoer describes the HTTP client used to fetch the iCal feed.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Event is the next upcoming calendar entry.
type Event struct {
	Summary string
	Start   time.Time
}

// Client fetches an iCal feed and picks the next future event.
type Client struct {
	client HTTPDoer
}

// NewClient constructs a client with the configured feed timeout.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Calendar.TimeoutSeconds) * time.Second
	return NewClientWith(&http.Client{Timeout: timeout})
}

// NewClientWith constructs a client with an explicit HTTP doer (used in tests).
func NewClientWith(doer HTTPDoer) *Client {
	return &Client{client: doer}
}

// NextEvent returns the event with the earliest start strictly after now,
// optionally filtered by a case-insensitive keyword on the summary. A feed
// without a matching future event yields (nil, nil).
func (c *Client) NextEvent(ctx context.Context, feedURL, keyword string, now time.Time) (*Event, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return nextEvent(cal, keyword, now), nil
}

func nextEvent(cal *ics.Calendar, keyword string, now time.Time) *Event {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	var next *Event

	for _, vevent := range cal.Events() {
		summary := propertyValue(vevent, ics.ComponentPropertySummary)
		if keyword != "" && !strings.Contains(strings.ToLower(summary), keyword) {
			continue
		}

		start, ok := parseStart(propertyValue(vevent, ics.ComponentPropertyDtStart))
		if !ok || !start.After(now) {
			continue
		}
		if next == nil || start.Before(next.Start) {
			next = &Event{Summary: summary, Start: start}
		}
	}
	return next
}

func propertyValue(event *ics.VEvent, name ics.ComponentProperty) string {
	prop := event.GetProperty(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}

// parseStart handles the DTSTART shapes the feeds emit: UTC timestamps,
// naive timestamps (assumed UTC), and all-day dates.
func parseStart(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"20060102T150405Z", "20060102T150405", "20060102"} {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

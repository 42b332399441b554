package slides

import (
	"fmt"
	"math"
	"strings"
	"time"

	"marquee/internal/notion"
)

// Database column names the normalizer reads.
const (
	propName        = "Name"
	propDescription = "Description"
	propMedia       = "Media"
	propDate        = "Date"
	propStart       = "Start" // legacy alias for Date
	propDuration    = "Duration"
	propActive      = "Active"
	propLayout      = "Layout"
	propOrder       = "Order"
	propUnsplash    = "Unsplash"
)

// Record is a normalized page that passed the active filters. Media is not
// yet resolved; the raw media-related properties ride along for the
// resolver.
type Record struct {
	Slide     Slide
	MediaProp notion.Property
	StockProp notion.Property
}

// Normalize maps one raw page into a Record, or returns a non-empty skip
// reason when the page is inactive or outside its active window. The caller
// supplies now once per sync cycle so all records see the same snapshot.
func Normalize(page notion.Page, now time.Time) (*Record, string) {
	title := "Untitled"
	if prop, ok := page.Property(propName); ok {
		if text := strings.TrimSpace(prop.PlainText()); text != "" {
			title = text
		}
	}

	// Absent checkbox counts as active.
	if prop, ok := page.Property(propActive); ok && prop.Checkbox != nil && !*prop.Checkbox {
		return nil, "inactive"
	}

	start, end := activeWindow(page)
	if start != nil && now.Before(*start) {
		return nil, fmt.Sprintf("starts in future (%s)", start.Format(time.RFC3339))
	}
	if end != nil && now.After(*end) {
		return nil, fmt.Sprintf("ended in past (%s)", end.Format(time.RFC3339))
	}

	record := &Record{
		Slide: Slide{
			ID:       page.ID,
			Title:    title,
			Type:     MediaText,
			Duration: DefaultDuration,
			Layout:   DefaultLayout,
			Order:    DefaultOrder,
		},
	}

	if prop, ok := page.Property(propDescription); ok {
		record.Slide.Description = prop.PlainText()
	}
	if prop, ok := page.Property(propDuration); ok && prop.Number != nil {
		if duration := int(math.Round(*prop.Number)); duration > 0 {
			record.Slide.Duration = duration
		}
	}
	if prop, ok := page.Property(propLayout); ok && prop.Select != nil {
		if name := strings.TrimSpace(prop.Select.Name); name != "" {
			record.Slide.Layout = name
		}
	}
	if prop, ok := page.Property(propOrder); ok && prop.Number != nil {
		record.Slide.Order = int(math.Round(*prop.Number))
	}
	if prop, ok := page.Property(propMedia); ok {
		record.MediaProp = prop
	}
	if prop, ok := page.Property(propUnsplash); ok {
		record.StockProp = prop
	}

	return record, ""
}

// activeWindow reads the Date property (or the legacy Start alias) and
// returns the optional UTC bounds.
func activeWindow(page notion.Page) (start, end *time.Time) {
	var date *notion.DateRange
	if prop, ok := page.Property(propDate); ok && prop.Date != nil {
		date = prop.Date
	} else if prop, ok := page.Property(propStart); ok && prop.Date != nil {
		date = prop.Date
	}
	if date == nil {
		return nil, nil
	}
	if parsed, ok := parseTimestamp(date.Start); ok {
		start = &parsed
	}
	if parsed, ok := parseTimestamp(date.End); ok {
		end = &parsed
	}
	return start, end
}

// parseTimestamp accepts the timestamp shapes the source emits: RFC 3339
// with offset, a bare date, or a naive datetime, which is taken as UTC.
func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

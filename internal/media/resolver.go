package media

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"marquee/internal/logging"
	"marquee/internal/slides"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".webm": {},
}

// Resolver turns the raw media properties of a record into a cached local
// file. Strategies run in order, first success wins: direct file, stock
// photo, then nothing (text slide).
type Resolver struct {
	cache  *Cache
	logger *slog.Logger
}

// NewResolver constructs a resolver backed by the given cache.
func NewResolver(cache *Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "media-resolver"),
	}
}

type resolution struct {
	filename  string
	mediaType slides.MediaType
}

// Resolve attaches resolved media to the record's slide and returns the
// cached filename, or "" when the slide stays text-only. A failed download
// in one strategy falls through to the next; it never propagates an error,
// so one bad asset cannot abort a sync cycle.
func (r *Resolver) Resolve(ctx context.Context, record *slides.Record) string {
	strategies := []func(context.Context, *slides.Record) *resolution{
		r.resolveDirectFile,
		r.resolveStockPhoto,
	}
	for _, strategy := range strategies {
		if resolved := strategy(ctx, record); resolved != nil {
			record.Slide.SetMedia(resolved.filename, resolved.mediaType)
			return resolved.filename
		}
	}
	return ""
}

// resolveDirectFile handles the files property: first entry wins, filename
// derived from the record id plus the URL's extension.
func (r *Resolver) resolveDirectFile(ctx context.Context, record *slides.Record) *resolution {
	files := record.MediaProp.Files
	if len(files) == 0 {
		return nil
	}
	downloadURL := files[0].DownloadURL()
	if downloadURL == "" {
		return nil
	}

	ext := extensionOf(downloadURL)
	filename := record.Slide.ID + ext
	if err := r.cache.Ensure(ctx, downloadURL, filename); err != nil {
		r.logger.Warn("direct media download failed",
			logging.String("slide", record.Slide.ID),
			logging.Error(err))
		return nil
	}
	return &resolution{filename: filename, mediaType: mediaTypeFor(ext)}
}

// resolveStockPhoto handles the Unsplash property, which may hold a full
// photo page URL or a bare photo id.
func (r *Resolver) resolveStockPhoto(ctx context.Context, record *slides.Record) *resolution {
	value := stockValue(record)
	if value == "" {
		return nil
	}

	photoID, ok := unsplashPhotoID(value)
	if !ok {
		r.logger.Warn("unrecognized stock photo reference",
			logging.String("slide", record.Slide.ID),
			logging.String("value", value))
		return nil
	}

	downloadURL := "https://unsplash.com/photos/" + photoID + "/download"
	filename := "stock_" + photoID + ".jpg"
	if err := r.cache.Ensure(ctx, downloadURL, filename); err != nil {
		r.logger.Warn("stock photo download failed",
			logging.String("slide", record.Slide.ID),
			logging.String("photo", photoID),
			logging.Error(err))
		return nil
	}
	return &resolution{filename: filename, mediaType: slides.MediaImage}
}

func stockValue(record *slides.Record) string {
	if record.StockProp.URL != nil {
		return strings.TrimSpace(*record.StockProp.URL)
	}
	return strings.TrimSpace(record.StockProp.PlainText())
}

// unsplashPhotoID extracts the photo identifier from an unsplash.com photo
// URL, or accepts a bare identifier with no URL syntax at all.
func unsplashPhotoID(value string) (string, bool) {
	if !strings.Contains(value, "/") && !strings.Contains(value, ".") {
		return value, value != ""
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", false
	}
	if !strings.Contains(parsed.Host, "unsplash.com") {
		return "", false
	}
	_, rest, found := strings.Cut(parsed.Path, "/photos/")
	if !found {
		return "", false
	}
	photoID, _, _ := strings.Cut(strings.Trim(rest, "/"), "/")
	return photoID, photoID != ""
}

func extensionOf(rawURL string) string {
	ext := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(parsed.Path)
	}
	if ext == "" {
		ext = ".jpg"
	}
	return strings.ToLower(ext)
}

func mediaTypeFor(ext string) slides.MediaType {
	if _, ok := videoExtensions[strings.ToLower(ext)]; ok {
		return slides.MediaVideo
	}
	return slides.MediaImage
}

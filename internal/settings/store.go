package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"marquee/internal/fileutil"
	"marquee/internal/logging"
)

// Document is the flat settings mapping served to clients.
type Document map[string]any

// String returns the named value as a string, or "" for absent or
// differently typed values.
func (d Document) String(key string) string {
	if value, ok := d[key].(string); ok {
		return value
	}
	return ""
}

// Bool returns the named value as a bool, false otherwise.
func (d Document) Bool(key string) bool {
	if value, ok := d[key].(bool); ok {
		return value
	}
	return false
}

// CalendarOverride is the ephemeral countdown state derived from the
// calendar feed. It shadows the persisted countdown title and target at
// read time and is never written to disk.
type CalendarOverride struct {
	Title  string
	Target string
}

// Store owns the persisted settings document plus the in-memory override
// layer. It is the sole writer of the settings file.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	override *CalendarOverride
}

// NewStore binds a store to the document path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "settings"),
	}
}

// Path returns the persisted document location (served raw by the backup
// endpoint).
func (s *Store) Path() string {
	return s.path
}

// Get merges defaults with the persisted document (persisted wins per key,
// unknown persisted keys are preserved) and applies the calendar override
// when countdown_mode is "calendar". A missing or corrupt file degrades to
// defaults; Get never fails.
func (s *Store) Get() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.mergedLocked(nil)
	if merged.String(KeyCountdownMode) == CountdownModeCalendar && s.override != nil {
		merged[KeyCountdownTitle] = s.override.Title
		merged[KeyCountdownTarget] = s.override.Target
	}
	return merged
}

// Save merges defaults, the current persisted document, and partial (new
// values win), persists the result atomically, and returns it. The override
// layer is neither persisted nor cleared.
func (s *Store) Save(partial Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.mergedLocked(partial)
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write settings: %w", err)
	}
	s.logger.Info("settings saved", logging.Int("keys_updated", len(partial)))
	return merged, nil
}

// ApplyCalendarOverride replaces the held override wholesale. The target is
// rendered as UTC RFC 3339 for the display client.
func (s *Store) ApplyCalendarOverride(title string, target time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = &CalendarOverride{
		Title:  title,
		Target: target.UTC().Format(time.RFC3339),
	}
	s.logger.Info("calendar override applied",
		logging.String("title", title),
		logging.Time("target", target.UTC()))
}

// ClearCalendarOverride drops the held override. The refresh task only calls
// this when last-good-value retention is disabled.
func (s *Store) ClearCalendarOverride() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = nil
}

// Override returns a copy of the held override, or nil.
func (s *Store) Override() *CalendarOverride {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override == nil {
		return nil
	}
	copied := *s.override
	return &copied
}

// Raw returns the persisted file verbatim for the backup endpoint.
func (s *Store) Raw() ([]byte, error) {
	return os.ReadFile(s.path)
}

func (s *Store) mergedLocked(partial Document) Document {
	merged := Defaults()
	for key, value := range s.persistedLocked() {
		merged[key] = value
	}
	for key, value := range partial {
		merged[key] = value
	}
	return merged
}

func (s *Store) persistedLocked() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("read settings failed, using defaults", logging.Error(err))
		}
		return nil
	}
	var persisted Document
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.logger.Error("settings file corrupt, using defaults", logging.Error(err))
		return nil
	}
	return persisted
}

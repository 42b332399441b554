// Package playlist persists the published playlist document. The sync
// pipeline is its only writer; HTTP readers get whole snapshots because
// every publish replaces the file atomically.
package playlist

import (
	"encoding/json"
	"fmt"
	"os"

	"marquee/internal/fileutil"
	"marquee/internal/slides"
)

// Store reads and replaces the playlist document at a fixed path.
type Store struct {
	path string
}

// NewStore binds a store to the document path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Publish replaces the document with the full ordered slide list. An empty
// playlist serializes as an empty array, never null.
func (s *Store) Publish(list []slides.Slide) error {
	if list == nil {
		list = []slides.Slide{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode playlist: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}

// Load returns the current snapshot, or an empty playlist when the document
// does not exist yet.
func (s *Store) Load() ([]slides.Slide, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []slides.Slide{}, nil
		}
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	var list []slides.Slide
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}
	if list == nil {
		list = []slides.Slide{}
	}
	return list, nil
}

// Raw returns the document bytes verbatim for HTTP serving, substituting an
// empty array when the file is absent.
func (s *Store) Raw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte("[]"), nil
		}
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return data, nil
}

// Package tts synthesizes advisory text to speech and caches the resulting
// MP3 files on disk, keyed by opaque audio ids.
package tts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jalmitra/groundwater-advisory/internal/observability"
)

// Store is a disk-backed audio cache. Files are named "<uuid>.mp3" inside a
// dedicated directory; ids are validated as UUIDs on lookup so a crafted id
// can never escape the cache directory.
type Store struct {
	dir     string
	metrics *observability.Metrics
}

// NewStore creates the cache directory if needed and returns a Store.
func NewStore(dir string, metrics *observability.Metrics) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio cache dir: %w", err)
	}
	return &Store{dir: dir, metrics: metrics}, nil
}

// Save writes MP3 data under a fresh audio id and returns the id.
func (s *Store) Save(audio []byte) (string, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+".mp3")
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return id, nil
}

// Path resolves an audio id to its cached file path. Returns false for
// malformed ids and cache misses.
func (s *Store) Path(id string) (string, bool) {
	if _, err := uuid.Parse(id); err != nil {
		s.metrics.AudioCache.WithLabelValues("miss").Inc()
		return "", false
	}
	path := filepath.Join(s.dir, id+".mp3")
	if _, err := os.Stat(path); err != nil {
		s.metrics.AudioCache.WithLabelValues("miss").Inc()
		return "", false
	}
	s.metrics.AudioCache.WithLabelValues("hit").Inc()
	return path, true
}

// Package metadata tracks the per-project starred flag and last-opened
// timestamp that drive list ranking. Records are keyed by absolute
// project path; a missing or unreadable record is equivalent to the
// zero Metadata.
package metadata

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"projector/internal/kvstore"
)

const keyPrefix = "project-metadata:"

// Metadata is the ranking state for one project. LastOpened is a
// millisecond epoch timestamp; 0 means never opened.
type Metadata struct {
	Starred    bool  `json:"starred"`
	LastOpened int64 `json:"lastOpened,omitempty"`
}

// Update is a partial Metadata; nil fields leave the stored value alone.
type Update struct {
	Starred    *bool
	LastOpened *int64
}

// Store reads and writes Metadata records through a key-value store.
type Store struct {
	kv  kvstore.Store
	log *slog.Logger
	now func() time.Time
}

// NewStore returns a metadata store backed by kv.
func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, log: logger, now: time.Now}
}

// Get returns the metadata for path. Absent and corrupt records both
// yield the zero Metadata.
func (s *Store) Get(path string) Metadata {
	raw, ok, err := s.kv.Get(keyPrefix + path)
	if err != nil || !ok {
		return Metadata{}
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		// Poisoned record; it self-heals on the next write.
		return Metadata{}
	}
	return m
}

// Map fetches metadata for every path concurrently and returns the
// results keyed by path. Paths with no record map to the zero Metadata.
func (s *Store) Map(ctx context.Context, paths []string) map[string]Metadata {
	out := make(map[string]Metadata, len(paths))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			m := s.Get(path)
			mu.Lock()
			out[path] = m
			mu.Unlock()
			return nil
		})
	}
	g.Wait() // reads never return errors

	return out
}

// Apply merges u into the stored record for path and persists the
// result. Last-writer-wins; there is no cross-process locking.
func (s *Store) Apply(path string, u Update) error {
	m := s.Get(path)
	if u.Starred != nil {
		m.Starred = *u.Starred
	}
	if u.LastOpened != nil {
		m.LastOpened = *u.LastOpened
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.kv.Set(keyPrefix+path, string(data))
}

// ToggleStarred flips the starred flag for path and returns the new
// value.
func (s *Store) ToggleStarred(path string) (bool, error) {
	starred := !s.Get(path).Starred
	if err := s.Apply(path, Update{Starred: &starred}); err != nil {
		return false, err
	}
	return starred, nil
}

// RecordOpened stamps path's lastOpened with the current time.
func (s *Store) RecordOpened(path string) error {
	ms := s.now().UnixMilli()
	return s.Apply(path, Update{LastOpened: &ms})
}

// Forget removes the record for path. Called when the project itself is
// deleted.
func (s *Store) Forget(path string) error {
	return s.kv.Remove(keyPrefix + path)
}

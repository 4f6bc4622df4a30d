// Package customize stores per-project icon/color overrides and notifies
// subscribers when a project's customization changes, so independently
// rendered views of the same path stay in sync without polling.
//
// The full customization map lives under a single storage key. A record
// whose icon and color are both empty is removed outright rather than
// stored as an empty object; "has the user customized this project?" is
// answered by record presence.
package customize

import (
	"encoding/json"
	"log/slog"
	"sync"

	"projector/internal/kvstore"
)

const storageKey = "project-customizations"

// Customization is a user-chosen display override. Empty fields are
// absent.
type Customization struct {
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

func (c Customization) isZero() bool { return c.Icon == "" && c.Color == "" }

// Update is a partial Customization: nil fields leave the stored value
// alone, pointer-to-empty clears a field.
type Update struct {
	Icon  *string
	Color *string
}

// Subscriber receives the effective customization after every save for
// its path; nil means the record was removed.
type Subscriber func(c *Customization)

type subscription struct {
	path string
	fn   Subscriber
}

// Store persists customizations and dispatches change notifications.
type Store struct {
	kv  kvstore.Store
	log *slog.Logger

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

// NewStore returns a customization store backed by kv.
func NewStore(kv kvstore.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:   kv,
		log:  logger,
		subs: make(map[*subscription]struct{}),
	}
}

// All returns every stored customization keyed by project path. A
// missing or corrupt map reads as empty.
func (s *Store) All() map[string]Customization {
	raw, ok, err := s.kv.Get(storageKey)
	if err != nil || !ok {
		return map[string]Customization{}
	}
	var m map[string]Customization
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return map[string]Customization{}
	}
	return m
}

// Get returns the customization for path, or nil if the project has
// none.
func (s *Store) Get(path string) *Customization {
	c, ok := s.All()[path]
	if !ok {
		return nil
	}
	return &c
}

// Save merges u into the record for path and persists the map. A nil
// update, or a merge result with both fields empty, removes the record.
// All subscribers registered for path are then invoked synchronously
// with the effective value.
func (s *Store) Save(path string, u *Update) error {
	m := s.All()

	var effective *Customization
	if u == nil || (u.Icon == nil && u.Color == nil) {
		delete(m, path)
	} else {
		c := m[path]
		if u.Icon != nil {
			c.Icon = *u.Icon
		}
		if u.Color != nil {
			c.Color = *u.Color
		}
		if c.isZero() {
			delete(m, path)
		} else {
			m[path] = c
			effective = &c
		}
	}

	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.kv.Set(storageKey, string(data)); err != nil {
		return err
	}

	s.notify(path, effective)
	return nil
}

// Forget removes the record for path without merge semantics. Used when
// the project itself is deleted.
func (s *Store) Forget(path string) error {
	return s.Save(path, nil)
}

// Subscribe registers fn for change notifications on path and returns a
// cancel function. Safe to call from a notification callback.
func (s *Store) Subscribe(path string, fn Subscriber) (cancel func()) {
	sub := &subscription{path: path, fn: fn}
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	}
}

// notify invokes every subscriber registered for path. The subscriber
// set is snapshotted under the lock and callbacks run outside it, so a
// callback may subscribe or cancel without deadlocking.
func (s *Store) notify(path string, c *Customization) {
	s.mu.Lock()
	matched := make([]Subscriber, 0, len(s.subs))
	for sub := range s.subs {
		if sub.path == path {
			matched = append(matched, sub.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range matched {
		fn(c)
	}
}

package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"projector/internal/kvstore"
)

func newTestStore() (*Store, *kvstore.MemStore) {
	kv := kvstore.NewMem()
	s := NewStore(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s, kv
}

func TestGet_Defaults(t *testing.T) {
	s, _ := newTestStore()

	m := s.Get("/projects/app")
	if m.Starred {
		t.Error("absent record should not be starred")
	}
	if m.LastOpened != 0 {
		t.Errorf("absent record lastOpened = %d, want 0", m.LastOpened)
	}
}

func TestGet_CorruptRecordFallsBack(t *testing.T) {
	s, kv := newTestStore()
	kv.Set(keyPrefix+"/p", "{not json")

	m := s.Get("/p")
	if m != (Metadata{}) {
		t.Errorf("corrupt record should read as zero Metadata, got %+v", m)
	}

	// A write self-heals the record.
	starred := true
	if err := s.Apply("/p", Update{Starred: &starred}); err != nil {
		t.Fatal(err)
	}
	if !s.Get("/p").Starred {
		t.Error("record should be readable after rewrite")
	}
}

func TestToggleStarred(t *testing.T) {
	s, _ := newTestStore()
	path := "/projects/app"

	got, err := s.ToggleStarred(path)
	if err != nil || !got {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", got, err)
	}
	if !s.Get(path).Starred {
		t.Error("toggle should persist")
	}

	got, err = s.ToggleStarred(path)
	if err != nil || got {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", got, err)
	}
	if s.Get(path).Starred {
		t.Error("second toggle should persist the flip back")
	}
}

func TestRecordOpened(t *testing.T) {
	s, _ := newTestStore()
	fixed := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if err := s.RecordOpened("/p"); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("/p").LastOpened; got != fixed.UnixMilli() {
		t.Errorf("lastOpened = %d, want %d", got, fixed.UnixMilli())
	}
}

func TestApply_MergesFields(t *testing.T) {
	s, _ := newTestStore()
	path := "/p"

	starred := true
	if err := s.Apply(path, Update{Starred: &starred}); err != nil {
		t.Fatal(err)
	}
	ms := int64(1700000000000)
	if err := s.Apply(path, Update{LastOpened: &ms}); err != nil {
		t.Fatal(err)
	}

	m := s.Get(path)
	if !m.Starred {
		t.Error("starred should survive a lastOpened-only update")
	}
	if m.LastOpened != ms {
		t.Errorf("lastOpened = %d, want %d", m.LastOpened, ms)
	}
}

func TestMap_FetchesAllPaths(t *testing.T) {
	s, _ := newTestStore()

	var paths []string
	for i := 0; i < 50; i++ {
		p := fmt.Sprintf("/projects/app-%02d", i)
		paths = append(paths, p)
		if i%3 == 0 {
			if _, err := s.ToggleStarred(p); err != nil {
				t.Fatal(err)
			}
		}
	}

	got := s.Map(context.Background(), paths)
	if len(got) != len(paths) {
		t.Fatalf("Map returned %d entries, want %d", len(got), len(paths))
	}
	for i, p := range paths {
		if got[p].Starred != (i%3 == 0) {
			t.Errorf("path %s starred = %v, want %v", p, got[p].Starred, i%3 == 0)
		}
	}
}

func TestForget(t *testing.T) {
	s, kv := newTestStore()
	if _, err := s.ToggleStarred("/p"); err != nil {
		t.Fatal(err)
	}
	if err := s.Forget("/p"); err != nil {
		t.Fatal(err)
	}
	if kv.Len() != 0 {
		t.Errorf("store should be empty after Forget, has %d records", kv.Len())
	}
}

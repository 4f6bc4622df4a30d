package kvstore

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func TestSQLiteStore_GetSetRemove(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: got ok=%v err=%v, want absent", ok, err)
	}

	if err := store.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := store.Get("k")
	if err != nil || !ok || v != "v1" {
		t.Fatalf("Get = (%q, %v, %v), want (v1, true, nil)", v, ok, err)
	}

	// Overwrite
	if err := store.Set("k", "v2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	v, _, _ = store.Get("k")
	if v != "v2" {
		t.Errorf("got %q after overwrite, want v2", v)
	}

	if err := store.Remove("k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("key should be gone after Remove")
	}

	// Removing an absent key is fine
	if err := store.Remove("k"); err != nil {
		t.Errorf("Remove of absent key errored: %v", err)
	}
}

// Concurrent Gets must all see the same database. With a connection
// pool larger than one, an in-memory store hands each extra connection
// its own empty database.
func TestSQLiteStore_ConcurrentGetsShareMemoryDatabase(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer store.Close()

	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				v, ok, err := store.Get("k")
				if err != nil || !ok || v != "v" {
					errs <- fmt.Errorf("Get = (%q, %v, %v), want (v, true, nil)", v, ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	if err := store.Set("key", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Get("key")
	if err != nil || !ok || v != "value" {
		t.Fatalf("Get after reopen = (%q, %v, %v), want (value, true, nil)", v, ok, err)
	}
}

func TestSQLiteStore_Closed(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	store.Close()

	if err := store.Set("k", "v"); err != ErrClosed {
		t.Errorf("Set on closed store: got %v, want ErrClosed", err)
	}
	if _, _, err := store.Get("k"); err != ErrClosed {
		t.Errorf("Get on closed store: got %v, want ErrClosed", err)
	}
	// Double close is a no-op
	if err := store.Close(); err != nil {
		t.Errorf("second Close errored: %v", err)
	}
}

func TestMemStore(t *testing.T) {
	store := NewMem()
	if err := store.Set("a", "1"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := store.Get("a"); !ok || v != "1" {
		t.Fatalf("Get = (%q, %v), want (1, true)", v, ok)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
	store.Remove("a")
	if _, ok, _ := store.Get("a"); ok {
		t.Error("key should be gone")
	}
}

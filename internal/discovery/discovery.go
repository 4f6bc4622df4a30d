// Package discovery scans configured root directories for project
// folders and ranks them for display: starred first, most recently
// opened next, then by name. The last successful listing is cached so
// the UI can paint instantly while a live scan runs in the background.
package discovery

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"projector/internal/kvstore"
	"projector/internal/metadata"
)

const cacheKey = "projects-cache"

// Project is one launchable directory entry. Identity is the absolute
// filesystem path.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Engine performs discovery scans with stale-while-revalidate caching.
// Each Discover call supersedes any in-flight one; results of a
// superseded scan are discarded rather than allowed to clobber newer
// state.
type Engine struct {
	kv   kvstore.Store
	meta *metadata.Store
	log  *slog.Logger

	mu  sync.Mutex
	gen uint64
}

// NewEngine returns an Engine backed by kv for the listing cache and
// meta for ranking.
func NewEngine(kv kvstore.Store, meta *metadata.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{kv: kv, meta: meta, log: logger}
}

// Discover runs the full discovery flow for roots. If a cached listing
// exists it is re-ranked with current metadata and handed to apply
// immediately; the live scan result is then ranked, persisted as the
// new cache, and handed to apply again. apply runs under the engine's
// supersession check and must not call back into Discover.
func (e *Engine) Discover(ctx context.Context, roots []string, apply func([]Project)) {
	gen := e.begin()

	if cached, ok := e.cachedListing(); ok {
		ranked := e.rank(ctx, cached)
		e.ifCurrent(gen, func() {
			apply(ranked)
		})
	}

	fresh := e.Scan(ctx, roots)
	ranked := e.rank(ctx, fresh)
	e.ifCurrent(gen, func() {
		e.persist(ranked)
		apply(ranked)
	})
}

// Scan lists the immediate subdirectories of each root, preserving root
// input order and directory-listing order within a root. Roots are read
// concurrently; a root that cannot be read logs an error and
// contributes nothing.
func (e *Engine) Scan(ctx context.Context, roots []string) []Project {
	perRoot := make([][]Project, len(roots))

	g, _ := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			entries, err := os.ReadDir(root)
			if err != nil {
				e.log.Error("failed to read projects directory", "dir", root, "error", err)
				return nil
			}
			var list []Project
			for _, entry := range entries {
				if !entry.IsDir() {
					continue
				}
				list = append(list, Project{
					Name: entry.Name(),
					Path: filepath.Join(root, entry.Name()),
				})
			}
			perRoot[i] = list
			return nil
		})
	}
	g.Wait() // per-root failures are logged, never returned

	var all []Project
	for _, list := range perRoot {
		all = append(all, list...)
	}
	return all
}

// Cached returns the persisted listing from the previous scan, ranked
// with current metadata.
func (e *Engine) Cached(ctx context.Context) ([]Project, bool) {
	listing, ok := e.cachedListing()
	if !ok {
		return nil, false
	}
	return e.rank(ctx, listing), true
}

// rank fetches metadata for every project and stable-sorts by starred
// desc, lastOpened desc, then locale-aware name asc.
func (e *Engine) rank(ctx context.Context, projects []Project) []Project {
	paths := make([]string, len(projects))
	for i, p := range projects {
		paths[i] = p.Path
	}
	metaMap := e.meta.Map(ctx, paths)
	return Rank(projects, metaMap)
}

// Rank returns a new slice sorted by (starred desc, lastOpened desc,
// name asc). Absent metadata ranks as unstarred and never opened. The
// sort is stable, so equal entries keep their scan order.
func Rank(projects []Project, metaMap map[string]metadata.Metadata) []Project {
	collator := collate.New(language.Und)

	sorted := make([]Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ma, mb := metaMap[a.Path], metaMap[b.Path]
		if ma.Starred != mb.Starred {
			return ma.Starred
		}
		if ma.LastOpened != mb.LastOpened {
			return ma.LastOpened > mb.LastOpened
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})
	return sorted
}

// begin stamps a new scan generation and returns it.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	return e.gen
}

// ifCurrent runs fn only when gen is still the latest issued
// generation. The check and fn execute under the engine lock, so a
// stale scan can never interleave its cache write with a newer one.
func (e *Engine) ifCurrent(gen uint64, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	fn()
}

func (e *Engine) cachedListing() ([]Project, bool) {
	raw, ok, err := e.kv.Get(cacheKey)
	if err != nil || !ok {
		return nil, false
	}
	var listing []Project
	if err := json.Unmarshal([]byte(raw), &listing); err != nil {
		return nil, false
	}
	return listing, true
}

// persist replaces the cached listing in full.
func (e *Engine) persist(projects []Project) {
	data, err := json.Marshal(projects)
	if err != nil {
		return
	}
	if err := e.kv.Set(cacheKey, string(data)); err != nil {
		e.log.Error("failed to cache project listing", "error", err)
	}
}

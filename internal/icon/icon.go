// Package icon resolves a representative icon file for a project by
// inspecting its package.json manifest and by matching common icon
// filenames in well-known locations. Results, including "no icon
// found", are cached per project path with no expiry; stale results
// persist until explicitly invalidated.
package icon

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"projector/internal/kvstore"
)

const cachePrefix = "project-icon:"

// Candidate file names and extensions, in priority order. Extension
// order doubles as the tie-break ranking.
var (
	iconNames      = []string{"icon", "logo", "favicon", "app-icon", "appicon"}
	iconExtensions = []string{"svg", "png", "ico", "gif", "jpg", "jpeg"}

	// Directories searched relative to the project root. "" is the root
	// itself.
	searchDirs = []string{"", "assets", "public", filepath.Join("src", "assets")}
)

// Resolver finds and caches default project icons.
type Resolver struct {
	kv  kvstore.Store
	log *slog.Logger
}

// NewResolver returns a Resolver backed by kv.
func NewResolver(kv kvstore.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{kv: kv, log: logger}
}

// Cached returns the cached resolution for projectPath. resolved=false
// means the cache holds nothing usable and Find should run; a resolved
// empty icon means "no icon found" was cached.
func (r *Resolver) Cached(projectPath string) (icon string, resolved bool) {
	raw, ok, err := r.kv.Get(cachePrefix + projectPath)
	if err != nil || !ok {
		return "", false
	}
	var cached *string
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return "", false
	}
	if cached == nil {
		return "", true
	}
	return *cached, true
}

// Find returns the default icon path for projectPath, or "" when no
// icon exists. A prior resolution short-circuits the search entirely;
// any filesystem error is swallowed and cached as "no icon".
func (r *Resolver) Find(projectPath string) string {
	if icon, resolved := r.Cached(projectPath); resolved {
		return icon
	}

	if icon := r.manifestIcon(projectPath); icon != "" {
		r.cache(projectPath, icon)
		return icon
	}

	if icon := searchIcon(projectPath); icon != "" {
		r.cache(projectPath, icon)
		return icon
	}

	r.cache(projectPath, "")
	return ""
}

// Invalidate drops the cached resolution so the next Find re-scans.
func (r *Resolver) Invalidate(projectPath string) error {
	return r.kv.Remove(cachePrefix + projectPath)
}

// cache stores the resolution; "" is persisted as an explicit JSON null.
func (r *Resolver) cache(projectPath, icon string) {
	var v *string
	if icon != "" {
		v = &icon
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.kv.Set(cachePrefix+projectPath, string(data)); err != nil {
		r.log.Error("failed to cache icon", "project", projectPath, "error", err)
	}
}

// manifestIcon reads package.json and, if it declares an icon, tests
// that path relative to the project root and under assets/.
func (r *Resolver) manifestIcon(projectPath string) string {
	data, err := os.ReadFile(filepath.Join(projectPath, "package.json"))
	if err != nil {
		return ""
	}
	var manifest struct {
		Icon string `json:"icon"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil || manifest.Icon == "" {
		return ""
	}

	for _, candidate := range []string{
		filepath.Join(projectPath, manifest.Icon),
		filepath.Join(projectPath, "assets", manifest.Icon),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// searchIcon scans the well-known directories for candidate icon files
// and returns the best-ranked match, or "".
func searchIcon(projectPath string) string {
	var candidates []string
	for _, dir := range searchDirs {
		entries, err := os.ReadDir(filepath.Join(projectPath, dir))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if matchesIconName(entry.Name()) {
				candidates = append(candidates, filepath.Join(projectPath, dir, entry.Name()))
			}
		}
	}
	return bestCandidate(candidates)
}

// matchesIconName reports whether name is <iconName>.<iconExtension>,
// case-insensitively.
func matchesIconName(name string) bool {
	lower := strings.ToLower(name)
	ext := strings.TrimPrefix(filepath.Ext(lower), ".")
	base := strings.TrimSuffix(lower, "."+ext)

	if !contains(iconExtensions, ext) {
		return false
	}
	return contains(iconNames, base)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// bestCandidate ranks matches by path depth (shallowest first), then
// extension priority, then lexicographic path order.
func bestCandidate(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		da, db := pathDepth(a), pathDepth(b)
		if da != db {
			return da < db
		}
		ea, eb := extRank(a), extRank(b)
		if ea != eb {
			return ea < eb
		}
		return a < b
	})
	return candidates[0]
}

func pathDepth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}

func extRank(path string) int {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for i, e := range iconExtensions {
		if e == ext {
			return i
		}
	}
	return len(iconExtensions)
}

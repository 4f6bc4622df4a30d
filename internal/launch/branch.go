package launch

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"projector/internal/kvstore"
)

const branchCachePrefix = "git-info-cache:"

// branchRecord is the persisted probe outcome. A nil Branch means "not
// a repo, or the lookup failed" -- the two are indistinguishable here.
type branchRecord struct {
	Branch *string `json:"branch"`
}

// BranchProbe reads the current git branch of a directory, caching
// every outcome (including "no branch") with no expiry.
type BranchProbe struct {
	kv  kvstore.Store
	run Runner
	log *slog.Logger
}

// NewBranchProbe returns a probe backed by kv.
func NewBranchProbe(kv kvstore.Store, run Runner, logger *slog.Logger) *BranchProbe {
	if run == nil {
		run = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BranchProbe{kv: kv, run: run, log: logger}
}

// Branch returns the current branch name for dir, or "" when dir is not
// a repository or the lookup failed. A cached outcome short-circuits
// the probe; a missing .git directory short-circuits the git query.
func (p *BranchProbe) Branch(ctx context.Context, dir string) string {
	if branch, ok := p.cached(dir); ok {
		return branch
	}

	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		p.cache(dir, "")
		return ""
	}

	branch := p.query(ctx, dir)
	p.cache(dir, branch)
	return branch
}

// Invalidate drops the cached outcome for dir.
func (p *BranchProbe) Invalidate(dir string) error {
	return p.kv.Remove(branchCachePrefix + dir)
}

// query runs a single read-only branch lookup. --no-optional-locks
// keeps a background probe from fighting an in-progress git write over
// .git/index.lock.
func (p *BranchProbe) query(ctx context.Context, dir string) string {
	out, err := p.run.Output(ctx, "git", "--no-optional-locks", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		p.log.Debug("branch lookup failed", "dir", dir, "error", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (p *BranchProbe) cached(dir string) (string, bool) {
	raw, ok, err := p.kv.Get(branchCachePrefix + dir)
	if err != nil || !ok {
		return "", false
	}
	var rec branchRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", false
	}
	if rec.Branch == nil {
		return "", true
	}
	return *rec.Branch, true
}

func (p *BranchProbe) cache(dir, branch string) {
	rec := branchRecord{}
	if branch != "" {
		rec.Branch = &branch
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := p.kv.Set(branchCachePrefix+dir, string(data)); err != nil {
		p.log.Error("failed to cache branch", "dir", dir, "error", err)
	}
}

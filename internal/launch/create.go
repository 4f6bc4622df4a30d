package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"projector/internal/wslpath"
)

// InitType selects how a new project directory is initialized.
type InitType string

const (
	InitClone  InitType = "clone"
	InitGit    InitType = "git"
	InitFolder InitType = "none"
)

// ErrNoRepoURL is returned when a clone is requested without a URL.
var ErrNoRepoURL = errors.New("repository URL is required")

// ErrNoProjectName is returned when no project name was given and none
// could be derived.
var ErrNoProjectName = errors.New("project name is required")

// CreateRequest describes a project to create under one of the
// configured roots.
type CreateRequest struct {
	Directory string
	Name      string
	RepoURL   string
	Init      InitType
}

// Creator makes new project directories, optionally cloning a
// repository into them or initializing an empty one.
type Creator struct {
	run Runner
	log *slog.Logger
}

func NewCreator(run Runner, logger *slog.Logger) *Creator {
	if run == nil {
		run = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Creator{run: run, log: logger}
}

// Create validates req, makes the project directory, and runs the
// requested git step. It returns the new project path. The directory
// may be left behind when the git step fails; a rescan will pick it up
// and the user can delete it.
func (c *Creator) Create(ctx context.Context, req CreateRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	url := strings.TrimSpace(req.RepoURL)

	switch req.Init {
	case InitClone:
		if url == "" {
			return "", ErrNoRepoURL
		}
		if name == "" {
			name = RepoNameFromURL(url)
		}
	default:
		if name == "" {
			return "", ErrNoProjectName
		}
	}
	if name == "" {
		return "", ErrNoProjectName
	}

	path := filepath.Join(req.Directory, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create project folder: %w", err)
	}

	switch req.Init {
	case InitClone:
		c.log.Info("cloning repository", "url", url, "path", path)
		argv := gitArgv(path, "clone", url, targetPath(path))
		if err := c.run.Run(ctx, argv[0], argv[1:]...); err != nil {
			return "", fmt.Errorf("clone repository: %w", err)
		}
	case InitGit:
		c.log.Info("initializing repository", "path", path)
		argv := gitArgv(path, "-C", targetPath(path), "init")
		if err := c.run.Run(ctx, argv[0], argv[1:]...); err != nil {
			return "", fmt.Errorf("init repository: %w", err)
		}
	}

	return path, nil
}

// gitArgv builds a git invocation for path. Projects on a WSL share
// run git inside the distro so the repository ends up with in-distro
// line endings and hooks.
func gitArgv(path string, args ...string) []string {
	if wslpath.IsWSLPath(path) {
		return append([]string{"wsl", "git"}, args...)
	}
	return append([]string{"git"}, args...)
}

// targetPath is the path as the git binary will see it.
func targetPath(path string) string {
	if wslpath.IsWSLPath(path) {
		return wslpath.ToWSLPath(path)
	}
	return path
}

var repoURLTailRe = regexp.MustCompile(`\.git$|#.*$|\?.*$`)

// RepoNameFromURL derives a project name from a repository URL: the
// last path segment with any .git suffix, fragment, or query stripped.
func RepoNameFromURL(url string) string {
	trimmed := repoURLTailRe.ReplaceAllString(strings.TrimSpace(url), "")
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}

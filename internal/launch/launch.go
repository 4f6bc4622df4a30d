// Package launch opens projects in the configured external editor and
// probes directories for their current git branch.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"projector/internal/metadata"
	"projector/internal/wslpath"
)

// ErrNoDefaultDistro is returned when a WSL-style path is opened but no
// default WSL distribution could be resolved.
var ErrNoDefaultDistro = errors.New("could not find default WSL distro")

// ErrNoEditor is returned when the editor preference is empty.
var ErrNoEditor = errors.New("no editor configured")

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Launcher builds and executes the editor command for a project and
// records successful opens.
type Launcher struct {
	editor []string
	wsl    *wslpath.Resolver
	meta   *metadata.Store
	run    Runner
	log    *slog.Logger
}

// NewLauncher returns a Launcher. editor is the argument vector of the
// editor command (e.g. ["code", "-n"]); the project path is appended as
// the final argument, never interpolated through a shell.
func NewLauncher(editor []string, wsl *wslpath.Resolver, meta *metadata.Store, run Runner, logger *slog.Logger) *Launcher {
	if run == nil {
		run = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{editor: editor, wsl: wsl, meta: meta, run: run, log: logger}
}

// Open launches the editor on path, translating WSL share paths into
// in-distro paths first. On success the open is recorded in the
// metadata store; on any failure nothing is recorded and the error is
// returned for the caller to surface.
func (l *Launcher) Open(ctx context.Context, path string) error {
	argv, err := l.command(ctx, path)
	if err != nil {
		return err
	}

	l.log.Info("opening project", "path", path, "command", argv)
	if err := l.run.Run(ctx, argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("launch editor: %w", err)
	}

	if err := l.meta.RecordOpened(path); err != nil {
		l.log.Error("failed to record open", "path", path, "error", err)
	}
	return nil
}

// command builds the editor argument vector for path.
func (l *Launcher) command(ctx context.Context, path string) ([]string, error) {
	if len(l.editor) == 0 {
		return nil, ErrNoEditor
	}

	argv := make([]string, len(l.editor), len(l.editor)+3)
	copy(argv, l.editor)

	if wslpath.IsWSLPath(path) {
		distro := l.wsl.DefaultDistro(ctx)
		if distro == "" {
			return nil, ErrNoDefaultDistro
		}
		argv = append(argv, "-n", "--remote=wsl+"+distro, wslpath.ToWSLPath(path))
		return argv, nil
	}

	return append(argv, path), nil
}

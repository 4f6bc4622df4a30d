// Package wslpath detects WSL-style project paths and translates them
// into paths usable inside the default WSL distribution.
package wslpath

import (
	"context"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
)

var (
	// "Default Distribution: <name>" from `wsl --status`. wsl.exe emits
	// UTF-16 output, so NUL bytes are stripped before matching.
	distroRe = regexp.MustCompile(`(?i)Default Distribution:\s*(.+)`)

	// Leading \\wsl.localhost\<distro>\ share prefix, after backslashes
	// have been normalized to forward slashes.
	sharePrefixRe = regexp.MustCompile(`//wsl\.localhost/[^/]*/`)
)

// IsWSLPath reports whether path looks like it lives inside WSL. This is
// a substring heuristic, not a UNC parse: any path mentioning "wsl"
// matches.
func IsWSLPath(path string) bool {
	return strings.Contains(path, "wsl")
}

// ToWSLPath converts a \\wsl.localhost\<distro>\... share path into the
// POSIX path seen inside the distribution. Paths without the share
// prefix only get their backslashes normalized.
func ToWSLPath(path string) string {
	slashed := strings.ReplaceAll(path, `\`, "/")
	if loc := sharePrefixRe.FindStringIndex(slashed); loc != nil {
		return slashed[:loc[0]] + "/" + slashed[loc[1]:]
	}
	return slashed
}

// Runner executes a host command and returns its combined stdout.
// Injectable so tests never shell out.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Resolver discovers the default WSL distribution.
type Resolver struct {
	run Runner
	log *slog.Logger
}

// NewResolver returns a Resolver using the given runner. A nil runner
// defaults to ExecRunner.
func NewResolver(run Runner, logger *slog.Logger) *Resolver {
	if run == nil {
		run = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{run: run, log: logger}
}

// DefaultDistro queries `wsl --status` and extracts the default
// distribution name. It returns "" on any failure: binary missing,
// non-zero exit, or output without a recognizable line.
func (r *Resolver) DefaultDistro(ctx context.Context) string {
	out, err := r.run.Output(ctx, "wsl", "--status")
	if err != nil {
		r.log.Error("wsl status query failed", "error", err)
		return ""
	}

	cleaned := strings.ReplaceAll(string(out), "\x00", "")
	m := distroRe.FindStringSubmatch(cleaned)
	if m == nil {
		return ""
	}
	// The capture runs to end of line; trim the trailing \r and spaces.
	return strings.TrimSpace(m[1])
}

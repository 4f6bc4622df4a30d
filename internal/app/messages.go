package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"projector/internal/customize"
	"projector/internal/discovery"
	"projector/internal/launch"
)

// probeTimeout bounds the subprocess probes (wsl status, git) issued on
// behalf of the UI so a wedged binary cannot hang an action forever.
const probeTimeout = 10 * time.Second

// Message types for tea.Cmd.
type (
	// projectsMsg carries a ranked listing, cached or fresh.
	projectsMsg struct {
		projects []discovery.Project
	}

	// scanDoneMsg marks the end of a discovery pass.
	scanDoneMsg struct{}

	// refreshMsg triggers a new discovery pass.
	refreshMsg struct{}

	// eventMsg wraps a message pumped from the events channel so the
	// update loop knows to re-arm the pump.
	eventMsg struct {
		inner tea.Msg
	}

	// branchMsg carries one git branch probe result.
	branchMsg struct {
		path   string
		branch string
	}

	// defaultIconMsg carries one default-icon resolution.
	defaultIconMsg struct {
		path string
		icon string
	}

	// customizationMsg carries a customization change notification.
	customizationMsg struct {
		path  string
		value *customize.Customization
	}

	// openedMsg reports the outcome of an editor launch.
	openedMsg struct {
		path string
		err  error
	}

	// deletedMsg reports the outcome of a project deletion.
	deletedMsg struct {
		path string
		err  error
	}

	// createdMsg reports the outcome of an Add Project submission.
	createdMsg struct {
		name   string
		path   string
		cloned bool
		err    error
	}

	// readmeMsg carries a rendered README preview.
	readmeMsg struct {
		path     string
		rendered string
		err      error
	}

	// toastMsg shows a transient status message.
	toastMsg struct {
		text    string
		isError bool
	}

	// toastExpiredMsg clears a toast if it is still the visible one.
	toastExpiredMsg struct {
		id int
	}
)

// waitEvent blocks on the events channel and hands the next message to
// the update loop, wrapped so the pump gets re-armed.
func (m *Model) waitEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return eventMsg{inner: <-events}
	}
}

// discoverCmd runs a full discovery pass. Listings (cached-first, then
// fresh) arrive through the events channel; the returned message only
// marks completion.
func (m *Model) discoverCmd() tea.Cmd {
	m.scanning = true
	engine, events := m.engine, m.events
	roots := m.cfg.Directories()
	return func() tea.Msg {
		engine.Discover(context.Background(), roots, func(p []discovery.Project) {
			events <- projectsMsg{projects: p}
		})
		return scanDoneMsg{}
	}
}

// probeBranchesCmd probes the git branch for each path, streaming
// results as they land.
func (m *Model) probeBranchesCmd(paths []string) tea.Cmd {
	probe, events := m.probe, m.events
	return func() tea.Msg {
		for _, path := range paths {
			ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
			branch := probe.Branch(ctx, path)
			cancel()
			events <- branchMsg{path: path, branch: branch}
		}
		return nil
	}
}

// resolveIconsCmd resolves default icons for each path.
func (m *Model) resolveIconsCmd(paths []string) tea.Cmd {
	icons, events := m.icons, m.events
	return func() tea.Msg {
		for _, path := range paths {
			events <- defaultIconMsg{path: path, icon: icons.Find(path)}
		}
		return nil
	}
}

// openCmd launches the editor on path.
func (m *Model) openCmd(path string) tea.Cmd {
	launcher := m.launcher
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		return openedMsg{path: path, err: launcher.Open(ctx, path)}
	}
}

// deleteCmd removes the project directory and all of its stored state.
func (m *Model) deleteCmd(path string) tea.Cmd {
	meta, custom, icons, probe := m.meta, m.custom, m.icons, m.probe
	log := m.log
	return func() tea.Msg {
		if err := os.RemoveAll(path); err != nil {
			return deletedMsg{path: path, err: fmt.Errorf("remove project folder: %w", err)}
		}
		// Best-effort cleanup of the per-project records; a leftover
		// record is invisible once the path never reappears in a scan.
		for name, fn := range map[string]func(string) error{
			"metadata":      meta.Forget,
			"customization": custom.Forget,
			"icon cache":    icons.Invalidate,
			"branch cache":  probe.Invalidate,
		} {
			if err := fn(path); err != nil {
				log.Error("failed to clean up record", "kind", name, "path", path, "error", err)
			}
		}
		return deletedMsg{path: path}
	}
}

// createCmd creates the project and, when it got a git history or a
// fresh one, opens it in the editor the way a manual open would.
func (m *Model) createCmd(req launch.CreateRequest) tea.Cmd {
	creator, launcher := m.creator, m.launcher
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		path, err := creator.Create(ctx, req)
		if err != nil {
			return createdMsg{err: err}
		}
		if req.Init != launch.InitFolder {
			if err := launcher.Open(ctx, path); err != nil {
				log.Error("failed to open new project", "path", path, "error", err)
			}
		}
		return createdMsg{name: filepath.Base(path), path: path, cloned: req.Init == launch.InitClone}
	}
}

// readmeCmd renders the project's README for preview.
func (m *Model) readmeCmd(path string) tea.Cmd {
	width := m.width
	return func() tea.Msg {
		data, name, err := readReadme(path)
		if err != nil {
			return readmeMsg{path: path, err: fmt.Errorf("no README found in %s", filepath.Base(path))}
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(20, width-2)),
		)
		if err != nil {
			return readmeMsg{path: path, err: err}
		}
		out, err := r.Render(string(data))
		if err != nil {
			return readmeMsg{path: path, err: fmt.Errorf("render %s: %w", name, err)}
		}
		return readmeMsg{path: path, rendered: out}
	}
}

// readReadme finds and reads the project README, trying the usual name
// variants.
func readReadme(path string) ([]byte, string, error) {
	for _, name := range []string{"README.md", "readme.md", "README.markdown", "README"} {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err == nil {
			return data, name, nil
		}
	}
	return nil, "", os.ErrNotExist
}

// showToast returns a command that displays a transient message.
func (m *Model) showToast(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{text: text, isError: isError}
	}
}

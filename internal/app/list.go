package app

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"projector/internal/discovery"
)

const minListHeight = 4

// handleKey routes key presses by mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeCustomize:
		return m.handleFormKey(msg)
	case modeCreate:
		return m.handleCreateKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	case modeReadme:
		return m.handleReadmeKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, keys.Filter):
		m.mode = modeFilter
		return m, m.filter.Focus()

	case key.Matches(msg, keys.Refresh):
		return m, m.discoverCmd()

	case key.Matches(msg, keys.Open):
		if p, ok := m.current(); ok {
			return m, m.openCmd(p.Path)
		}
		return m, nil

	case key.Matches(msg, keys.Star):
		if p, ok := m.current(); ok {
			starred, err := m.meta.ToggleStarred(p.Path)
			if err != nil {
				return m, m.showToast("Star failed: "+err.Error(), true)
			}
			m.rerank()
			m.cursorTo(p.Path)
			if starred {
				return m, m.showToast("Starred "+p.Name, false)
			}
			return m, m.showToast("Unstarred "+p.Name, false)
		}
		return m, nil

	case key.Matches(msg, keys.Add):
		m.mode = modeCreate
		m.create = newCreateForm(m.cfg.Directories())
		return m, m.create.focusCmd()

	case key.Matches(msg, keys.Customize):
		if p, ok := m.current(); ok {
			m.mode = modeCustomize
			m.form = newCustomizeForm(p, m.custom.Get(p.Path))
			return m, m.form.focusCmd()
		}
		return m, nil

	case key.Matches(msg, keys.CopyPath):
		if p, ok := m.current(); ok {
			if err := clipboard.WriteAll(p.Path); err != nil {
				return m, m.showToast("Copy failed: "+err.Error(), true)
			}
			return m, m.showToast("Copied "+p.Path, false)
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		if p, ok := m.current(); ok {
			m.mode = modeConfirmDelete
			m.confirmPath = p.Path
		}
		return m, nil

	case key.Matches(msg, keys.Readme):
		if p, ok := m.current(); ok {
			return m, m.readmeCmd(p.Path)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.mode = modeList
		m.filter.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	path := m.confirmPath
	m.mode = modeList
	m.confirmPath = ""

	if msg.String() == "y" {
		return m, m.deleteCmd(path)
	}
	return m, nil
}

func (m *Model) handleReadmeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "tab":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.readme, cmd = m.readme.Update(msg)
	return m, cmd
}

// rerank re-sorts the in-memory listing with fresh metadata, without
// waiting for a rescan.
func (m *Model) rerank() {
	paths := make([]string, len(m.projects))
	for i, p := range m.projects {
		paths[i] = p.Path
	}
	m.metaByPath = m.meta.Map(context.Background(), paths)
	m.projects = discovery.Rank(m.projects, m.metaByPath)
	m.applyFilter()
}

// cursorTo moves the cursor to path if it is visible.
func (m *Model) cursorTo(path string) {
	for vi, pi := range m.visible {
		if m.projects[pi].Path == path {
			m.cursor = vi
			m.ensureCursorVisible()
			return
		}
	}
}

// current returns the project under the cursor.
func (m *Model) current() (p projectRow, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return projectRow{}, false
	}
	entry := m.projects[m.visible[m.cursor]]
	return projectRow{Name: entry.Name, Path: entry.Path}, true
}

// projectRow is the cursor selection handed to actions.
type projectRow struct {
	Name string
	Path string
}

// applyFilter recomputes the visible index list from the filter query
// and clamps cursor and scroll.
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, p := range m.projects {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Path), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts scroll to keep the cursor in view.
func (m *Model) ensureCursorVisible() {
	visible := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// listHeight is the number of rows available for project entries.
func (m *Model) listHeight() int {
	// Header, filter line, status line.
	h := m.height - 3
	if h < minListHeight {
		return minListHeight
	}
	return h
}

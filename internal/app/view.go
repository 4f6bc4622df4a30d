package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"projector/internal/styles"
)

// View renders the whole screen for the current mode.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	switch m.mode {
	case modeReadme:
		b.WriteString(m.readme.View())
	case modeCustomize:
		b.WriteString(m.form.View())
	case modeCreate:
		b.WriteString(m.create.View())
	case modeConfirmDelete:
		b.WriteString(m.confirmView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m *Model) headerView() string {
	title := styles.Title.Render("Projects")
	if m.scanning {
		title += " " + m.spin.View()
	}
	if m.mode == modeFilter || m.filter.Value() != "" {
		return title + "  " + m.filter.View()
	}
	return title
}

func (m *Model) listView() string {
	if len(m.visible) == 0 {
		if m.filter.Value() != "" {
			return styles.Muted.Render(fmt.Sprintf("  No projects match %q", m.filter.Value()))
		}
		return styles.Muted.Render("  No projects found in the configured directories")
	}

	height := m.listHeight()
	end := m.scroll + height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	var b strings.Builder
	for row := m.scroll; row < end; row++ {
		p := m.projects[m.visible[row]]
		b.WriteString(m.rowView(p.Name, p.Path, row == m.cursor))
		if row < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// rowView renders one project line: cursor, icon, star, name, branch
// tag, last-opened accessory, and the path as a dimmed suffix.
func (m *Model) rowView(name, path string, selected bool) string {
	var b strings.Builder

	if selected {
		b.WriteString(styles.Selected.Render("> "))
	} else {
		b.WriteString("  ")
	}

	b.WriteString(m.iconGlyph(path))
	b.WriteString(" ")

	meta := m.metaByPath[path]
	nameStyle := styles.Normal
	if selected {
		nameStyle = styles.Selected
	}
	b.WriteString(nameStyle.Render(runewidth.Truncate(name, 32, "…")))

	if meta.Starred {
		b.WriteString(styles.Starred.Render(" ★"))
	}
	if branch := m.branches[path]; branch != "" {
		b.WriteString(styles.Branch.Render(" [" + branch + "]"))
	}
	if meta.LastOpened > 0 {
		b.WriteString(styles.Muted.Render(" " + relativeTime(meta.LastOpened)))
	}

	b.WriteString(styles.Muted.Render("  " + collapseHome(filepath.Dir(path))))
	return b.String()
}

// iconGlyph picks the display glyph for a project: the customized icon
// string if set, a filled marker when a default icon file was found,
// and a plain marker otherwise.
func (m *Model) iconGlyph(path string) string {
	if c, ok := m.customizations[path]; ok && c.Icon != "" {
		return runewidth.Truncate(c.Icon, 2, "")
	}
	if m.iconKnown[path] && m.defaultIcons[path] != "" {
		return styles.Success.Render("▣")
	}
	return styles.Muted.Render("▸")
}

func (m *Model) confirmView() string {
	name := filepath.Base(m.confirmPath)
	return "\n  " + styles.Error.Render("Delete "+name+" and all of its files?") +
		styles.Muted.Render("  (y to confirm, any other key to cancel)")
}

func (m *Model) statusView() string {
	if m.toast.text != "" {
		if m.toast.isError {
			return styles.Error.Render(" " + m.toast.text)
		}
		return styles.Success.Render(" " + m.toast.text)
	}

	switch m.mode {
	case modeReadme:
		return styles.Muted.Render(" esc back · ↑/↓ scroll")
	case modeCustomize:
		return styles.Muted.Render(" enter save · esc cancel · tab next field (blank both to reset)")
	case modeCreate:
		return styles.Muted.Render(" enter create · esc cancel · tab next field")
	case modeFilter:
		return styles.Muted.Render(" enter keep filter · esc clear")
	}

	hint := " enter open · a add · s star · c customize · y copy · d delete · tab readme · / search · r refresh · q quit"
	if p, ok := m.current(); ok {
		if icon := m.defaultIcons[p.Path]; icon != "" {
			return styles.Muted.Render(fmt.Sprintf(" icon: %s ·%s", collapseHome(icon), hint))
		}
	}
	return styles.Muted.Render(hint)
}

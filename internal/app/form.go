package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"projector/internal/customize"
	"projector/internal/styles"
)

// customizeForm edits a project's icon and color overrides. Saving
// with both fields blank resets the project to its defaults.
type customizeForm struct {
	path  string
	name  string
	icon  textinput.Model
	color textinput.Model
	focus int
}

func newCustomizeForm(p projectRow, c *customize.Customization) customizeForm {
	icon := textinput.New()
	icon.Placeholder = "emoji or symbol"
	icon.CharLimit = 8
	icon.Width = 24

	color := textinput.New()
	color.Placeholder = "#rrggbb"
	color.CharLimit = 16
	color.Width = 24

	if c != nil {
		icon.SetValue(c.Icon)
		color.SetValue(c.Color)
	}

	return customizeForm{path: p.Path, name: p.Name, icon: icon, color: color}
}

func (f *customizeForm) focusCmd() tea.Cmd {
	f.focus = 0
	f.color.Blur()
	return f.icon.Focus()
}

func (f *customizeForm) next() tea.Cmd {
	f.focus = (f.focus + 1) % 2
	if f.focus == 0 {
		f.color.Blur()
		return f.icon.Focus()
	}
	f.icon.Blur()
	return f.color.Focus()
}

// update routes an input event to the focused field.
func (f *customizeForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.icon, cmd = f.icon.Update(msg)
	} else {
		f.color, cmd = f.color.Update(msg)
	}
	return cmd
}

// result converts the field contents into a save operation. Trimmed
// values are sent as-is, including empty strings, so that clearing
// both fields removes the stored record.
func (f *customizeForm) result() *customize.Update {
	icon := strings.TrimSpace(f.icon.Value())
	color := strings.TrimSpace(f.color.Value())
	return &customize.Update{Icon: &icon, Color: &color}
}

func (f *customizeForm) View() string {
	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("Customize "+f.name) + "\n\n")
	b.WriteString("  Icon  " + f.icon.View() + "\n")
	b.WriteString("  Color " + f.color.View() + "\n")
	return b.String()
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab", "down", "up":
		return m, m.form.next()
	case "enter":
		path := m.form.path
		if err := m.custom.Save(path, m.form.result()); err != nil {
			m.mode = modeList
			return m, m.showToast("Could not save customization: "+err.Error(), true)
		}
		m.mode = modeList
		return m, m.showToast("Customization saved", false)
	}
	return m, m.form.update(msg)
}

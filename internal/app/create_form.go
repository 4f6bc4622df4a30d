package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"projector/internal/launch"
	"projector/internal/styles"
)

// createForm collects what Add Project needs: how to initialize, the
// repository URL for clones, an optional name, and which configured
// root to create under.
type createForm struct {
	initTypes []launch.InitType
	typeIdx   int
	url       textinput.Model
	name      textinput.Model
	dirs      []string
	dirIdx    int
	focus     int
}

const (
	createFieldType = iota
	createFieldURL
	createFieldName
	createFieldDir
)

func newCreateForm(dirs []string) createForm {
	url := textinput.New()
	url.Placeholder = "https://github.com/user/repo.git"
	url.CharLimit = 200
	url.Width = 48

	name := textinput.New()
	name.Placeholder = "defaults to repository name"
	name.CharLimit = 100
	name.Width = 48

	return createForm{
		initTypes: []launch.InitType{launch.InitClone, launch.InitGit, launch.InitFolder},
		url:       url,
		name:      name,
		dirs:      dirs,
	}
}

func (f *createForm) focusCmd() tea.Cmd {
	f.focus = createFieldType
	f.url.Blur()
	f.name.Blur()
	return nil
}

func (f *createForm) initType() launch.InitType {
	return f.initTypes[f.typeIdx]
}

// next moves focus forward, skipping the URL field unless cloning.
func (f *createForm) next() tea.Cmd {
	for {
		f.focus = (f.focus + 1) % 4
		if f.focus != createFieldURL || f.initType() == launch.InitClone {
			break
		}
	}
	return f.syncFocus()
}

func (f *createForm) syncFocus() tea.Cmd {
	f.url.Blur()
	f.name.Blur()
	switch f.focus {
	case createFieldURL:
		return f.url.Focus()
	case createFieldName:
		return f.name.Focus()
	}
	return nil
}

// cycle steps the selector under focus; delta is -1 or 1.
func (f *createForm) cycle(delta int) {
	switch f.focus {
	case createFieldType:
		f.typeIdx = (f.typeIdx + delta + len(f.initTypes)) % len(f.initTypes)
	case createFieldDir:
		if len(f.dirs) > 0 {
			f.dirIdx = (f.dirIdx + delta + len(f.dirs)) % len(f.dirs)
		}
	}
}

// update routes an input event to the focused text field.
func (f *createForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case createFieldURL:
		f.url, cmd = f.url.Update(msg)
	case createFieldName:
		f.name, cmd = f.name.Update(msg)
	}
	return cmd
}

// result builds the creation request from the current field values.
func (f *createForm) result() launch.CreateRequest {
	dir := ""
	if len(f.dirs) > 0 {
		dir = f.dirs[f.dirIdx]
	}
	return launch.CreateRequest{
		Directory: dir,
		Name:      strings.TrimSpace(f.name.Value()),
		RepoURL:   strings.TrimSpace(f.url.Value()),
		Init:      f.initType(),
	}
}

func initTypeLabel(it launch.InitType) string {
	switch it {
	case launch.InitClone:
		return "Git Clone"
	case launch.InitGit:
		return "Init Empty Git"
	default:
		return "Folder Only (No Git)"
	}
}

func (f *createForm) View() string {
	var b strings.Builder
	b.WriteString("\n  " + styles.Title.Render("Add Project") + "\n\n")

	b.WriteString(f.selectorLine("Type     ", initTypeLabel(f.initType()), f.focus == createFieldType))
	if f.initType() == launch.InitClone {
		b.WriteString("  URL      " + f.url.View() + "\n")
	}
	b.WriteString("  Name     " + f.name.View() + "\n")

	dir := "(no directories configured)"
	if len(f.dirs) > 0 {
		dir = collapseHome(f.dirs[f.dirIdx])
	}
	b.WriteString(f.selectorLine("Directory", dir, f.focus == createFieldDir))
	return b.String()
}

func (f *createForm) selectorLine(label, value string, focused bool) string {
	marker := "  "
	style := styles.Normal
	if focused {
		marker = styles.Selected.Render("‹ ")
		style = styles.Selected
		value = value + styles.Muted.Render("  (←/→ to change)")
	}
	return "  " + label + " " + marker + style.Render(value) + "\n"
}

func (m *Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "shift+tab", "down", "up":
		return m, m.create.next()
	case "left":
		if m.create.focus == createFieldType || m.create.focus == createFieldDir {
			m.create.cycle(-1)
			return m, nil
		}
	case "right":
		if m.create.focus == createFieldType || m.create.focus == createFieldDir {
			m.create.cycle(1)
			return m, nil
		}
	case "enter":
		req := m.create.result()
		m.mode = modeList
		return m, m.createCmd(req)
	}
	return m, m.create.update(msg)
}

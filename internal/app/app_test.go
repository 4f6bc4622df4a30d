package app

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"projector/internal/config"
	"projector/internal/customize"
	"projector/internal/discovery"
	"projector/internal/icon"
	"projector/internal/kvstore"
	"projector/internal/launch"
	"projector/internal/metadata"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	kv := kvstore.NewMem()
	meta := metadata.NewStore(kv, nil)
	custom := customize.NewStore(kv, nil)
	m := New(
		config.Default(),
		discovery.NewEngine(kv, meta, nil),
		meta,
		custom,
		icon.NewResolver(kv, nil),
		launch.NewLauncher([]string{"true"}, nil, meta, nil, nil),
		launch.NewCreator(nil, nil),
		launch.NewBranchProbe(kv, nil, nil),
		nil,
	)
	m.width = 80
	m.height = 24
	t.Cleanup(m.Close)
	return m
}

func install(m *Model, projects ...discovery.Project) {
	m.projects = projects
	m.applyFilter()
}

func TestApplyFilterMatchesNameAndPath(t *testing.T) {
	m := testModel(t)
	install(m,
		discovery.Project{Name: "api-server", Path: "/home/me/work/api-server"},
		discovery.Project{Name: "blog", Path: "/home/me/work/blog"},
		discovery.Project{Name: "dotfiles", Path: "/home/me/personal/dotfiles"},
	)

	m.filter.SetValue("API")
	m.applyFilter()
	require.Equal(t, []int{0}, m.visible)

	m.filter.SetValue("personal")
	m.applyFilter()
	require.Equal(t, []int{2}, m.visible)

	m.filter.SetValue("")
	m.applyFilter()
	require.Len(t, m.visible, 3)
}

func TestApplyFilterClampsCursor(t *testing.T) {
	m := testModel(t)
	install(m,
		discovery.Project{Name: "alpha", Path: "/p/alpha"},
		discovery.Project{Name: "beta", Path: "/p/beta"},
		discovery.Project{Name: "gamma", Path: "/p/gamma"},
	)
	m.cursor = 2

	m.filter.SetValue("alpha")
	m.applyFilter()
	require.Equal(t, 0, m.cursor)
	p, ok := m.current()
	require.True(t, ok)
	require.Equal(t, "alpha", p.Name)
}

func TestCurrentEmptyList(t *testing.T) {
	m := testModel(t)
	_, ok := m.current()
	require.False(t, ok)
}

func TestStarKeyReranks(t *testing.T) {
	m := testModel(t)
	install(m,
		discovery.Project{Name: "alpha", Path: "/p/alpha"},
		discovery.Project{Name: "beta", Path: "/p/beta"},
	)
	m.cursor = 1

	_, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	// beta is starred now, so it ranks first and keeps the cursor.
	require.Equal(t, "beta", m.projects[m.visible[0]].Name)
	p, ok := m.current()
	require.True(t, ok)
	require.Equal(t, "beta", p.Name)
	require.True(t, m.meta.Get("/p/beta").Starred)
}

func TestConfirmKeyRequiresY(t *testing.T) {
	m := testModel(t)
	m.mode = modeConfirmDelete
	m.confirmPath = "/p/alpha"

	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	require.Nil(t, cmd)
	require.Equal(t, modeList, m.mode)
	require.Empty(t, m.confirmPath)
}

func TestCustomizationMsgUpdatesMap(t *testing.T) {
	m := testModel(t)

	m.Update(customizationMsg{path: "/p/alpha", value: &customize.Customization{Icon: "🚀"}})
	require.Equal(t, "🚀", m.customizations["/p/alpha"].Icon)

	m.Update(customizationMsg{path: "/p/alpha", value: nil})
	_, ok := m.customizations["/p/alpha"]
	require.False(t, ok)
}

func TestToastExpiryIgnoresStaleID(t *testing.T) {
	m := testModel(t)

	m.Update(toastMsg{text: "first", isError: false})
	first := m.toast.id
	m.Update(toastMsg{text: "second", isError: false})

	m.Update(toastExpiredMsg{id: first})
	require.Equal(t, "second", m.toast.text)

	m.Update(toastExpiredMsg{id: m.toast.id})
	require.Empty(t, m.toast.text)
}

func TestAddKeyOpensCreateForm(t *testing.T) {
	m := testModel(t)
	m.cfg.ProjectsDirectory = "/home/me/work, /home/me/personal"

	_, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	require.Equal(t, modeCreate, m.mode)
	require.Equal(t, []string{"/home/me/work", "/home/me/personal"}, m.create.dirs)
	require.Equal(t, launch.InitClone, m.create.initType())
}

func TestCreateFormCyclesTypeAndDirectory(t *testing.T) {
	f := newCreateForm([]string{"/a", "/b"})

	f.cycle(1)
	require.Equal(t, launch.InitGit, f.initType())
	f.cycle(1)
	require.Equal(t, launch.InitFolder, f.initType())
	f.cycle(1)
	require.Equal(t, launch.InitClone, f.initType())

	f.focus = createFieldDir
	f.cycle(-1)
	require.Equal(t, "/b", f.dirs[f.dirIdx])
}

func TestCreateFormSkipsURLFieldUnlessCloning(t *testing.T) {
	f := newCreateForm([]string{"/a"})
	f.cycle(1) // InitGit

	f.next()
	require.Equal(t, createFieldName, f.focus)

	f.focus = createFieldType
	f.typeIdx = 0 // back to clone
	f.next()
	require.Equal(t, createFieldURL, f.focus)
}

func TestCreateFormResult(t *testing.T) {
	f := newCreateForm([]string{"/a", "/b"})
	f.url.SetValue("  https://github.com/user/repo.git ")
	f.name.SetValue(" widget ")
	f.dirIdx = 1

	req := f.result()
	require.Equal(t, "/b", req.Directory)
	require.Equal(t, "widget", req.Name)
	require.Equal(t, "https://github.com/user/repo.git", req.RepoURL)
	require.Equal(t, launch.InitClone, req.Init)
}

func TestCreatedMsgTriggersRescan(t *testing.T) {
	m := testModel(t)

	m.Update(createdMsg{name: "widget", path: "/p/widget", cloned: true})
	require.True(t, m.scanning)

	m.scanning = false
	m.Update(createdMsg{err: errors.New("remote not found")})
	require.False(t, m.scanning)
}

func TestFormResultSemantics(t *testing.T) {
	f := newCustomizeForm(projectRow{Name: "alpha", Path: "/p/alpha"}, nil)
	f.icon.SetValue("  🔥 ")
	f.color.SetValue("")

	u := f.result()
	require.Equal(t, "🔥", *u.Icon)
	require.Equal(t, "", *u.Color)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
		{40 * 24 * time.Hour, "1mo ago"},
	}
	for _, tc := range cases {
		got := relativeTimeAt(now.Add(-tc.ago).UnixMilli(), now)
		if got != tc.want {
			t.Errorf("relativeTimeAt(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}

	old := now.Add(-2 * 365 * 24 * time.Hour)
	if got := relativeTimeAt(old.UnixMilli(), now); got != old.Format("Jan 2006") {
		t.Errorf("old timestamp = %q, want month-year form", got)
	}
}

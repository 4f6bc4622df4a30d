// Package app is the terminal front-end: a searchable project list with
// star, customize, open, delete, and preview actions. It consumes the
// core stores and engines and owns no domain logic of its own.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"projector/internal/config"
	"projector/internal/customize"
	"projector/internal/discovery"
	"projector/internal/icon"
	"projector/internal/launch"
	"projector/internal/metadata"
	"projector/internal/styles"
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modeCustomize
	modeCreate
	modeConfirmDelete
	modeReadme
)

// toast is a transient status line message.
type toast struct {
	text    string
	isError bool
	id      int
}

// Model is the bubbletea model for the launcher.
type Model struct {
	cfg      *config.Config
	engine   *discovery.Engine
	meta     *metadata.Store
	custom   *customize.Store
	icons    *icon.Resolver
	launcher *launch.Launcher
	creator  *launch.Creator
	probe    *launch.BranchProbe
	log      *slog.Logger

	width  int
	height int

	// List state
	projects []discovery.Project
	visible  []int // indices into projects, filter applied
	cursor   int   // index into visible
	scroll   int

	filter   textinput.Model
	spin     spinner.Model
	scanning bool

	// Per-project display state, filled in asynchronously.
	metaByPath     map[string]metadata.Metadata
	customizations map[string]customize.Customization
	branches       map[string]string
	branchKnown    map[string]bool
	defaultIcons   map[string]string
	iconKnown      map[string]bool

	// Customization change subscriptions, one per known path.
	unsubscribe map[string]func()

	mode        mode
	form        customizeForm
	create      createForm
	confirmPath string
	readme      viewport.Model
	readmeFor   string

	toast   toast
	toastID int

	// events carries messages produced outside the update loop: watcher
	// hits, discovery results, probe results, subscription callbacks.
	events chan tea.Msg

	watch *rootWatcher
}

// New builds the model. The watcher may be nil when the roots cannot be
// watched; discovery still works through manual refresh.
func New(
	cfg *config.Config,
	engine *discovery.Engine,
	meta *metadata.Store,
	custom *customize.Store,
	icons *icon.Resolver,
	launcher *launch.Launcher,
	creator *launch.Creator,
	probe *launch.BranchProbe,
	logger *slog.Logger,
) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	filter := textinput.New()
	filter.Placeholder = "Search projects..."
	filter.Prompt = "/ "
	filter.CharLimit = 80

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = styles.Muted

	return &Model{
		cfg:            cfg,
		engine:         engine,
		meta:           meta,
		custom:         custom,
		icons:          icons,
		launcher:       launcher,
		creator:        creator,
		probe:          probe,
		log:            logger,
		filter:         filter,
		spin:           spin,
		metaByPath:     make(map[string]metadata.Metadata),
		customizations: custom.All(),
		branches:       make(map[string]string),
		branchKnown:    make(map[string]bool),
		defaultIcons:   make(map[string]string),
		iconKnown:      make(map[string]bool),
		unsubscribe:    make(map[string]func()),
		events:         make(chan tea.Msg, 32),
	}
}

// Init starts discovery, the spinner, and the event pump.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.discoverCmd(),
		m.spin.Tick,
		m.waitEvent(),
	}
	if w, err := newRootWatcher(m.cfg.Directories(), m.events, m.log); err == nil {
		m.watch = w
	} else {
		m.log.Warn("root watcher unavailable", "error", err)
	}
	return tea.Batch(cmds...)
}

// Update routes messages by kind, then by mode.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = msg.Width - 4
		m.readme = viewport.New(msg.Width, m.listHeight())
		if m.mode == modeReadme {
			// Force a re-render at the new width.
			m.mode = modeList
			return m, m.readmeCmd(m.readmeFor)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case projectsMsg:
		return m.applyProjects(msg)

	case scanDoneMsg:
		m.scanning = false
		return m, nil

	case refreshMsg:
		return m, m.discoverCmd()

	case branchMsg:
		m.branches[msg.path] = msg.branch
		m.branchKnown[msg.path] = true
		return m, nil

	case defaultIconMsg:
		m.defaultIcons[msg.path] = msg.icon
		m.iconKnown[msg.path] = true
		return m, nil

	case customizationMsg:
		if msg.value == nil {
			delete(m.customizations, msg.path)
		} else {
			m.customizations[msg.path] = *msg.value
		}
		return m, nil

	case eventMsg:
		// Unwrap a pumped event and re-arm the pump.
		model, cmd := m.Update(msg.inner)
		return model, tea.Batch(cmd, m.waitEvent())

	case openedMsg:
		if msg.err != nil {
			return m, m.showToast("Open failed: "+msg.err.Error(), true)
		}
		// lastOpened changed; re-rank.
		return m, tea.Batch(m.showToast("Opened "+msg.path, false), m.discoverCmd())

	case deletedMsg:
		if msg.err != nil {
			return m, m.showToast("Delete failed: "+msg.err.Error(), true)
		}
		return m, tea.Batch(m.showToast("Deleted "+msg.path, false), m.discoverCmd())

	case createdMsg:
		if msg.err != nil {
			return m, m.showToast("Create failed: "+msg.err.Error(), true)
		}
		text := "Created " + msg.name
		if msg.cloned {
			text = "Cloned " + msg.name
		}
		return m, tea.Batch(m.showToast(text, false), m.discoverCmd())

	case readmeMsg:
		if msg.err != nil {
			return m, m.showToast(msg.err.Error(), true)
		}
		m.mode = modeReadme
		m.readmeFor = msg.path
		m.readme = viewport.New(m.width, m.listHeight())
		m.readme.SetContent(msg.rendered)
		return m, nil

	case toastMsg:
		m.toastID++
		m.toast = toast{text: msg.text, isError: msg.isError, id: m.toastID}
		id := m.toastID
		return m, tea.Tick(toastDuration(msg.isError), func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		})

	case toastExpiredMsg:
		if m.toast.id == msg.id {
			m.toast = toast{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyProjects installs a (possibly cached, possibly fresh) ranked
// listing and schedules the per-project lookups it needs for display.
func (m *Model) applyProjects(msg projectsMsg) (tea.Model, tea.Cmd) {
	m.projects = msg.projects
	m.customizations = m.custom.All()

	paths := make([]string, len(m.projects))
	for i, p := range m.projects {
		paths[i] = p.Path
	}
	m.metaByPath = m.meta.Map(context.Background(), paths)
	m.applyFilter()

	var missingBranches, missingIcons []string
	for _, p := range m.projects {
		if !m.branchKnown[p.Path] {
			missingBranches = append(missingBranches, p.Path)
		}
		if !m.iconKnown[p.Path] {
			missingIcons = append(missingIcons, p.Path)
		}
		m.subscribeCustomization(p.Path)
	}

	var cmds []tea.Cmd
	if len(missingBranches) > 0 {
		cmds = append(cmds, m.probeBranchesCmd(missingBranches))
	}
	if len(missingIcons) > 0 {
		cmds = append(cmds, m.resolveIconsCmd(missingIcons))
	}
	return m, tea.Batch(cmds...)
}

// subscribeCustomization registers a change listener for path so every
// view of it converges after a save, and remembers the cancel func.
func (m *Model) subscribeCustomization(path string) {
	if _, ok := m.unsubscribe[path]; ok {
		return
	}
	events := m.events
	m.unsubscribe[path] = m.custom.Subscribe(path, func(c *customize.Customization) {
		events <- customizationMsg{path: path, value: c}
	})
}

// Close releases the watcher and subscriptions.
func (m *Model) Close() {
	if m.watch != nil {
		m.watch.Close()
	}
	for _, cancel := range m.unsubscribe {
		cancel()
	}
}

func toastDuration(isError bool) time.Duration {
	if isError {
		return 5 * time.Second
	}
	return 2 * time.Second
}

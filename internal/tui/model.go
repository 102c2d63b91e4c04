package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/dispatch"
	"github.com/aldric/opsdeck/internal/recent"
	"github.com/aldric/opsdeck/internal/scriptform"
)

const appName = "Opsdeck"

// Tab indices
const (
	tabInventory = 0
	tabServices  = 1
	tabJobs      = 2
	tabRecent    = 3
	tabCount     = 4
)

var tabTitles = [tabCount]string{"Inventory", "Services", "Jobs", "Recent"}

// jobRow is one script run started from this console session.
type jobRow struct {
	ID        string
	Service   string
	Script    string
	StartedAt time.Time
}

// pendingInvoke remembers what an in-flight submission was for, so the jobs
// tab can label the row once the backend answers.
type pendingInvoke struct {
	Service string
	Script  string
}

type model struct {
	ctx        context.Context
	client     *api.Client
	registry   *command.Registry
	controller *dispatch.Controller
	recents    *recent.Store
	options    *scriptform.OptionCache

	refreshEvery time.Duration
	keys         keyMap

	activeTab int
	cursors   [tabCount]int

	jobs        []jobRow
	selectedJob string
	pending     pendingInvoke

	// palette overlay
	paletteOpen    bool
	paletteQuery   string
	paletteEntries []command.Entry
	paletteCursor  int
	paletteScroll  int

	// form modal focus
	formFocus int
	keyCursor int

	status    string
	statusErr bool
	width     int
	height    int
}

// Deps carries everything the console shell needs from main.
type Deps struct {
	Client       *api.Client
	Registry     *command.Registry
	Controller   *dispatch.Controller
	Recents      *recent.Store
	Options      *scriptform.OptionCache
	RefreshEvery time.Duration
}

func newModel(ctx context.Context, d Deps) model {
	every := d.RefreshEvery
	if every <= 0 {
		every = 30 * time.Second
	}
	return model{
		ctx:          ctx,
		client:       d.Client,
		registry:     d.Registry,
		controller:   d.Controller,
		recents:      d.Recents,
		options:      d.Options,
		refreshEvery: every,
		keys:         newKeyMap(),
	}
}

// Run starts the console program and blocks until it exits.
func Run(ctx context.Context, d Deps) error {
	p := tea.NewProgram(newModel(ctx, d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchInventoryCmd(),
		m.fetchServicesCmd(),
		m.refreshTickCmd(),
	)
}

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

// tabEntries returns the registry-backed rows of the active tab. Every list
// surface renders straight off the current snapshot, so capability filtering
// and group ordering are decided in exactly one place.
func (m model) tabEntries() []command.Entry {
	switch m.activeTab {
	case tabInventory:
		return m.registry.CategoryEntries(command.CategoryInventory)
	case tabServices:
		return m.registry.CategoryEntries(
			command.CategoryDeploy, command.CategoryRunScript, command.CategoryService)
	case tabRecent:
		return m.registry.CategoryEntries(command.CategoryRecent)
	}
	return nil
}

func (m model) tabScope() string {
	switch m.activeTab {
	case tabServices:
		return scopeServices
	case tabJobs:
		return scopeJobs
	case tabRecent:
		return scopeRecent
	default:
		return scopeInventory
	}
}

func clampCursor(cursor, length int) int {
	if length == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= length {
		return length - 1
	}
	return cursor
}

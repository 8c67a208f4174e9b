// Package tui is the terminal front-end: the same listing and detail views
// as the web server, driven from the keyboard.
package tui

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/nav"
	"github.com/JonMunkholm/fmcsa/internal/schema"
	"github.com/JonMunkholm/fmcsa/internal/table"
)

// DefaultLoadTimeout bounds one load started from the UI.
const DefaultLoadTimeout = 30 * time.Second

// maxColumnWidth caps a listing column; longer values are truncated.
const maxColumnWidth = 28

// Loader provides the dataset. *core.Service implements it.
type Loader interface {
	Snapshot(ctx context.Context) (*core.Snapshot, error)
	Reload(ctx context.Context) (*core.Snapshot, error)
}

// Options configures a Model. Zero values use defaults.
type Options struct {
	PageSize    int
	LoadTimeout time.Duration
}

// Model is the bubbletea model of the viewer.
type Model struct {
	data    Loader
	layout  *schema.Layout
	timeout time.Duration

	nav *nav.Navigator
	vm  *table.ViewModel
	tbl btable.Model

	snap    *core.Snapshot
	err     error
	loading bool
	gen     int // load generation; results for older generations are dropped

	col    int // selected column, for sorting
	width  int
	height int

	keys keyMap
	help help.Model
}

// New returns a Model over data. A nil layout uses schema.Default.
func New(data Loader, layout *schema.Layout, opts Options) Model {
	if layout == nil {
		layout = schema.Default()
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultLoadTimeout
	}

	st := table.DefaultState()
	if next, err := st.WithPageSize(opts.PageSize); err == nil {
		st = next
	}

	tkm := btable.KeyMap{
		LineUp:   key.NewBinding(key.WithKeys("up", "k")),
		LineDown: key.NewBinding(key.WithKeys("down", "j")),
	}

	m := Model{
		data:    data,
		layout:  layout,
		timeout: opts.LoadTimeout,
		nav:     nav.NewNavigator(),
		vm:      table.NewWithState(nil, st),
		tbl:     btable.New(btable.WithFocused(true), btable.WithKeyMap(tkm)),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.gen = 1
	m.loading = true
	m.syncTable()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.gen, false)
}

// startLoad begins a new load generation. force bypasses the cache.
func (m *Model) startLoad(force bool) tea.Cmd {
	m.gen++
	m.loading = true
	return m.loadCmd(m.gen, force)
}

func (m Model) loadCmd(gen int, force bool) tea.Cmd {
	data, timeout := m.data, m.timeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			snap *core.Snapshot
			err  error
		)
		if force {
			snap, err = data.Reload(ctx)
		} else {
			snap, err = data.Snapshot(ctx)
		}
		if err != nil {
			return loadFailedMsg{gen: gen, err: err}
		}
		return loadedMsg{gen: gen, snap: snap}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.tbl.SetWidth(msg.Width)
		m.tbl.SetHeight(max(3, msg.Height-6))
		return m, nil

	case loadedMsg:
		if msg.gen != m.gen {
			slog.Debug("dropping stale load result", "gen", msg.gen, "current", m.gen)
			return m, nil
		}
		m.loading = false
		m.err = nil
		m.snap = msg.snap
		m.vm = table.NewWithState(msg.snap.Records, m.vm.State())
		m.syncColumns()
		m.syncRows(false)
		return m, nil

	case loadFailedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		slog.Error("dataset load failed", "error", msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad(true)
	}

	if m.nav.Current().Kind == nav.Detail {
		if key.Matches(msg, m.keys.Back) {
			m.nav.GoBack()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if id := m.selectedID(); id != "" {
			m.nav.GoToDetail(id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.col = (m.col - 1 + len(m.layout.Columns)) % len(m.layout.Columns)
		m.syncColumns()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.col = (m.col + 1) % len(m.layout.Columns)
		m.syncColumns()
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.vm.SetSort(m.selectedColumn())
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.Secondary):
		m.cycleSecondary()
		m.syncTable()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.vm.HasNext() {
			m.vm.SetPage(m.vm.Page() + 1)
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.vm.HasPrev() {
			m.vm.SetPage(m.vm.Page() - 1)
			m.syncTable()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageSize):
		if err := m.vm.SetPageSize(nextPageSize(m.vm.PageSize())); err != nil {
			m.err = err
		}
		m.syncTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// cycleSecondary walks the selected column through tie-breaker asc, desc
// and off.
func (m *Model) cycleSecondary() {
	col := m.selectedColumn()
	sec, ok := m.vm.State().Secondary()
	switch {
	case ok && sec.Key == col && sec.Dir == table.Asc:
		m.vm.SetSecondarySort(col, table.Desc)
	case ok && sec.Key == col:
		m.vm.SetSecondarySort("", table.Asc)
	default:
		m.vm.SetSecondarySort(col, table.Asc)
	}
}

func nextPageSize(current int) int {
	i := slices.Index(table.PageSizes, current)
	return table.PageSizes[(i+1)%len(table.PageSizes)]
}

func (m Model) selectedColumn() string {
	return m.layout.Columns[m.col].Key
}

// selectedID returns the id of the highlighted row, "" when there is none.
func (m Model) selectedID() string {
	rows := m.vm.VisibleRows()
	i := m.tbl.Cursor()
	if i < 0 || i >= len(rows) {
		return ""
	}
	return rows[i].ID()
}

// Route returns the active view.
func (m Model) Route() nav.Route {
	return m.nav.Current()
}

// ViewModel exposes the table state, mainly for tests.
func (m Model) ViewModel() *table.ViewModel {
	return m.vm
}

// Loading reports whether a load is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Err returns the last load error.
func (m Model) Err() error {
	return m.err
}

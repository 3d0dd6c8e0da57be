// Package browser provides the call browser tab for listing and inspecting calls.
package browser

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/d-rollins/vapi-calls-tui/internal/app"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/components"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
)

// keyMap defines the key bindings specific to the browser tab.
type keyMap struct {
	Open    key.Binding
	Back    key.Binding
	Sort    key.Binding
	Reverse key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the browser tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "view call"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "reverse order"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "go to bottom"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// Model represents the browser tab state.
type Model struct {
	state   *app.State
	table   table.Model
	width   int
	height  int
	keys    keyMap
	spinner components.LoadingSpinner

	// Sorted view of the shared call list.
	calls     []models.Call
	sortBy    sortField
	ascending bool

	// Detail view
	showDetail bool
	detail     *models.Call
	viewport   viewport.Model
}

// New creates a new browser model.
func New(state *app.State) *Model {
	columns := []table.Column{
		{Title: "Time", Width: 17},
		{Title: "Caller", Width: 16},
		{Title: "Length", Width: 8},
		{Title: "Cost", Width: 8},
		{Title: "Ended", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:    state,
		table:    t,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Loading calls..."),
		viewport: viewport.New(0, 0),
		sortBy:   sortByTime,
	}
}

// Init initializes the browser tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick()
}

// Update handles messages for the browser tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)

	case spinner.TickMsg:
		if m.state.IsInitialLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.CallsLoadedMsg:
		m.reload()

	case app.ServiceEventMsg:
		m.reload()

	case app.TabSwitchMsg:
		if msg.Tab == app.TabBrowser {
			m.reload()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateList(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Open):
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.calls) {
			call := m.calls[idx].Clone()
			m.detail = &call
			m.showDetail = true
			m.viewport.SetYOffset(0)
			m.state.SetSelectedCallIndex(idx)
		}

	case key.Matches(msg, m.keys.Sort):
		m.sortBy = m.sortBy.next()
		m.reload()

	case key.Matches(msg, m.keys.Reverse):
		m.ascending = !m.ascending
		m.reload()

	case key.Matches(msg, m.keys.Top):
		m.table.GotoTop()
		m.state.SetSelectedCallIndex(m.table.Cursor())

	case key.Matches(msg, m.keys.Bottom):
		m.table.GotoBottom()
		m.state.SetSelectedCallIndex(m.table.Cursor())

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		m.state.SetSelectedCallIndex(m.table.Cursor())
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateDetail(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.showDetail = false
		m.detail = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// reload re-sorts the shared call list and rebuilds the table rows.
func (m *Model) reload() {
	m.calls = m.state.GetCalls()
	sortCalls(m.calls, m.sortBy, m.ascending)

	rows := make([]table.Row, 0, len(m.calls))
	for _, c := range m.calls {
		rows = append(rows, table.Row{
			c.Start.Local().Format("2006-01-02 15:04"),
			formatPhoneNumber(c.Caller),
			formatLength(c.LengthInSeconds()),
			formatCost(c.Cost),
			c.EndedReason,
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// SetSize sets the available size for the browser tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := max(height-8, 3)
	m.table.SetHeight(tableHeight)

	callerWidth := 16
	endedWidth := max(width-17-callerWidth-8-8-14, 12)
	m.table.SetColumns([]table.Column{
		{Title: "Time", Width: 17},
		{Title: "Caller", Width: callerWidth},
		{Title: "Length", Width: 8},
		{Title: "Cost", Width: 8},
		{Title: "Ended", Width: endedWidth},
	})

	m.viewport.Width = max(width-8, 20)
	m.viewport.Height = max(height-6, 3)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.showDetail {
		return []key.Binding{m.keys.Back, m.keys.Up, m.keys.Down}
	}
	return []key.Binding{m.keys.Open, m.keys.Sort, m.keys.Reverse}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Open, m.keys.Back},
		{m.keys.Sort, m.keys.Reverse},
		{m.keys.Up, m.keys.Down, m.keys.Top, m.keys.Bottom},
	}
}

// Package stats provides the cache statistics tab.
package stats

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-rollins/vapi-calls-tui/internal/app"
)

// keyMap defines the key bindings specific to the stats tab.
type keyMap struct {
	Refresh key.Binding
	Clear   key.Binding
	Escape  key.Binding
	Up      key.Binding
	Down    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh stats"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear cache"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the stats tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	confirmClear bool
}

// New creates a new stats model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the stats tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case app.TabSwitchMsg:
		if msg.Tab == app.TabStats && m.commands != nil {
			return m, m.commands.LoadStats()
		}
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	if m.confirmClear {
		switch msg.String() {
		case "y", "Y":
			m.confirmClear = false
			if m.commands != nil {
				return m, m.commands.ClearCache()
			}
			return m, nil
		default:
			m.confirmClear = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		if m.commands != nil {
			return m, m.commands.LoadStats()
		}

	case key.Matches(msg, m.keys.Clear):
		m.confirmClear = true

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// SetSize sets the available size for the stats tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Refresh, m.keys.Clear}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Refresh, m.keys.Clear},
		{m.keys.Up, m.keys.Down},
	}
}

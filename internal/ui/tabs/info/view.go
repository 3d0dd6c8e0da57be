package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
	"github.com/d-rollins/vapi-calls-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderConfigCard())
	sections = append(sections, m.renderAboutCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration and application information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderConfigCard renders the configuration card.
func (m *Model) renderConfigCard() string {
	cardWidth := cardWidthFor(m.width)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Configuration"))
	rows = append(rows, "")

	if m.config != nil {
		rows = append(rows, m.renderConfigRow("API Base URL", m.config.BaseURL))
		rows = append(rows, m.renderConfigRow("API Key", maskKey(m.config.APIKey)))
		rows = append(rows, m.renderConfigRow("Cache File", m.config.CachePath))
		rows = append(rows, m.renderConfigRow("Log File", m.config.LogPath))
		rows = append(rows, m.renderConfigRow("Refresh Every", m.config.RefreshInterval.String()))
		rows = append(rows, m.renderConfigRow("Lookback", fmt.Sprintf("%d days", m.config.LookbackDays)))
		if m.config.Offline {
			rows = append(rows, m.renderConfigRow("Mode", styles.WarningTextStyle.Render("offline")))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	cardWidth := cardWidthFor(m.width)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("About"))
	rows = append(rows, "")

	rows = append(rows, m.renderConfigRow("Version", version.Version()))
	rows = append(rows, m.renderConfigRow("Commit", version.Commit()))
	rows = append(rows, m.renderConfigRow("Go Version", runtime.Version()))
	rows = append(rows, m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)))
	rows = append(rows, "")

	callCount := m.state.GetCallCount()
	rows = append(rows, fmt.Sprintf("Cached calls: %s", styles.InfoTextStyle.Render(fmt.Sprintf("%d", callCount))))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func cardWidthFor(width int) int {
	w := width - 6
	if w < 50 {
		w = 50
	}
	if w > 80 {
		w = 80
	}
	return w
}

// maskKey hides all but the last four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

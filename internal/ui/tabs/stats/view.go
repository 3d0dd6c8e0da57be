package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-rollins/vapi-calls-tui/internal/ui/components"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
)

// View renders the stats tab.
func (m *Model) View() string {
	stats := m.state.GetStats()
	if stats == nil {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("No statistics available yet."))
	}

	var sections []string
	sections = append(sections, styles.TitleStyle.Render("Cache Statistics"), "")

	if m.confirmClear {
		sections = append(sections, m.renderClearConfirm(), "")
	}

	sections = append(sections, m.renderCacheCard())
	sections = append(sections, m.renderCostCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderClearConfirm() string {
	return styles.WarningTextStyle.Render("Clear the entire local cache? (y/N)")
}

func (m *Model) renderCacheCard() string {
	stats := m.state.GetStats()
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Local Cache"), "")
	rows = append(rows, fmt.Sprintf("  %-14s %s", "Path:", stats.Path))
	rows = append(rows, fmt.Sprintf("  %-14s %d", "Cached calls:", stats.CallCount))
	rows = append(rows, fmt.Sprintf("  %-14s %s", "Size:", formatBytes(stats.SizeBytes)))

	if !stats.OldestFetch.IsZero() {
		rows = append(rows, fmt.Sprintf("  %-14s %s", "Oldest fetch:",
			stats.OldestFetch.Local().Format("Jan 2, 2006 15:04")))
	}
	if !stats.NewestFetch.IsZero() {
		rows = append(rows, fmt.Sprintf("  %-14s %s", "Newest fetch:",
			stats.NewestFetch.Local().Format("Jan 2, 2006 15:04")))
	}

	rows = append(rows, "")
	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCostCard() string {
	costs := m.state.GetDailyCosts()
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Daily Costs"), "")

	if len(costs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No cost data available."))
	} else {
		values := make([]float64, len(costs))
		var total float64
		var calls int
		for i, c := range costs {
			values[i] = c.TotalCost
			total += c.TotalCost
			calls += c.CallCount
		}

		chartWidth := max(cardWidth-12, 30)
		chart := components.RenderCostChart(values, chartWidth, 8,
			fmt.Sprintf("Last %d days ($/day)", len(costs)))

		for line := range strings.SplitSeq(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("  Total: %s across %d calls",
			styles.GetCostStyle(total).Render(fmt.Sprintf("$%.2f", total)), calls))
	}

	rows = append(rows, "")
	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// formatBytes renders a byte count in human units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-rollins/vapi-calls-tui/internal/ui/components"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
)

// View renders the browser tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	if m.showDetail && m.detail != nil {
		return m.renderDetail()
	}

	var sections []string
	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderTable())
	sections = append(sections, m.renderSummaryLine())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Calls")

	parts := []string{fmt.Sprintf("%d calls", m.state.GetCallCount())}
	parts = append(parts, fmt.Sprintf("sorted by %s", m.sortBy))
	if m.ascending {
		parts = append(parts, "ascending")
	}
	subtitle := styles.HelpStyle.Render(strings.Join(parts, " · "))

	if m.state.IsStale() {
		subtitle = lipgloss.JoinHorizontal(lipgloss.Top,
			subtitle,
			styles.StaleStyle.Render("  (cached, service unreachable)"),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTable() string {
	if len(m.calls) == 0 {
		return m.renderEmptyState()
	}

	m.reload()

	cardWidth := max(m.width-6, 60)
	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

func (m *Model) renderEmptyState() string {
	cardWidth := max(m.width-6, 40)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Calls Cached"),
		"",
		styles.HelpStyle.Render("Press 'r' to fetch calls from the service."),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

func (m *Model) renderSummaryLine() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.calls) {
		return ""
	}

	summary := m.calls[idx].Summary
	if summary == "" {
		return styles.HelpStyle.Render("No summary available.")
	}

	width := max(m.width-8, 20)
	return styles.HelpStyle.Render(truncate(strings.ReplaceAll(summary, "\n", " "), width))
}

func (m *Model) renderDetail() string {
	c := m.detail

	var sections []string

	title := styles.TitleStyle.Render("Call " + formatPhoneNumber(c.Caller))
	meta := styles.HelpStyle.Render(fmt.Sprintf("%s · %s · %s",
		c.Start.Local().Format("Jan 2, 2006 15:04"),
		formatLength(c.LengthInSeconds()),
		c.EndedReason,
	))
	sections = append(sections, title, meta, "")

	if c.Summary != "" {
		sections = append(sections,
			styles.SubTitleStyle.Render("Summary"),
			c.Summary,
			"",
		)
	}

	sections = append(sections, m.renderCostBreakdown(c.Cost, c.CostBreakdown))

	sections = append(sections,
		styles.SubTitleStyle.Render("Transcript"),
		colorizeTranscript(c.Transcript),
	)

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	footer := styles.HelpStyle.Render("esc: back · j/k: scroll")

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", footer))
}

func (m *Model) renderCostBreakdown(total float64, breakdown map[string]float64) string {
	var rows []string
	rows = append(rows, styles.SubTitleStyle.Render("Cost"))
	rows = append(rows, fmt.Sprintf("Total: %s", styles.GetCostStyle(total).Render(formatCost(total))))

	if len(breakdown) > 0 {
		keys := make([]string, 0, len(breakdown))
		for k := range breakdown {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			rows = append(rows, fmt.Sprintf("  %-14s %s", k, formatCost(breakdown[k])))
		}
	}

	rows = append(rows, "")
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

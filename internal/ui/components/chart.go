package components

import (
	"github.com/guptarohit/asciigraph"

	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
)

// RenderCostChart renders daily cost totals as an ASCII line chart.
// Returns an empty string when there is nothing to plot.
func RenderCostChart(values []float64, width, height int, caption string) string {
	if len(values) == 0 {
		return ""
	}
	if height < 3 {
		height = 3
	}
	// asciigraph's width is per data point; cap so the axis labels fit.
	plotWidth := width - 10
	if plotWidth < 10 {
		plotWidth = 10
	}
	graph := asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
	return styles.InfoTextStyle.Render(graph)
}

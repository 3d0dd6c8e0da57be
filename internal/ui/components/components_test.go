package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
)

func TestSpinner(t *testing.T) {
	s := NewSpinner("Loading calls")

	if s.Label() != "Loading calls" {
		t.Errorf("Label = %q, want %q", s.Label(), "Loading calls")
	}
	if s.Tick() == nil {
		t.Error("Tick should return a command")
	}

	s, _ = s.Update(spinner.TickMsg{})
	if !strings.Contains(s.ViewWithLabel(), "Loading calls") {
		t.Errorf("ViewWithLabel should include the label, got %q", s.ViewWithLabel())
	}

	s.SetLabel("Refreshing...")
	if s.Label() != "Refreshing..." {
		t.Error("SetLabel should update the label")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading calls")
	out := RenderSpinnerCentered(s, 40, 10)
	if !strings.Contains(out, "Loading calls") {
		t.Errorf("centered spinner should include the label, got %q", out)
	}
}

func TestRenderCostChart(t *testing.T) {
	chart := RenderCostChart([]float64{0.5, 1.2, 0.8}, 60, 8, "last 3 days")
	if chart == "" {
		t.Fatal("chart should not be empty with data")
	}
	if !strings.Contains(chart, "last 3 days") {
		t.Error("chart should include the caption")
	}
}

func TestRenderCostChart_Empty(t *testing.T) {
	if chart := RenderCostChart(nil, 60, 8, "caption"); chart != "" {
		t.Errorf("empty data should render nothing, got %q", chart)
	}
}

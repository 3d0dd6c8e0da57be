package browser

import (
	"testing"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

func sortFixture() []models.Call {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []models.Call{
		{ID: "short", Start: base.Add(2 * time.Hour), End: base.Add(2*time.Hour + 10*time.Second), Cost: 0.5, EndedReason: "Error"},
		{ID: "long", Start: base, End: base.Add(10 * time.Minute), Cost: 0.1, EndedReason: "Customer Ended"},
		{ID: "mid", Start: base.Add(time.Hour), End: base.Add(time.Hour + time.Minute), Cost: 0.9, EndedReason: "Assistant Ended"},
	}
}

func ids(calls []models.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.ID
	}
	return out
}

func assertOrder(t *testing.T, calls []models.Call, want ...string) {
	t.Helper()
	got := ids(calls)
	if len(got) != len(want) {
		t.Fatalf("wrong length: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrong order: got %v, want %v", got, want)
		}
	}
}

func TestSortCalls_ByTime(t *testing.T) {
	calls := sortFixture()
	sortCalls(calls, sortByTime, false)
	assertOrder(t, calls, "short", "mid", "long")

	sortCalls(calls, sortByTime, true)
	assertOrder(t, calls, "long", "mid", "short")
}

func TestSortCalls_ByLength(t *testing.T) {
	calls := sortFixture()
	sortCalls(calls, sortByLength, false)
	assertOrder(t, calls, "long", "mid", "short")
}

func TestSortCalls_ByCost(t *testing.T) {
	calls := sortFixture()
	sortCalls(calls, sortByCost, false)
	assertOrder(t, calls, "mid", "short", "long")
}

func TestSortCalls_ByEnded(t *testing.T) {
	calls := sortFixture()
	sortCalls(calls, sortByEnded, true)
	assertOrder(t, calls, "mid", "long", "short")
}

func TestSortField_Cycle(t *testing.T) {
	f := sortByTime
	seen := map[sortField]bool{}
	for i := 0; i < 4; i++ {
		seen[f] = true
		f = f.next()
	}
	if len(seen) != 4 {
		t.Errorf("cycle does not cover all fields: %v", seen)
	}
	if f != sortByTime {
		t.Errorf("cycle does not wrap: %v", f)
	}
}

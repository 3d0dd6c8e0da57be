package browser

import (
	"sort"

	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

// sortField identifies the column the call list is ordered by.
type sortField int

const (
	sortByTime sortField = iota
	sortByLength
	sortByCost
	sortByEnded
)

// String returns the display name of the sort field.
func (f sortField) String() string {
	switch f {
	case sortByTime:
		return "time"
	case sortByLength:
		return "length"
	case sortByCost:
		return "cost"
	case sortByEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// next cycles to the following sort field.
func (f sortField) next() sortField {
	return sortField((int(f) + 1) % 4)
}

// sortCalls orders calls in place by the given field. Descending order
// shows the newest, longest, or most expensive calls first.
func sortCalls(calls []models.Call, field sortField, ascending bool) {
	less := func(a, b models.Call) bool {
		switch field {
		case sortByLength:
			return a.LengthInSeconds() < b.LengthInSeconds()
		case sortByCost:
			return a.Cost < b.Cost
		case sortByEnded:
			return a.EndedReason < b.EndedReason
		default:
			return a.Start.Before(b.Start)
		}
	}

	sort.SliceStable(calls, func(i, j int) bool {
		if ascending {
			return less(calls[i], calls[j])
		}
		return less(calls[j], calls[i])
	})
}

package vapi

import (
	"encoding/json"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

// rawCall mirrors the shape of a call object returned by the API.
type rawCall struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
	EndedAt   string `json:"endedAt"`
	Customer  struct {
		Number string `json:"number"`
	} `json:"customer"`
	Artifact struct {
		Transcript string `json:"transcript"`
	} `json:"artifact"`
	Analysis struct {
		Summary string `json:"summary"`
	} `json:"analysis"`
	Cost          json.RawMessage    `json:"cost"`
	CostBreakdown map[string]float64 `json:"costBreakdown"`
	EndedReason   string             `json:"endedReason"`
}

// apiTimeLayout is the timestamp format the API uses.
const apiTimeLayout = "2006-01-02T15:04:05.000Z"

// parseCall converts an API call object into the domain model.
func parseCall(raw *rawCall) models.Call {
	call := models.Call{
		ID:            raw.ID,
		Caller:        raw.Customer.Number,
		Transcript:    raw.Artifact.Transcript,
		Summary:       raw.Analysis.Summary,
		CostBreakdown: raw.CostBreakdown,
		EndedReason:   normalizeEndedReason(raw.EndedReason),
	}

	call.Start = parseAPITime(raw.CreatedAt)
	if raw.EndedAt != "" {
		call.End = parseAPITime(raw.EndedAt)
	} else {
		call.End = call.Start
	}

	call.Cost = parseCost(raw.Cost)

	return call
}

// parseAPITime parses an API timestamp, tolerating fractional-second
// variations.
func parseAPITime(value string) time.Time {
	for _, layout := range []string{apiTimeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseCost handles cost as either a scalar or an object with a total field.
func parseCost(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		return scalar
	}

	var obj struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Total
	}

	return 0
}

// normalizeEndedReason rewrites well-known machine reasons into display form.
func normalizeEndedReason(reason string) string {
	switch reason {
	case "customer-ended-call":
		return "Customer Ended"
	case "assistant-ended-call":
		return "Assistant Ended"
	case "system-ended-call":
		return "System Ended"
	case "error":
		return "Error"
	default:
		return reason
	}
}

package vapi

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCall(t *testing.T) {
	payload := `{
		"id": "call-1",
		"createdAt": "2025-06-01T12:00:00.000Z",
		"endedAt": "2025-06-01T12:01:30.000Z",
		"customer": {"number": "+15551234567"},
		"artifact": {"transcript": "AI: Hello\nUser: Hi"},
		"analysis": {"summary": "Greeting"},
		"cost": 0.12,
		"costBreakdown": {"llm": 0.08, "tts": 0.04},
		"endedReason": "customer-ended-call"
	}`

	var raw rawCall
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	call := parseCall(&raw)

	if call.ID != "call-1" {
		t.Errorf("wrong id: %q", call.ID)
	}
	if call.Caller != "+15551234567" {
		t.Errorf("wrong caller: %q", call.Caller)
	}
	if call.Transcript != "AI: Hello\nUser: Hi" {
		t.Errorf("wrong transcript: %q", call.Transcript)
	}
	if call.Summary != "Greeting" {
		t.Errorf("wrong summary: %q", call.Summary)
	}
	if call.Cost != 0.12 {
		t.Errorf("wrong cost: %v", call.Cost)
	}
	if call.CostBreakdown["llm"] != 0.08 {
		t.Errorf("wrong cost breakdown: %v", call.CostBreakdown)
	}
	if call.EndedReason != "Customer Ended" {
		t.Errorf("ended reason not normalized: %q", call.EndedReason)
	}

	wantStart := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !call.Start.Equal(wantStart) {
		t.Errorf("wrong start: %v", call.Start)
	}
	if got := call.LengthInSeconds(); got != 90 {
		t.Errorf("wrong length: %v", got)
	}
}

func TestParseCall_CostObject(t *testing.T) {
	payload := `{
		"id": "call-2",
		"createdAt": "2025-06-01T12:00:00.000Z",
		"cost": {"total": 0.42, "stt": 0.1}
	}`

	var raw rawCall
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	call := parseCall(&raw)
	if call.Cost != 0.42 {
		t.Errorf("expected cost from total field, got %v", call.Cost)
	}
}

func TestParseCall_MissingEnd(t *testing.T) {
	payload := `{"id": "call-3", "createdAt": "2025-06-01T12:00:00.000Z"}`

	var raw rawCall
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	call := parseCall(&raw)
	if !call.End.Equal(call.Start) {
		t.Errorf("missing endedAt should fall back to start, got %v", call.End)
	}
	if err := call.Validate(); err != nil {
		t.Errorf("in-progress call should be valid: %v", err)
	}
}

func TestParseAPITime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T12:00:00.000Z", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2025-06-01T12:00:00Z", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"2025-06-01T12:00:00.123456Z", time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.UTC)},
		{"garbage", time.Time{}},
	}

	for _, tc := range cases {
		if got := parseAPITime(tc.in); !got.Equal(tc.want) {
			t.Errorf("parseAPITime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseCost(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`0.5`, 0.5},
		{`{"total": 1.25}`, 1.25},
		{`{"other": 3}`, 0},
		{``, 0},
		{`"bogus"`, 0},
	}

	for _, tc := range cases {
		if got := parseCost(json.RawMessage(tc.in)); got != tc.want {
			t.Errorf("parseCost(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeEndedReason(t *testing.T) {
	cases := map[string]string{
		"customer-ended-call":  "Customer Ended",
		"assistant-ended-call": "Assistant Ended",
		"system-ended-call":    "System Ended",
		"error":                "Error",
		"something-else":       "something-else",
		"":                     "",
	}

	for in, want := range cases {
		if got := normalizeEndedReason(in); got != want {
			t.Errorf("normalizeEndedReason(%q) = %q, want %q", in, got, want)
		}
	}
}

// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// Call represents one voice-API call record: transcript, summary and cost.
// A Call is an immutable snapshot; a refetch replaces the cached entry
// wholesale rather than mutating fields in place.
type Call struct {
	Start         time.Time
	End           time.Time
	CostBreakdown map[string]float64
	ID            string
	Caller        string
	Transcript    string
	Summary       string
	EndedReason   string
	Cost          float64
}

// ValidationError indicates a call record that fails schema checks. The cache
// store treats such records as absent rather than failing the session.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid call record: %s %s", e.Field, e.Reason)
}

// Validate checks the record invariants: a non-empty id, end not before
// start, and a non-negative cost.
func (c *Call) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Reason: "is empty"}
	}
	if !c.End.IsZero() && c.End.Before(c.Start) {
		return &ValidationError{Field: "end", Reason: "is before start"}
	}
	if c.Cost < 0 {
		return &ValidationError{Field: "cost", Reason: "is negative"}
	}
	return nil
}

// Duration returns the length of the call.
func (c *Call) Duration() time.Duration {
	return c.End.Sub(c.Start)
}

// LengthInSeconds returns the call length in seconds.
func (c *Call) LengthInSeconds() float64 {
	return c.Duration().Seconds()
}

// Clone returns a deep copy of the call.
func (c *Call) Clone() Call {
	clone := *c
	if c.CostBreakdown != nil {
		clone.CostBreakdown = make(map[string]float64, len(c.CostBreakdown))
		for k, v := range c.CostBreakdown {
			clone.CostBreakdown[k] = v
		}
	}
	return clone
}

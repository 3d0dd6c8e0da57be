package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/logger"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

// timeLayout is how timestamps are stored; it sorts lexicographically and is
// readable by SQLite's date/time functions.
const timeLayout = "2006-01-02 15:04:05"

// GetCall returns the cached call for id, or (nil, nil) when absent. A stored
// row that fails decoding or validation is logged and reported as absent so
// that a corrupted entry triggers a refetch instead of breaking browsing.
func (db *DB) GetCall(id string) (*models.Call, error) {
	query := `
		SELECT id, caller, transcript, summary, start, end, cost, cost_breakdown, ended_reason
		FROM calls
		WHERE id = ?
	`

	call, err := scanCall(db.QueryRowContext(context.Background(), query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get call %s: %w", id, err)
	}
	if call == nil {
		// Malformed row: treat as absent.
		return nil, nil
	}

	return call, nil
}

// PutCall inserts or replaces the cache entry for call.ID, stamping
// fetched_at with the current time. Idempotent.
func (db *DB) PutCall(call *models.Call) error {
	return db.PutCalls([]models.Call{*call})
}

// PutCalls inserts or replaces entries for all calls inside a single
// transaction, so a crash mid-write leaves either the old or the new value,
// never a partial record.
func (db *DB) PutCalls(calls []models.Call) error {
	if len(calls) == 0 {
		return nil
	}

	for i := range calls {
		if err := calls[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(context.Background(), `
		INSERT OR REPLACE INTO calls (
			id, caller, transcript, summary, start, end, cost, cost_breakdown, ended_reason, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	fetchedAt := db.now().UTC().Format(timeLayout)

	for i := range calls {
		call := &calls[i]

		breakdown, err := json.Marshal(call.CostBreakdown)
		if err != nil {
			return fmt.Errorf("failed to encode cost breakdown for %s: %w", call.ID, err)
		}

		_, err = stmt.ExecContext(context.Background(),
			call.ID,
			call.Caller,
			call.Transcript,
			call.Summary,
			call.Start.UTC().Format(timeLayout),
			call.End.UTC().Format(timeLayout),
			call.Cost,
			string(breakdown),
			call.EndedReason,
			fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert call %s: %w", call.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calls: %w", err)
	}

	return nil
}

// ListCallIDs returns all cached call ids, order unspecified.
func (db *DB) ListCallIDs() ([]string, error) {
	rows, err := db.QueryContext(context.Background(), "SELECT id FROM calls")
	if err != nil {
		return nil, fmt.Errorf("failed to query call ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan call id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListCalls returns all cached calls, most recent start first. Malformed rows
// are skipped with a log line.
func (db *DB) ListCalls() ([]models.Call, error) {
	query := `
		SELECT id, caller, transcript, summary, start, end, cost, cost_breakdown, ended_reason
		FROM calls
		ORDER BY start DESC
	`

	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calls []models.Call
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}
		if call == nil {
			continue
		}
		calls = append(calls, *call)
	}

	return calls, rows.Err()
}

// LatestCall returns the most recent cached call by start time, or (nil, nil)
// when the cache is empty.
func (db *DB) LatestCall() (*models.Call, error) {
	query := `
		SELECT id, caller, transcript, summary, start, end, cost, cost_breakdown, ended_reason
		FROM calls
		ORDER BY start DESC
		LIMIT 1
	`

	call, err := scanCall(db.QueryRowContext(context.Background(), query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest call: %w", err)
	}

	return call, nil
}

// Clear removes all cache entries in one transaction.
func (db *DB) Clear() error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(context.Background(), "DELETE FROM calls"); err != nil {
		return fmt.Errorf("failed to clear calls: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCall decodes one calls row. It returns (nil, nil) for rows whose
// payload is malformed or fails validation.
func scanCall(s scanner) (*models.Call, error) {
	var call models.Call
	var startStr, endStr string
	var caller, transcript, summary, breakdown, endedReason sql.NullString

	err := s.Scan(
		&call.ID,
		&caller,
		&transcript,
		&summary,
		&startStr,
		&endStr,
		&call.Cost,
		&breakdown,
		&endedReason,
	)
	if err != nil {
		return nil, err
	}

	call.Caller = caller.String
	call.Transcript = transcript.String
	call.Summary = summary.String
	call.EndedReason = endedReason.String

	call.Start, err = time.ParseInLocation(timeLayout, startStr, time.UTC)
	if err != nil {
		logger.Warn("dropping cached call with malformed start time", "id", call.ID, "error", err)
		return nil, nil
	}
	call.End, err = time.ParseInLocation(timeLayout, endStr, time.UTC)
	if err != nil {
		logger.Warn("dropping cached call with malformed end time", "id", call.ID, "error", err)
		return nil, nil
	}

	if breakdown.String != "" {
		if err := json.Unmarshal([]byte(breakdown.String), &call.CostBreakdown); err != nil {
			logger.Warn("dropping cached call with malformed cost breakdown", "id", call.ID, "error", err)
			return nil, nil
		}
	}

	if err := call.Validate(); err != nil {
		logger.Warn("dropping cached call that fails validation", "id", call.ID, "error", err)
		return nil, nil
	}

	return &call, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// CacheStats describes the state of the cache file.
type CacheStats struct {
	OldestFetch time.Time
	NewestFetch time.Time
	Path        string
	CallCount   int
	SizeBytes   int64
}

// DailyCost is the summed call cost for one day, used by the stats chart.
type DailyCost struct {
	Day       time.Time
	TotalCost float64
	CallCount int
}

// Stats returns cache statistics: entry count, file size and the age range of
// cached entries.
func (db *DB) Stats() (CacheStats, error) {
	stats := CacheStats{Path: db.path}

	if info, err := os.Stat(db.path); err == nil {
		stats.SizeBytes = info.Size()
	}

	var oldest, newest sql.NullString
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*), MIN(fetched_at), MAX(fetched_at) FROM calls").
		Scan(&stats.CallCount, &oldest, &newest)
	if err != nil {
		return stats, fmt.Errorf("failed to query cache stats: %w", err)
	}

	if oldest.Valid {
		stats.OldestFetch, _ = time.ParseInLocation(timeLayout, oldest.String, time.UTC)
	}
	if newest.Valid {
		stats.NewestFetch, _ = time.ParseInLocation(timeLayout, newest.String, time.UTC)
	}

	return stats, nil
}

// DailyCosts returns per-day cost totals for the last `days` days, oldest
// first.
func (db *DB) DailyCosts(days int) ([]DailyCost, error) {
	query := `
		SELECT strftime('%Y-%m-%d', start) AS day,
			   COALESCE(SUM(cost), 0) AS total_cost,
			   COUNT(*) AS call_count
		FROM calls
		WHERE start >= datetime('now', ?)
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily costs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var costs []DailyCost
	for rows.Next() {
		var c DailyCost
		var dayStr string
		if err := rows.Scan(&dayStr, &c.TotalCost, &c.CallCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily cost: %w", err)
		}
		c.Day, _ = time.ParseInLocation("2006-01-02", dayStr, time.UTC)
		costs = append(costs, c)
	}

	return costs, rows.Err()
}

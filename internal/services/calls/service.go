// Package calls decides, per call id, whether to serve from the local cache
// or fetch from the remote service, and writes fetched results back.
package calls

import (
	"context"
	"fmt"

	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/logger"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
	"github.com/d-rollins/vapi-calls-tui/internal/vapi"
)

// Service coordinates the cache store and the remote fetcher. It is the only
// layer that decides between stale-cache fallback and surfacing an error:
// transient fetch failures degrade to cached data (flagged stale), permanent
// failures always surface.
type Service struct {
	store   *db.DB
	fetcher vapi.Fetcher
}

// New creates a new call sync service.
func New(store *db.DB, fetcher vapi.Fetcher) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
	}
}

// GetCall returns the call for id, preferring cache. With forceRefresh the
// remote service is always consulted. The stale flag is set when a transient
// fetch failure forced a fallback to a previously cached value.
func (s *Service) GetCall(ctx context.Context, id string, forceRefresh bool) (call *models.Call, stale bool, err error) {
	cached, err := s.store.GetCall(id)
	if err != nil {
		return nil, false, err
	}

	if cached != nil && !forceRefresh {
		return cached, false, nil
	}

	fresh, err := s.fetcher.FetchCall(ctx, id)
	if err != nil {
		if vapi.IsTransient(err) && cached != nil {
			logger.Warn("serving stale cached call after transient fetch failure", "id", id, "error", err)
			return cached, true, nil
		}
		return nil, false, err
	}

	if err := s.store.PutCall(fresh); err != nil {
		return nil, false, err
	}

	return fresh, false, nil
}

// ListCalls returns all known calls, preferring cache. With an empty cache or
// forceRefresh the remote index is fetched and reconciled: ids present
// remotely but missing locally are fetched and added, while cached ids absent
// remotely are left untouched. The cache is an additive local archive, never
// auto-evicted by listing diffs.
func (s *Service) ListCalls(ctx context.Context, forceRefresh bool) (result []models.Call, stale bool, err error) {
	cached, err := s.store.ListCalls()
	if err != nil {
		return nil, false, err
	}

	if len(cached) > 0 && !forceRefresh {
		return cached, false, nil
	}

	if err := s.refresh(ctx); err != nil {
		if vapi.IsTransient(err) && len(cached) > 0 {
			logger.Warn("serving stale cached call list after transient fetch failure", "error", err)
			return cached, true, nil
		}
		return nil, false, err
	}

	fresh, err := s.store.ListCalls()
	if err != nil {
		return nil, false, err
	}
	return fresh, false, nil
}

// refresh reconciles the cache against the remote index.
func (s *Service) refresh(ctx context.Context) error {
	ids, err := s.fetcher.FetchCallIndex(ctx)
	if err != nil {
		return err
	}

	cachedIDs, err := s.store.ListCallIDs()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(cachedIDs))
	for _, id := range cachedIDs {
		known[id] = true
	}

	var fetched []models.Call
	for _, id := range ids {
		if known[id] {
			continue
		}
		call, err := s.fetcher.FetchCall(ctx, id)
		if err != nil {
			// Persist what arrived before failing so a partial refresh
			// still advances the cache.
			if putErr := s.store.PutCalls(fetched); putErr != nil {
				logger.Error("failed to persist partial refresh", "error", putErr)
			}
			return err
		}
		fetched = append(fetched, *call)
	}

	if err := s.store.PutCalls(fetched); err != nil {
		return err
	}

	if len(fetched) > 0 {
		logger.Info("refreshed call cache", "new_calls", len(fetched), "remote_ids", len(ids))
	}
	return nil
}

// Refresh forces a reconciliation against the remote index and reports how
// many new calls were added.
func (s *Service) Refresh(ctx context.Context) (added int, err error) {
	before, err := s.store.ListCallIDs()
	if err != nil {
		return 0, err
	}

	if err := s.refresh(ctx); err != nil {
		return 0, err
	}

	after, err := s.store.ListCallIDs()
	if err != nil {
		return 0, err
	}
	return len(after) - len(before), nil
}

// HasNewCalls is a cheap up-to-date probe: it compares the newest remote id
// against the newest cached call without transferring full records.
func (s *Service) HasNewCalls(ctx context.Context) (bool, error) {
	ids, err := s.fetcher.FetchCallIndex(ctx)
	if err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}

	latest, err := s.store.LatestCall()
	if err != nil {
		return false, err
	}
	if latest == nil {
		return true, nil
	}

	// The index is returned newest first.
	return ids[0] != latest.ID, nil
}

// Store exposes the underlying cache store for read-only queries (stats).
func (s *Service) Store() *db.DB {
	return s.store
}

// ClearCache removes every cached entry.
func (s *Service) ClearCache() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logger.Info("cache cleared")
	return nil
}

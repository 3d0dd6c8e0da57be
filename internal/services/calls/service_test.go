package calls

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
	"github.com/d-rollins/vapi-calls-tui/internal/vapi"
)

// fakeFetcher is a scriptable vapi.Fetcher.
type fakeFetcher struct {
	calls      map[string]models.Call
	index      []string
	indexErr   error
	fetchErr   map[string]error
	fetchCount int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:    make(map[string]models.Call),
		fetchErr: make(map[string]error),
	}
}

func (f *fakeFetcher) add(call models.Call) {
	f.calls[call.ID] = call
	// Keep newest first, like the real index.
	f.index = append([]string{call.ID}, f.index...)
}

func (f *fakeFetcher) FetchCall(_ context.Context, id string) (*models.Call, error) {
	f.fetchCount++
	if err, ok := f.fetchErr[id]; ok {
		return nil, err
	}
	call, ok := f.calls[id]
	if !ok {
		return nil, &vapi.FetchError{Op: "fetch call", Kind: vapi.KindPermanent, Err: errors.New("not found")}
	}
	return &call, nil
}

func (f *fakeFetcher) FetchCallIndex(_ context.Context) ([]string, error) {
	if f.indexErr != nil {
		return nil, f.indexErr
	}
	return f.index, nil
}

func transientErr() error {
	return &vapi.FetchError{Op: "fetch", Kind: vapi.KindTransient, Err: errors.New("timeout")}
}

func permanentErr() error {
	return &vapi.FetchError{Op: "fetch", Kind: vapi.KindPermanent, Err: errors.New("unauthorized")}
}

func newTestService(t *testing.T) (*Service, *fakeFetcher) {
	t.Helper()

	store, err := db.New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	fetcher := newFakeFetcher()
	return New(store, fetcher), fetcher
}

func makeCall(id string, start time.Time) models.Call {
	return models.Call{
		ID:          id,
		Caller:      "+15551234567",
		Start:       start,
		End:         start.Add(time.Minute),
		Cost:        0.1,
		EndedReason: "Customer Ended",
	}
}

func TestGetCall_CacheHitSkipsFetch(t *testing.T) {
	svc, fetcher := newTestService(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cached := makeCall("call-1", start)
	if err := svc.Store().PutCall(&cached); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	call, stale, err := svc.GetCall(context.Background(), "call-1", false)
	if err != nil {
		t.Fatalf("GetCall failed: %v", err)
	}
	if call == nil || call.ID != "call-1" {
		t.Fatalf("wrong call: %+v", call)
	}
	if stale {
		t.Error("cache hit should not be stale")
	}
	if fetcher.fetchCount != 0 {
		t.Errorf("cache hit fetched remotely %d times", fetcher.fetchCount)
	}
}

func TestGetCall_MissFetchesAndCaches(t *testing.T) {
	svc, fetcher := newTestService(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher.add(makeCall("call-1", start))

	call, stale, err := svc.GetCall(context.Background(), "call-1", false)
	if err != nil {
		t.Fatalf("GetCall failed: %v", err)
	}
	if call == nil || stale {
		t.Fatalf("unexpected result: call=%+v stale=%v", call, stale)
	}

	// Now cached: a second get must not fetch again.
	fetcher.fetchCount = 0
	if _, _, err := svc.GetCall(context.Background(), "call-1", false); err != nil {
		t.Fatalf("second GetCall failed: %v", err)
	}
	if fetcher.fetchCount != 0 {
		t.Error("second GetCall hit the remote service")
	}
}

func TestGetCall_TransientFailureFallsBackToCache(t *testing.T) {
	svc, fetcher := newTestService(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cached := makeCall("call-1", start)
	if err := svc.Store().PutCall(&cached); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	fetcher.fetchErr["call-1"] = transientErr()

	call, stale, err := svc.GetCall(context.Background(), "call-1", true)
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if call == nil || call.ID != "call-1" {
		t.Fatalf("wrong call: %+v", call)
	}
	if !stale {
		t.Error("fallback result must be flagged stale")
	}
}

func TestGetCall_TransientFailureWithoutCacheSurfaces(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.fetchErr["call-1"] = transientErr()
	fetcher.index = []string{"call-1"}

	_, _, err := svc.GetCall(context.Background(), "call-1", false)
	if err == nil {
		t.Fatal("expected error with empty cache")
	}
	if !vapi.IsTransient(err) {
		t.Errorf("error lost its classification: %v", err)
	}
}

func TestGetCall_PermanentFailureAlwaysSurfaces(t *testing.T) {
	svc, fetcher := newTestService(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cached := makeCall("call-1", start)
	if err := svc.Store().PutCall(&cached); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	fetcher.fetchErr["call-1"] = permanentErr()

	_, _, err := svc.GetCall(context.Background(), "call-1", true)
	if err == nil {
		t.Fatal("permanent failure must surface even with cached data")
	}
	if !vapi.IsPermanent(err) {
		t.Errorf("error lost its classification: %v", err)
	}
}

func TestListCalls_ReconciliationIsAdditive(t *testing.T) {
	svc, fetcher := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Cache holds A and B; the remote index reports B and C.
	a := makeCall("a", base)
	b := makeCall("b", base.Add(time.Hour))
	if err := svc.Store().PutCalls([]models.Call{a, b}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	fetcher.add(b)
	fetcher.add(makeCall("c", base.Add(2*time.Hour)))

	list, stale, err := svc.ListCalls(context.Background(), true)
	if err != nil {
		t.Fatalf("ListCalls failed: %v", err)
	}
	if stale {
		t.Error("successful refresh must not be stale")
	}

	got := make(map[string]bool, len(list))
	for _, c := range list {
		got[c.ID] = true
	}
	for _, id := range []string{"a", "b", "c"} {
		if !got[id] {
			t.Errorf("call %q missing after reconciliation", id)
		}
	}
	if len(list) != 3 {
		t.Errorf("expected 3 calls, got %d", len(list))
	}
}

func TestListCalls_TransientFailureFallsBackToCache(t *testing.T) {
	svc, fetcher := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := makeCall("a", base)
	if err := svc.Store().PutCall(&a); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	fetcher.indexErr = transientErr()

	list, stale, err := svc.ListCalls(context.Background(), true)
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if !stale {
		t.Error("fallback list must be flagged stale")
	}
	if len(list) != 1 || list[0].ID != "a" {
		t.Errorf("wrong fallback list: %+v", list)
	}
}

func TestListCalls_EmptyCacheTransientFailureSurfaces(t *testing.T) {
	svc, fetcher := newTestService(t)
	fetcher.indexErr = transientErr()

	_, _, err := svc.ListCalls(context.Background(), false)
	if err == nil {
		t.Fatal("expected error with empty cache")
	}
}

func TestRefresh_CountsNewCalls(t *testing.T) {
	svc, fetcher := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher.add(makeCall("a", base))
	fetcher.add(makeCall("b", base.Add(time.Hour)))

	added, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 new calls, got %d", added)
	}

	// A second refresh finds nothing new.
	added, err = svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("second Refresh failed: %v", err)
	}
	if added != 0 {
		t.Errorf("expected 0 new calls, got %d", added)
	}
}

func TestRefresh_PersistsPartialProgress(t *testing.T) {
	svc, fetcher := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher.add(makeCall("a", base))
	fetcher.add(makeCall("b", base.Add(time.Hour)))
	// Index is newest first: b then a. Fail the second fetch.
	fetcher.fetchErr["a"] = transientErr()

	_, err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh to fail")
	}

	// The call fetched before the failure must still be cached.
	cached, err := svc.Store().GetCall("b")
	if err != nil {
		t.Fatalf("GetCall failed: %v", err)
	}
	if cached == nil {
		t.Error("partial progress was not persisted")
	}
}

func TestHasNewCalls(t *testing.T) {
	svc, fetcher := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fetcher.add(makeCall("a", base))

	// Empty cache with a non-empty index means there is something new.
	hasNew, err := svc.HasNewCalls(context.Background())
	if err != nil {
		t.Fatalf("HasNewCalls failed: %v", err)
	}
	if !hasNew {
		t.Error("empty cache should report new calls")
	}

	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	hasNew, err = svc.HasNewCalls(context.Background())
	if err != nil {
		t.Fatalf("HasNewCalls failed: %v", err)
	}
	if hasNew {
		t.Error("up-to-date cache should not report new calls")
	}

	fetcher.add(makeCall("newer", base.Add(2*time.Hour)))

	hasNew, err = svc.HasNewCalls(context.Background())
	if err != nil {
		t.Fatalf("HasNewCalls failed: %v", err)
	}
	if !hasNew {
		t.Error("new remote call not detected")
	}
}

func TestClearCache(t *testing.T) {
	svc, _ := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := makeCall("a", base)
	if err := svc.Store().PutCall(&a); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := svc.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}

	ids, err := svc.Store().ListCallIDs()
	if err != nil {
		t.Fatalf("ListCallIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("cache not empty after clear: %v", ids)
	}
}

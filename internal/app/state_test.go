package app

import (
	"testing"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if !s.IsInitialLoading() {
		t.Error("new state should start in initial loading")
	}
	if s.GetCallCount() != 0 {
		t.Error("new state should have no calls")
	}
	if s.IsStale() {
		t.Error("new state should not be stale")
	}
}

func TestState_SetCalls(t *testing.T) {
	s := NewState()

	calls := []models.Call{
		{ID: "a", Start: time.Now()},
		{ID: "b", Start: time.Now()},
	}
	s.SetCalls(calls, true)

	if s.GetCallCount() != 2 {
		t.Errorf("expected 2 calls, got %d", s.GetCallCount())
	}
	if !s.IsStale() {
		t.Error("stale flag not recorded")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("last updated not recorded")
	}

	// The returned slice is a copy.
	got := s.GetCalls()
	got[0].ID = "mutated"
	if s.GetCalls()[0].ID != "a" {
		t.Error("GetCalls leaked internal slice")
	}
}

func TestState_SetCalls_ClampsSelection(t *testing.T) {
	s := NewState()
	s.SetCalls([]models.Call{{ID: "a"}, {ID: "b"}, {ID: "c"}}, false)
	s.SetSelectedCallIndex(2)

	s.SetCalls([]models.Call{{ID: "a"}}, false)

	if idx := s.GetSelectedCallIndex(); idx != 0 {
		t.Errorf("selection not clamped: %d", idx)
	}
}

func TestState_GetSelectedCall(t *testing.T) {
	s := NewState()

	if s.GetSelectedCall() != nil {
		t.Error("expected nil selection for empty state")
	}

	s.SetCalls([]models.Call{{ID: "a"}, {ID: "b"}}, false)
	s.SetSelectedCallIndex(1)

	call := s.GetSelectedCall()
	if call == nil || call.ID != "b" {
		t.Errorf("wrong selection: %+v", call)
	}
}

func TestState_Loading(t *testing.T) {
	s := NewState()
	s.SetLoading("initial", false)

	if s.AnyLoading() {
		t.Error("nothing should be loading")
	}

	s.SetLoading("refresh", true)
	if !s.AnyLoading() {
		t.Error("refresh loading not tracked")
	}

	s.SetLoading("refresh", false)
	s.SetLoading("calls", true)
	s.SetLoading("stats", true)
	if !s.AnyLoading() {
		t.Error("calls/stats loading not tracked")
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationSuccess, "done", time.Minute)
	if id == "" {
		t.Fatal("empty notification id")
	}

	if len(s.GetNotifications()) != 1 {
		t.Fatal("notification not stored")
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("notification not removed")
	}
}

func TestState_NotificationExpiry(t *testing.T) {
	s := NewState()

	s.AddNotification(NotificationInfo, "short lived", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if len(s.GetNotifications()) != 0 {
		t.Error("expired notification still visible")
	}

	s.ClearExpiredNotifications()
	s.AddNotification(NotificationInfo, "sticky", 0)
	time.Sleep(time.Millisecond)
	if len(s.GetNotifications()) != 1 {
		t.Error("zero-duration notification must not expire")
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()

	for i := 0; i < 15; i++ {
		s.AddNotification(NotificationInfo, "n", time.Minute)
	}

	if got := len(s.GetNotifications()); got > 10 {
		t.Errorf("notification list not capped: %d", got)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("Loading...")
	s.SetLoadingNotification("Still loading...")

	notifications := s.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("expected a single loading notification, got %d", len(notifications))
	}
	if notifications[0].Message != "Still loading..." {
		t.Errorf("message not updated: %q", notifications[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("loading notification not cleared")
	}
}

func TestState_Stats(t *testing.T) {
	s := NewState()

	stats := &db.CacheStats{CallCount: 5}
	s.SetStats(stats)

	if got := s.GetStats(); got == nil || got.CallCount != 5 {
		t.Errorf("stats not stored: %+v", got)
	}

	costs := []db.DailyCost{{TotalCost: 1.5, CallCount: 3}}
	s.SetDailyCosts(costs)
	if got := s.GetDailyCosts(); len(got) != 1 || got[0].TotalCost != 1.5 {
		t.Errorf("daily costs not stored: %+v", got)
	}
}

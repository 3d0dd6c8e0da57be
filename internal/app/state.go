// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Calls   bool
	Refresh bool
	Stats   bool
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	Calls             []models.Call
	SelectedCallIndex int
	Stale             bool
	Stats             *db.CacheStats
	DailyCosts        []db.DailyCost

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		Calls:         make([]models.Call, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "calls":
		s.Loading.Calls = loading
	case "refresh":
		s.Loading.Refresh = loading
	case "stats":
		s.Loading.Stats = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Calls ||
		s.Loading.Refresh ||
		s.Loading.Stats
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetCalls replaces the call list and records whether it may be stale.
func (s *State) SetCalls(calls []models.Call, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = calls
	s.Stale = stale
	s.LastUpdated = time.Now()

	if s.SelectedCallIndex >= len(calls) {
		s.SelectedCallIndex = max(0, len(calls)-1)
	}
}

// GetCalls returns a copy of the call list.
func (s *State) GetCalls() []models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make([]models.Call, len(s.Calls))
	copy(calls, s.Calls)
	return calls
}

// GetCallCount returns the number of calls.
func (s *State) GetCallCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Calls)
}

// IsStale reports whether the current call list may lag the remote service.
func (s *State) IsStale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stale
}

// GetSelectedCall returns the currently selected call, or nil when the
// list is empty.
func (s *State) GetSelectedCall() *models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.SelectedCallIndex < 0 || s.SelectedCallIndex >= len(s.Calls) {
		return nil
	}
	call := s.Calls[s.SelectedCallIndex].Clone()
	return &call
}

// GetSelectedCallIndex returns the currently selected call index.
func (s *State) GetSelectedCallIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedCallIndex
}

// SetSelectedCallIndex updates the selected call index.
func (s *State) SetSelectedCallIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedCallIndex = idx
}

// SetStats updates the cache statistics.
func (s *State) SetStats(stats *db.CacheStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = stats
}

// GetStats returns the current cache statistics.
func (s *State) GetStats() *db.CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// SetDailyCosts updates the per-day cost aggregates.
func (s *State) SetDailyCosts(costs []db.DailyCost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DailyCosts = costs
}

// GetDailyCosts returns the per-day cost aggregates.
func (s *State) GetDailyCosts() []db.DailyCost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	costs := make([]db.DailyCost, len(s.DailyCosts))
	copy(costs, s.DailyCosts)
	return costs
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the call list changed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

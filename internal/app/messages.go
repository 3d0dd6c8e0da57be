package app

import (
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
	"github.com/d-rollins/vapi-calls-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// CallsLoadedMsg contains the loaded call list.
type CallsLoadedMsg struct {
	Calls []models.Call
	Stale bool
	Error error
}

// RefreshResultMsg contains the result of a cache refresh.
type RefreshResultMsg struct {
	NewCalls int
	Error    error
}

// StatsLoadedMsg contains loaded cache statistics.
type StatsLoadedMsg struct {
	Stats      *db.CacheStats
	DailyCosts []db.DailyCost
	Error      error
}

// ClearCacheResultMsg contains the result of clearing the cache.
type ClearCacheResultMsg struct {
	Error error
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "calls", "stats"
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// SortMsg changes the sort order of the call list.
type SortMsg struct {
	Field     string
	Ascending bool
}

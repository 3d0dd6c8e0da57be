// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/d-rollins/vapi-calls-tui/internal/config"
	"github.com/d-rollins/vapi-calls-tui/internal/db"
	"github.com/d-rollins/vapi-calls-tui/internal/logger"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
	"github.com/d-rollins/vapi-calls-tui/internal/services/calls"
	"github.com/d-rollins/vapi-calls-tui/internal/vapi"
)

type (
	// CallsUpdatedEvent is emitted when the cached call list changes, either
	// from a refresh in this process or from another process instance
	// writing the shared cache file.
	CallsUpdatedEvent struct {
		Calls []models.Call
		Stale bool
	}

	// RefreshStartedEvent is emitted when a background refresh begins.
	RefreshStartedEvent struct{}

	// RefreshFinishedEvent is emitted when a background refresh completes.
	RefreshFinishedEvent struct {
		Error    error
		NewCalls int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (CallsUpdatedEvent) isServiceEvent()    {}
func (RefreshStartedEvent) isServiceEvent()  {}
func (RefreshFinishedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

// Manager orchestrates the cache store, the remote client and the sync
// service, and routes events to TUI subscribers.
type Manager struct {
	mu            sync.RWMutex
	calls         *calls.Service
	database      *db.DB
	cfg           *config.Config
	watcher       *fsnotify.Watcher
	eventChan     chan ServiceEvent
	stopChan      chan struct{}
	subscribers   []chan<- ServiceEvent
	debounceTimer *time.Timer
	refreshing    bool
	closeOnce     sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:       cfg,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	client := vapi.NewClient(vapi.Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		LookbackDays: cfg.LookbackDays,
		FetchLimit:   cfg.FetchLimit,
	})
	m.calls = calls.New(m.database, client)

	if err := m.startWatcher(); err != nil {
		// A failed watcher degrades cross-process liveness, not correctness.
		logger.Warn("cache file watching disabled", "error", err)
	}

	if !cfg.Offline && cfg.RefreshInterval > 0 {
		go m.refreshLoop()
	}

	return m, nil
}

// Calls returns the call sync service.
func (m *Manager) Calls() *calls.Service {
	return m.calls
}

// Database returns the cache store for direct read access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Config returns the active configuration.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Offline reports whether the manager was started in offline mode.
func (m *Manager) Offline() bool {
	return m.cfg.Offline
}

// ListCalls serves the call list, preferring cache. In offline mode only the
// cache is consulted.
func (m *Manager) ListCalls(ctx context.Context, forceRefresh bool) ([]models.Call, bool, error) {
	if m.cfg.Offline {
		list, err := m.database.ListCalls()
		return list, false, err
	}
	return m.calls.ListCalls(ctx, forceRefresh)
}

// Refresh runs a reconciliation against the remote index. At most one
// refresh runs at a time; a second request while busy is a no-op.
func (m *Manager) Refresh(ctx context.Context) (int, error) {
	if m.cfg.Offline {
		return 0, nil
	}

	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return 0, nil
	}
	m.refreshing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	m.broadcast(RefreshStartedEvent{})
	added, err := m.calls.Refresh(ctx)
	m.broadcast(RefreshFinishedEvent{NewCalls: added, Error: err})

	if err == nil && added > 0 {
		m.notifyNewCalls(added)
		m.broadcastCalls(false)
	}

	return added, err
}

// refreshLoop periodically checks for new calls and refreshes the cache.
func (m *Manager) refreshLoop() {
	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.cfg.RefreshInterval/2)
			hasNew, err := m.calls.HasNewCalls(ctx)
			if err != nil {
				logger.Debug("background up-to-date check failed", "error", err)
				cancel()
				continue
			}
			if hasNew {
				if _, err := m.Refresh(ctx); err != nil {
					m.broadcast(ErrorEvent{Service: "refresh", Error: err})
				}
			}
			cancel()

		case <-m.stopChan:
			return
		}
	}
}

// notifyNewCalls raises a desktop notification for calls that arrived in the
// background.
func (m *Manager) notifyNewCalls(count int) {
	body := fmt.Sprintf("%d new call record(s) cached", count)
	if err := beeep.Notify("New calls", body, ""); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// startWatcher watches the cache database file so that writes from another
// process instance sharing the cache surface as update events here.
func (m *Manager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory to catch file creation as well.
	if err := watcher.Add(filepath.Dir(m.cfg.CachePath)); err != nil {
		_ = watcher.Close()
		return err
	}

	m.watcher = watcher
	go m.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (m *Manager) watchLoop() {
	const debounceInterval = 250 * time.Millisecond
	base := filepath.Base(m.cfg.CachePath)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != base {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				m.mu.Lock()
				if m.debounceTimer != nil {
					m.debounceTimer.Stop()
				}
				m.debounceTimer = time.AfterFunc(debounceInterval, func() {
					m.broadcastCalls(false)
				})
				m.mu.Unlock()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.broadcast(ErrorEvent{Service: "watcher", Error: err})

		case <-m.stopChan:
			return
		}
	}
}

// broadcastCalls reloads the cached list and broadcasts it.
func (m *Manager) broadcastCalls(stale bool) {
	list, err := m.database.ListCalls()
	if err != nil {
		m.broadcast(ErrorEvent{Service: "cache", Error: err})
		return
	}
	m.broadcast(CallsUpdatedEvent{Calls: list, Stale: stale})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd that waits for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		if m.debounceTimer != nil {
			m.debounceTimer.Stop()
		}
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

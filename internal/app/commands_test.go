package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/d-rollins/vapi-calls-tui/internal/services"
)

func TestCommands_Tick(t *testing.T) {
	cmds := NewCommands(nil)
	cmd := cmds.Tick(time.Millisecond)
	if cmd == nil {
		t.Error("Tick returned nil")
	}
}

func TestCommands_Notifications(t *testing.T) {
	cmds := NewCommands(nil)

	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", cmds.NotifySuccess, NotificationSuccess},
		{"Error", cmds.NotifyError, NotificationError},
		{"Warning", cmds.NotifyWarning, NotificationWarning},
		{"Info", cmds.NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.fn("msg")
			msg := cmd()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Error("Notification should expire on its own")
			}
		})
	}
}

func TestClearNotificationCmd(t *testing.T) {
	cmd := clearNotificationCmd("id", time.Millisecond)
	if cmd == nil {
		t.Error("clearNotificationCmd returned nil")
	}
}

func TestWaitForServiceEventCmd_ClosedChannel(t *testing.T) {
	ch := make(chan services.ServiceEvent)
	close(ch)

	cmd := waitForServiceEventCmd(ch)
	if msg := cmd(); msg != nil {
		t.Errorf("closed channel should yield nil msg, got %T", msg)
	}
}

package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version() returned empty string")
	}
}

func TestCommit(t *testing.T) {
	if Commit() == "" {
		t.Error("Commit() returned empty string")
	}
}

func TestDate(t *testing.T) {
	if Date() == "" {
		t.Error("Date() returned empty string")
	}
}

func TestInfo(t *testing.T) {
	info := Info()
	if info == "" {
		t.Fatal("Info() returned empty string")
	}
	if !strings.Contains(info, "vapi-calls-tui") {
		t.Errorf("Info() should name the binary, got: %q", info)
	}
	if !strings.Contains(info, Version()) {
		t.Errorf("Info() should include the version, got: %q", info)
	}
}

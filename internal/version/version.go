// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// These are set via ldflags at build time
	version = ""
	commit  = ""
	date    = ""

	once sync.Once
)

func ensureInitialized() {
	once.Do(func() {
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if commit == "" {
			commit = gitCommit()
		}
		if version == "" {
			version = gitVersion()
		}
	})
}

func gitCommit() string {
	cmd := exec.Command("git", "describe", "--always", "--dirty")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out.String())
}

func gitVersion() string {
	cmd := exec.Command("git", "describe", "--tags", "--abbrev=0")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err == nil {
		v := strings.TrimSpace(out.String())
		if v != "" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return "dev"
}

// Version returns the release version.
func Version() string {
	ensureInitialized()
	return version
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	ensureInitialized()
	return commit
}

// Date returns the build date.
func Date() string {
	ensureInitialized()
	return date
}

// Info returns a one-line version summary.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("vapi-calls-tui %s (commit: %s, built: %s, %s/%s)",
		version, commit, date, runtime.GOOS, runtime.GOARCH)
}

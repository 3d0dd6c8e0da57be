// Package main is the entry point for the VAPI call browser TUI.
// It initializes configuration, logging, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-rollins/vapi-calls-tui/internal/app"
	"github.com/d-rollins/vapi-calls-tui/internal/config"
	"github.com/d-rollins/vapi-calls-tui/internal/logger"
	"github.com/d-rollins/vapi-calls-tui/internal/services"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/tabs/browser"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/tabs/info"
	"github.com/d-rollins/vapi-calls-tui/internal/ui/tabs/stats"
	"github.com/d-rollins/vapi-calls-tui/internal/version"
)

func main() {
	offline := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--offline":
			offline = true
		default:
			fmt.Fprintf(os.Stderr, "Unknown flag: %s\n\n", arg)
			printUsage()
			os.Exit(2)
		}
	}

	if err := run(offline); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(offline bool) error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if offline {
		cfg.Offline = true
	}

	// 2. Route logs to a file; the TUI owns the terminal
	logFile, err := logger.Init(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logFile.Close()

	// 3. Initialize the service manager
	// This opens the cache and starts the background refresh loop
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the root Bubble Tea model and its tabs
	model := app.NewModel(svcManager)

	state := model.GetState()
	tabs := []app.Tab{
		browser.New(state),
		stats.New(state, model.GetCommands()),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`VAPI Calls TUI - Browse voice-API call records from a local cache

Usage:
  vct [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information
      --offline   Use the local cache only; never contact the API

Keyboard Shortcuts:
  1-3             Switch between tabs (Calls, Stats, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter/v         View call details
  s               Cycle sort column
  o               Reverse sort order
  r               Refresh from the API
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  VAPI_API_KEY      API key (required unless offline)
  VAPI_BASE_URL     API base URL (default: https://api.vapi.ai)
  CACHE_DB_PATH     SQLite cache path
  LOG_PATH          Log file path
  REFRESH_INTERVAL  Background refresh interval (default: 5m)
  LOOKBACK_DAYS     How far back to fetch calls (default: 365)
  OFFLINE           Set to true to run offline

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/vapi-calls-tui/.env
  - ~/.vapi/.env`)
}

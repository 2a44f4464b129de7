// Package commands implements the runbook CLI surface: run, batch, new,
// history, doctor, and check.
package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/runbook/internal/core/config"
	"github.com/colonyops/runbook/internal/core/history"
	"github.com/colonyops/runbook/pkg/shellexec"
)

// Flags holds global flag values plus the collaborators built from them.
// The root Before hook populates the collaborator fields before any
// command action runs.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Quiet      bool

	// Config is loaded in the Before hook and available to all commands.
	Config *config.Config

	// Runner executes commands. An interface so tests can substitute a
	// recording double.
	Runner shellexec.CommandRunner

	// History persists executed commands for listing and replay.
	History history.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "runbook", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "runbook")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/runbook/runbook.log
// On Linux: $XDG_STATE_HOME/runbook/runbook.log (defaults to ~/.local/state/runbook/runbook.log)
func DefaultLogFile() string {
	// Check XDG_STATE_HOME first (works on both macOS and Linux)
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "runbook", "runbook.log")
	}

	home, _ := os.UserHomeDir()

	// On macOS, use ~/Library/Logs
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "runbook", "runbook.log")
	}

	// On Linux, use ~/.local/state
	return filepath.Join(home, ".local", "state", "runbook", "runbook.log")
}

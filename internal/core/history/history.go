// Package history defines command history domain types and interfaces.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry represents a recorded command execution.
type Entry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	ExitCode  int       `json:"exit_code"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry builds an entry for a completed command. A non-nil runErr is
// recorded as the entry's error text.
func NewEntry(command string, exitCode int, runErr error) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Command:   command,
		ExitCode:  exitCode,
		Timestamp: time.Now().UTC(),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	return entry
}

// Failed returns true if the command exited with a non-zero exit code.
func (e *Entry) Failed() bool {
	return e.ExitCode != 0
}

// Store persists command history.
type Store interface {
	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)
	// Get returns an entry by ID or unique ID prefix.
	Get(ctx context.Context, id string) (Entry, error)
	// Save records an entry, pruning to maxEntries when positive.
	Save(ctx context.Context, entry Entry, maxEntries int) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
	// LastFailed returns the most recent failed entry.
	LastFailed(ctx context.Context) (Entry, error)
}

package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Run("successful run", func(t *testing.T) {
		entry := NewEntry("echo hello", 0, nil)

		require.NotEmpty(t, entry.ID)
		assert.Equal(t, "echo hello", entry.Command)
		assert.Equal(t, 0, entry.ExitCode)
		assert.Empty(t, entry.Error)
		assert.WithinDuration(t, time.Now().UTC(), entry.Timestamp, 5*time.Second)
		assert.False(t, entry.Failed())
	})

	t.Run("failed run records error text", func(t *testing.T) {
		entry := NewEntry("false", 1, errors.New("command failed with exit code 1: false"))

		assert.Equal(t, 1, entry.ExitCode)
		assert.Contains(t, entry.Error, "exit code 1")
		assert.True(t, entry.Failed())
	})

	t.Run("entries get distinct IDs", func(t *testing.T) {
		a := NewEntry("true", 0, nil)
		b := NewEntry("true", 0, nil)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

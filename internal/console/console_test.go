package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/runbook/pkg/shellexec"
)

func newTestConsole(level zerolog.Level) (*Console, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, level, DefaultTheme), &buf
}

func TestConsole_Alerts(t *testing.T) {
	tests := []struct {
		name   string
		print  func(c *Console)
		marker string
		text   string
	}{
		{"info", func(c *Console) { c.Info("something happened") }, "[*]", "something happened"},
		{"success", func(c *Console) { c.Success("it worked") }, "[+]", "it worked"},
		{"warning", func(c *Console) { c.Warningf("watch %s", "out") }, "[!]", "watch out"},
		{"error", func(c *Console) { c.Errorf("broke: %d", 7) }, "[x]", "broke: 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newTestConsole(zerolog.InfoLevel)
			tt.print(c)

			out := buf.String()
			assert.Contains(t, out, tt.marker)
			assert.Contains(t, out, tt.text)
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestConsole_DebugGatedByLevel(t *testing.T) {
	t.Run("suppressed above debug", func(t *testing.T) {
		c, buf := newTestConsole(zerolog.InfoLevel)
		c.Debug("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("shown at debug", func(t *testing.T) {
		c, buf := newTestConsole(zerolog.DebugLevel)
		c.Debug("shown")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "[>]")
	})
}

func TestConsole_Verbose(t *testing.T) {
	c, _ := newTestConsole(zerolog.InfoLevel)
	assert.True(t, c.Verbose())

	c, _ = newTestConsole(zerolog.WarnLevel)
	assert.False(t, c.Verbose())
}

func TestConsole_Lines(t *testing.T) {
	c, buf := newTestConsole(zerolog.InfoLevel)

	c.PrintLine("plain text")
	c.Line()

	assert.Equal(t, "plain text\n\n", buf.String())
}

func TestConsole_Section(t *testing.T) {
	c, buf := newTestConsole(zerolog.InfoLevel)
	c.Section("Results")

	out := buf.String()
	assert.Contains(t, out, "Results")
	assert.Contains(t, out, "──")
}

func TestConsole_Frame(t *testing.T) {
	t.Run("renders title and content in a box", func(t *testing.T) {
		c, buf := newTestConsole(zerolog.InfoLevel)
		c.Frame("line one\nline two", "Output of: echo", shellexec.MoodSuccess)

		out := buf.String()
		assert.Contains(t, out, "Output of: echo")
		assert.Contains(t, out, "line one")
		assert.Contains(t, out, "line two")
		assert.Contains(t, out, "╭")
		assert.Contains(t, out, "╰")
	})

	t.Run("unknown mood falls back to info", func(t *testing.T) {
		c, buf := newTestConsole(zerolog.InfoLevel)
		c.Frame("content", "Title", shellexec.Mood("nonsense"))
		assert.Contains(t, buf.String(), "content")
	})

	t.Run("satisfies the runner presenter", func(t *testing.T) {
		c, buf := newTestConsole(zerolog.InfoLevel)
		var p shellexec.Presenter = c
		p.PrintLine("via interface")
		assert.Contains(t, buf.String(), "via interface")
	})
}

func TestConsole_Context(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		c, _ := newTestConsole(zerolog.InfoLevel)
		ctx := WithContext(context.Background(), c)
		assert.Same(t, c, Ctx(ctx))
	})

	t.Run("missing console yields a default", func(t *testing.T) {
		c := Ctx(context.Background())
		require.NotNil(t, c)
		assert.False(t, c.Verbose())
	})
}

func TestConsole_Interactive(t *testing.T) {
	c, _ := newTestConsole(zerolog.InfoLevel)
	assert.False(t, c.Interactive(), "buffer-backed console is not a terminal")
}

func TestConsole_SelectRequiresChoices(t *testing.T) {
	c, _ := newTestConsole(zerolog.InfoLevel)

	_, err := c.Select("pick one", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")

	_, err = c.MultiSelect("pick some", nil, nil)
	require.Error(t, err)
}

func TestConsole_ThemeFallback(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, zerolog.InfoLevel, "not-a-theme")
	c.Info("still works")
	assert.Contains(t, buf.String(), "still works")
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, "tokyo-night")
	assert.Contains(t, names, "gruvbox")

	_, ok := GetPalette(DefaultTheme)
	assert.True(t, ok)
}

func TestTracker_FallbackMode(t *testing.T) {
	c, buf := newTestConsole(zerolog.InfoLevel)

	tracker := c.NewTracker("running", 2)
	tracker.Advance("echo one")
	tracker.Advance("echo two")
	tracker.Wait()

	out := buf.String()
	assert.Contains(t, out, "(1/2) echo one")
	assert.Contains(t, out, "(2/2) echo two")
}

func TestConsole_Markdown(t *testing.T) {
	c, buf := newTestConsole(zerolog.InfoLevel)

	err := c.Markdown("# Next Steps\n\nRun the thing.")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Next Steps")
	assert.Contains(t, out, "Run the thing.")
}

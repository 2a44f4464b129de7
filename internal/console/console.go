// Package console renders styled terminal output: alert lines, framed
// boxes, section rules, interactive prompts, and progress reporting.
// A Console is explicitly constructed and passed to collaborators; there
// is no package-level singleton.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/colonyops/runbook/pkg/shellexec"
)

// width is the fixed render width for rules and frames.
const width = 64

// Console writes styled output to a single writer. Primary stdout stays
// clean for command output; the console defaults to stderr.
type Console struct {
	w           io.Writer
	level       zerolog.Level
	palette     Palette
	styles      styleSet
	interactive bool
}

var _ shellexec.Presenter = (*Console)(nil)

// New builds a console for the given writer, log level, and theme name.
// Unknown theme names fall back to the default theme. Interactivity is
// detected from the writer: prompts and live progress are only offered
// when it is a terminal.
func New(w io.Writer, level zerolog.Level, theme string) *Console {
	if w == nil {
		w = os.Stderr
	}

	palette, ok := GetPalette(theme)
	if !ok {
		palette, _ = GetPalette(DefaultTheme)
	}

	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	return &Console{
		w:           w,
		level:       level,
		palette:     palette,
		styles:      buildStyles(palette),
		interactive: interactive,
	}
}

type ctxKey struct{}

// WithContext returns a context carrying the console.
func WithContext(ctx context.Context, c *Console) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// Ctx returns the console stored in ctx, or a default stderr console
// when none was attached.
func Ctx(ctx context.Context) *Console {
	if c, ok := ctx.Value(ctxKey{}).(*Console); ok {
		return c
	}
	return New(os.Stderr, zerolog.WarnLevel, DefaultTheme)
}

// Interactive reports whether the console writer is a terminal.
func (c *Console) Interactive() bool { return c.interactive }

// Verbose reports whether the diagnostic log level passes info. Batch
// completion summaries are only presented on a verbose console.
func (c *Console) Verbose() bool { return c.level <= zerolog.InfoLevel }

// Info prints an informational alert line.
func (c *Console) Info(msg string) { c.alert(c.styles.info, "[*]", msg) }

// Infof prints a formatted informational alert line.
func (c *Console) Infof(format string, args ...any) { c.Info(fmt.Sprintf(format, args...)) }

// Success prints a success alert line.
func (c *Console) Success(msg string) { c.alert(c.styles.success, "[+]", msg) }

// Successf prints a formatted success alert line.
func (c *Console) Successf(format string, args ...any) { c.Success(fmt.Sprintf(format, args...)) }

// Warning prints a warning alert line.
func (c *Console) Warning(msg string) { c.alert(c.styles.warning, "[!]", msg) }

// Warningf prints a formatted warning alert line.
func (c *Console) Warningf(format string, args ...any) { c.Warning(fmt.Sprintf(format, args...)) }

// Error prints an error alert line.
func (c *Console) Error(msg string) { c.alert(c.styles.err, "[x]", msg) }

// Errorf prints a formatted error alert line.
func (c *Console) Errorf(format string, args ...any) { c.Error(fmt.Sprintf(format, args...)) }

// Debug prints a debug alert line. Suppressed unless the log level
// passes debug.
func (c *Console) Debug(msg string) {
	if c.level > zerolog.DebugLevel {
		return
	}
	c.alert(c.styles.debug, "[>]", msg)
}

// Debugf prints a formatted debug alert line.
func (c *Console) Debugf(format string, args ...any) { c.Debug(fmt.Sprintf(format, args...)) }

func (c *Console) alert(style lipgloss.Style, marker, msg string) {
	fmt.Fprintln(c.w, style.Render(marker), msg)
}

// PrintLine writes one plain line of output.
func (c *Console) PrintLine(text string) {
	fmt.Fprintln(c.w, text)
}

// Paint returns text colored for the given mood.
func (c *Console) Paint(mood shellexec.Mood, text string) string {
	switch mood {
	case shellexec.MoodSuccess:
		return c.styles.success.Render(text)
	case shellexec.MoodWarning:
		return c.styles.warning.Render(text)
	case shellexec.MoodError:
		return c.styles.err.Render(text)
	default:
		return c.styles.info.Render(text)
	}
}

// Muted returns text in the palette's muted color.
func (c *Console) Muted(text string) string {
	return c.styles.muted.Render(text)
}

// Bold returns text in the palette's bold foreground.
func (c *Console) Bold(text string) string {
	return c.styles.bold.Render(text)
}

// Line prints a blank separator line.
func (c *Console) Line() {
	fmt.Fprintln(c.w)
}

// Rule prints a muted horizontal divider.
func (c *Console) Rule() {
	fmt.Fprintln(c.w, c.styles.muted.Render(strings.Repeat("─", width)))
}

// Section prints a titled divider:  ── Title ───────────
func (c *Console) Section(title string) {
	lead := c.styles.muted.Render("── ")
	rest := width - lipgloss.Width(title) - 4
	if rest < 0 {
		rest = 0
	}
	tail := c.styles.muted.Render(" " + strings.Repeat("─", rest))
	fmt.Fprintln(c.w, lead+c.styles.bold.Render(title)+tail)
}

// Frame displays content in a framed box with a title. The mood selects
// the border color.
func (c *Console) Frame(content, title string, mood shellexec.Mood) {
	border, ok := c.styles.frameBorders[mood]
	if !ok {
		border = c.styles.frameBorders[shellexec.MoodInfo]
	}

	body := c.styles.frameTitle.Render(title)
	if content != "" {
		body += "\n" + content
	}
	fmt.Fprintln(c.w, border.Width(width).Render(body))
}

package console

import (
	"sort"

	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/runbook/pkg/shellexec"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// styleSet holds the pre-built styles for one console instance.
type styleSet struct {
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	debug   lipgloss.Style

	bold  lipgloss.Style
	muted lipgloss.Style

	frameTitle   lipgloss.Style
	frameBorders map[shellexec.Mood]lipgloss.Style
}

func buildStyles(p Palette) styleSet {
	frame := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1)
	}

	return styleSet{
		info:    lipgloss.NewStyle().Foreground(p.Secondary).Bold(true),
		success: lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		warning: lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		err:     lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		debug:   lipgloss.NewStyle().Foreground(p.Muted).Bold(true),

		bold:  lipgloss.NewStyle().Foreground(p.Foreground).Bold(true),
		muted: lipgloss.NewStyle().Foreground(p.Muted),

		frameTitle: lipgloss.NewStyle().Bold(true),
		frameBorders: map[shellexec.Mood]lipgloss.Style{
			shellexec.MoodInfo:    frame(p.Secondary),
			shellexec.MoodSuccess: frame(p.Success),
			shellexec.MoodError:   frame(p.Error),
			shellexec.MoodWarning: frame(p.Warning),
		},
	}
}

// FormTheme returns a huh form theme derived from the palette.
func (p Palette) FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(p.Primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(p.Muted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p.Secondary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(p.Primary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(p.Error)

	t.Blurred.Title = t.Blurred.Title.Foreground(p.Muted)
	t.Blurred.Description = t.Blurred.Description.Foreground(p.Muted)

	return t
}

func colorHexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	hex := string(c)
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the palette.
func (p Palette) GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(p.Foreground)
	primary := colorHexPtr(p.Primary)
	secondary := colorHexPtr(p.Secondary)
	muted := colorHexPtr(p.Muted)
	surface := colorHexPtr(p.Surface)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	return cfg
}

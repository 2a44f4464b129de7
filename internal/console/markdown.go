package console

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Markdown renders markdown text to the console with the active theme.
func (c *Console) Markdown(text string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(c.palette.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	out, err := r.Render(text)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	fmt.Fprint(c.w, out)
	return nil
}

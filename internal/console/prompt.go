package console

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// PromptOptions tune a text prompt.
type PromptOptions struct {
	// Description is shown under the title.
	Description string
	// Default pre-fills the input value.
	Default string
	// Placeholder is shown while the input is empty.
	Placeholder string
	// Secret masks the typed value.
	Secret bool
	// Validate rejects bad input before the prompt closes.
	Validate func(string) error
}

// Prompt asks for one line of text.
func (c *Console) Prompt(title string, opts PromptOptions) (string, error) {
	value := opts.Default

	input := huh.NewInput().
		Title(title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&value)
	if opts.Secret {
		input = input.EchoMode(huh.EchoModePassword)
	}
	if opts.Validate != nil {
		input = input.Validate(opts.Validate)
	}

	if err := c.runForm(huh.NewGroup(input)); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question.
func (c *Console) Confirm(title string, defaultYes bool) (bool, error) {
	value := defaultYes

	confirm := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := c.runForm(huh.NewGroup(confirm)); err != nil {
		return false, err
	}
	return value, nil
}

// Select asks the user to pick one of the given choices. An empty choice
// set is rejected before any prompt is shown.
func (c *Console) Select(title string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("select %q: no choices provided", title)
	}

	var value string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(choices...)...).
		Value(&value)

	if err := c.runForm(huh.NewGroup(sel)); err != nil {
		return "", err
	}
	return value, nil
}

// MultiSelect asks the user to pick any number of the given choices.
func (c *Console) MultiSelect(title string, choices, preselected []string) ([]string, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("select %q: no choices provided", title)
	}

	value := preselected
	sel := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(choices...)...).
		Value(&value)

	if err := c.runForm(huh.NewGroup(sel)); err != nil {
		return nil, err
	}
	return value, nil
}

func (c *Console) runForm(groups ...*huh.Group) error {
	return huh.NewForm(groups...).WithTheme(c.palette.FormTheme()).Run()
}

// Spinner runs fn under a spinner titled title. On a non-interactive
// console the title is printed as an info alert instead.
func (c *Console) Spinner(ctx context.Context, title string, fn func(context.Context) error) error {
	if !c.interactive {
		c.Info(title)
		return fn(ctx)
	}

	return spinner.New().
		Title(title).
		Context(ctx).
		ActionWithErr(fn).
		Run()
}

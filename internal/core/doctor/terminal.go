package doctor

import (
	"context"

	"github.com/colonyops/runbook/internal/core/checks"
)

// isTerminalFunc allows test overrides of TTY detection.
var isTerminalFunc = checks.IsTerminal

// TerminalCheck reports whether stdout is an interactive terminal.
// Informational: either state passes.
type TerminalCheck struct{}

// NewTerminalCheck creates a terminal detection check.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	detail := "non-interactive (output is piped or redirected)"
	if isTerminalFunc() {
		detail = "interactive"
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "stdout",
		Status: StatusPass,
		Detail: detail,
	})

	return result
}

package doctor

import (
	"context"
	"os/exec"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that configured external tools are available on
// $PATH. A missing sh is a failure since generated scripts depend on a
// POSIX shell; other tools only warn.
type ToolsCheck struct {
	tools []string
}

// NewToolsCheck creates a tools check over the configured tool list.
func NewToolsCheck(tools []string) *ToolsCheck {
	return &ToolsCheck{tools: tools}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	for _, tool := range c.tools {
		path, err := lookPathFunc(tool)
		if err != nil {
			status := StatusWarn
			if tool == "sh" {
				status = StatusFail
			}
			result.Items = append(result.Items, CheckItem{
				Label:  tool,
				Status: status,
				Detail: "not found on PATH",
			})
			continue
		}

		result.Items = append(result.Items, CheckItem{
			Label:  tool,
			Status: StatusPass,
			Detail: path,
		})
	}

	return result
}

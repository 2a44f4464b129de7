package doctor

import (
	"context"
	"os"

	"github.com/colonyops/runbook/internal/core/config"
)

// ConfigCheck parses and validates the configuration file.
type ConfigCheck struct {
	path    string
	dataDir string
}

// NewConfigCheck creates a config file check.
func NewConfigCheck(path, dataDir string) *ConfigCheck {
	return &ConfigCheck{path: path, dataDir: dataDir}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusPass,
			Detail: "not present, using defaults",
		})
		return result
	}

	cfg, err := config.Load(c.path, c.dataDir)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "config file",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "config file",
		Status: StatusPass,
		Detail: c.path,
	})

	if err := cfg.ValidateDeep(c.path); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "deep validation",
			Status: StatusWarn,
			Detail: err.Error(),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "deep validation",
			Status: StatusPass,
		})
	}

	return result
}

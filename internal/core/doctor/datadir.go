package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DataDirCheck verifies the data directory exists and is writable.
// A missing directory is fixable: with fix enabled it is created in
// place, otherwise it is reported and created on first use.
type DataDirCheck struct {
	dir string
	fix bool
}

// NewDataDirCheck creates a data directory check.
func NewDataDirCheck(dir string, fix bool) *DataDirCheck {
	return &DataDirCheck{dir: dir, fix: fix}
}

func (c *DataDirCheck) Name() string {
	return "Data Directory"
}

func (c *DataDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err) && c.fix:
		if mkErr := os.MkdirAll(c.dir, 0o755); mkErr != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  c.dir,
				Status: StatusFail,
				Detail: fmt.Sprintf("cannot create: %v", mkErr),
			})
			return result
		}
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusPass,
			Detail: "created",
		})
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:   c.dir,
			Status:  StatusWarn,
			Detail:  "does not exist (created on first use)",
			Fixable: true,
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: "path is not a directory",
		})
		return result
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusPass,
		})
	}

	// Probe writability with a throwaway file.
	probe := filepath.Join(c.dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "writable",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot write: %v", err),
		})
		return result
	}
	_ = os.Remove(probe)

	result.Items = append(result.Items, CheckItem{
		Label:  "writable",
		Status: StatusPass,
	})

	return result
}

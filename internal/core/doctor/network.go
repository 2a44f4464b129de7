package doctor

import (
	"context"

	"github.com/colonyops/runbook/internal/core/checks"
)

// probeFunc allows test overrides of the connectivity probe.
var probeFunc = func() bool {
	return checks.InternetAvailable("", 0, 0)
}

// NetworkCheck probes internet reachability. Warn-only since most
// commands work fine offline.
type NetworkCheck struct{}

// NewNetworkCheck creates a network connectivity check.
func NewNetworkCheck() *NetworkCheck {
	return &NetworkCheck{}
}

func (c *NetworkCheck) Name() string {
	return "Network"
}

func (c *NetworkCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if probeFunc() {
		result.Items = append(result.Items, CheckItem{
			Label:  "internet",
			Status: StatusPass,
			Detail: "reachable",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "internet",
			Status: StatusWarn,
			Detail: "unreachable (offline or firewalled)",
		})
	}

	return result
}

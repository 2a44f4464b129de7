package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCmd_AllValid(t *testing.T) {
	ta := newTestApp(t)
	NewCheckCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "check", "email", "ops@example.com", "dev@example.org")
	require.NoError(t, err)

	out := ta.con.String()
	assert.Contains(t, out, "ops@example.com: valid email")
	assert.Contains(t, out, "dev@example.org: valid email")
}

func TestCheckCmd_InvalidValueFails(t *testing.T) {
	ta := newTestApp(t)
	NewCheckCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "check", "ipv4", "10.0.0.1", "999.1.1.1")

	assert.Equal(t, 1, exitCode(t, err))
	out := ta.con.String()
	assert.Contains(t, out, "10.0.0.1: valid ipv4")
	assert.Contains(t, out, "999.1.1.1: not a valid ipv4")
}

func TestCheckCmd_UnknownKind(t *testing.T) {
	ta := newTestApp(t)
	NewCheckCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "check", "zipcode", "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check")
	assert.Contains(t, err.Error(), "ipv4")
}

func TestCheckCmd_RequiresKindAndValue(t *testing.T) {
	ta := newTestApp(t)
	NewCheckCmd(ta.flags).Register(ta.app)

	err := ta.run(t, "check", "email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one value")
}

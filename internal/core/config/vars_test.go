package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVarsFiles_Single(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "vars.yaml"), "shell: bash\nenv: staging\n"))

	got, err := loadVarsFiles(dir, []string{"vars.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "bash", got["shell"])
	assert.Equal(t, "staging", got["env"])
}

func TestLoadVarsFiles_Multiple_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "base.yaml"), "shell: sh\nenv: dev\n"))
	require.NoError(t, writeTestFile(filepath.Join(dir, "override.yaml"), "shell: bash\n"))

	got, err := loadVarsFiles(dir, []string{"base.yaml", "override.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "bash", got["shell"])
	assert.Equal(t, "dev", got["env"])
}

func TestLoadVarsFiles_NestedMerge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "a.yaml"), "deploy:\n  host: prod-1\n  port: 22\n"))
	require.NoError(t, writeTestFile(filepath.Join(dir, "b.yaml"), "deploy:\n  port: 2222\n"))

	got, err := loadVarsFiles(dir, []string{"a.yaml", "b.yaml"})
	require.NoError(t, err)

	deploy := got["deploy"].(map[string]any)
	assert.Equal(t, "prod-1", deploy["host"])
	assert.Equal(t, 2222, deploy["port"])
}

func TestLoadVarsFiles_AbsolutePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vars.yaml")
	require.NoError(t, writeTestFile(file, "shell: bash\n"))

	got, err := loadVarsFiles("ignored", []string{file})
	require.NoError(t, err)
	assert.Equal(t, "bash", got["shell"])
}

func TestLoadVarsFiles_NotFound(t *testing.T) {
	_, err := loadVarsFiles(t.TempDir(), []string{"missing.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read vars file")
}

func TestLoadVarsFiles_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "bad.yaml"), "shell: [\n"))

	_, err := loadVarsFiles(dir, []string{"bad.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse vars file")
}

func TestLoadVars_InlineOverridesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "vars.yaml"), "shell: sh\ndeploy:\n  host: prod-1\n  port: 22\n"))

	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.VarsFiles = []string{"vars.yaml"}
	cfg.Vars = map[string]any{
		"shell": "bash",
		"deploy": map[string]any{
			"port": 2222,
		},
	}

	got, err := cfg.LoadVars(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "bash", got["shell"])
	deploy := got["deploy"].(map[string]any)
	assert.Equal(t, "prod-1", deploy["host"])
	assert.Equal(t, 2222, deploy["port"])
}

func writeTestFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

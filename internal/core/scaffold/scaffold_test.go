package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "simple", value: "deploy"},
		{name: "with separators", value: "db-backup_v2.1"},
		{name: "digit first", value: "7zip-wrap"},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace only", value: "  ", wantErr: true},
		{name: "uppercase", value: "Deploy", wantErr: true},
		{name: "spaces", value: "my script", wantErr: true},
		{name: "leading dash", value: "-x", wantErr: true},
		{name: "path traversal", value: "../evil", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "name")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestComponents(t *testing.T) {
	b := &Builder{}
	assert.Equal(t, []string{"script", "taskfile"}, b.Components())
}

func TestBuild(t *testing.T) {
	t.Run("script component", func(t *testing.T) {
		dest := t.TempDir()
		b := &Builder{Author: "Ada Lovelace"}

		dir, err := b.Build("backup", dest, []string{"script"}, false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dest, "backup"), dir)

		// Entrypoint renamed and executable.
		entry := filepath.Join(dir, "backup.sh")
		info, err := os.Stat(entry)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

		content, err := os.ReadFile(entry)
		require.NoError(t, err)
		assert.Contains(t, string(content), "./backup.sh [OPTIONS]")
		assert.Contains(t, string(content), "Ada Lovelace")
		assert.NotContains(t, string(content), "{{", "all template actions rendered")

		// Logging bridge and config in place.
		assert.FileExists(t, filepath.Join(dir, "lib", "log.sh"))

		logCfg, err := os.ReadFile(filepath.Join(dir, "logging.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(logCfg), filepath.Join("logs", "backup.log.jsonl"))

		// Logs directory pre-created.
		assert.DirExists(t, filepath.Join(dir, "logs"))
	})

	t.Run("taskfile component", func(t *testing.T) {
		dest := t.TempDir()
		b := &Builder{Author: "Ada Lovelace"}

		dir, err := b.Build("deploy", dest, []string{"taskfile"}, false)
		require.NoError(t, err)

		manifest, err := os.ReadFile(filepath.Join(dir, "runbook.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(manifest), "name: deploy")
		assert.Contains(t, string(manifest), "./deploy.sh -v")
	})

	t.Run("multiple components", func(t *testing.T) {
		dest := t.TempDir()
		b := &Builder{}

		dir, err := b.Build("full", dest, []string{"script", "taskfile"}, false)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "full.sh"))
		assert.FileExists(t, filepath.Join(dir, "runbook.yaml"))
	})

	t.Run("existing destination refused", func(t *testing.T) {
		dest := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dest, "taken"), 0o755))

		b := &Builder{}
		_, err := b.Build("taken", dest, []string{"script"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites and backs up yaml", func(t *testing.T) {
		dest := t.TempDir()
		projectDir := filepath.Join(dest, "redo")
		require.NoError(t, os.MkdirAll(projectDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "logging.yaml"), []byte("level: debug\n"), 0o644))

		b := &Builder{}
		dir, err := b.Build("redo", dest, []string{"script"}, true)
		require.NoError(t, err)

		// New config written, old one preserved as a .bak sibling.
		content, err := os.ReadFile(filepath.Join(dir, "logging.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "level: info")

		backups, err := filepath.Glob(filepath.Join(dir, "logging.yaml.*.bak"))
		require.NoError(t, err)
		require.Len(t, backups, 1)

		old, err := os.ReadFile(backups[0])
		require.NoError(t, err)
		assert.Equal(t, "level: debug\n", string(old))
	})

	t.Run("invalid name rejected before any writes", func(t *testing.T) {
		dest := t.TempDir()
		b := &Builder{}

		_, err := b.Build("Bad Name", dest, []string{"script"}, false)
		require.Error(t, err)

		entries, err := os.ReadDir(dest)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("unknown component rejected before any writes", func(t *testing.T) {
		dest := t.TempDir()
		b := &Builder{}

		_, err := b.Build("proj", dest, []string{"nope"}, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown component "nope"`)
		assert.NoDirExists(t, filepath.Join(dest, "proj"))
	})
}

func TestBuild_GeneratedScriptHeaderUsage(t *testing.T) {
	// The usage() function slices the header comment out of the file;
	// keep the rendered header within the expected line range.
	dest := t.TempDir()
	b := &Builder{Author: "Ada"}

	dir, err := b.Build("demo", dest, []string{"script"}, false)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "demo.sh"))
	require.NoError(t, err)

	lines := strings.Split(string(content), "\n")
	require.Greater(t, len(lines), 13)
	assert.Contains(t, lines[2], "SYNOPSIS")
}

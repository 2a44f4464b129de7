package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name  string
	items []CheckItem
}

func (c *stubCheck) Name() string { return c.name }

func (c *stubCheck) Run(_ context.Context) Result { return Result{Name: c.name, Items: c.items} }

func TestRunAll(t *testing.T) {
	checks := []Check{
		&stubCheck{name: "A", items: []CheckItem{{Label: "one", Status: StatusPass}}},
		&stubCheck{name: "B", items: []CheckItem{{Label: "two", Status: StatusFail}}},
	}

	results := RunAll(context.Background(), checks)
	require.Len(t, results, 2)

	assert.Equal(t, "A", results[0].Name)
	assert.Equal(t, "pass", results[0].Items[0].StatusStr, "string status filled for JSON output")
	assert.Equal(t, "fail", results[1].Items[0].StatusStr)
}

func TestSummaryAndCountFixable(t *testing.T) {
	results := []Result{
		{Name: "A", Items: []CheckItem{
			{Status: StatusPass},
			{Status: StatusWarn, Fixable: true},
		}},
		{Name: "B", Items: []CheckItem{
			{Status: StatusFail, Fixable: true},
			{Status: StatusFail},
			{Status: StatusPass, Fixable: true},
		}},
	}

	passed, warned, failed := Summary(results)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 2, failed)

	assert.Equal(t, 2, CountFixable(results), "passing items are not counted as fixable")
}

func TestDataDirCheck(t *testing.T) {
	t.Run("existing writable dir passes", func(t *testing.T) {
		result := NewDataDirCheck(t.TempDir(), false).Run(context.Background())

		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, "writable", result.Items[1].Label)
		assert.Equal(t, StatusPass, result.Items[1].Status)
	})

	t.Run("missing dir warns and is fixable", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "not-created-yet")

		result := NewDataDirCheck(dir, false).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusWarn, result.Items[0].Status)
		assert.True(t, result.Items[0].Fixable)
	})

	t.Run("fix creates missing dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "not-created-yet")

		result := NewDataDirCheck(dir, true).Run(context.Background())

		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, "created", result.Items[0].Detail)
		assert.Equal(t, "writable", result.Items[1].Label)
		assert.DirExists(t, dir)
	})

	t.Run("file in place of dir fails", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		result := NewDataDirCheck(file, false).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}

func TestConfigCheck(t *testing.T) {
	t.Run("missing file passes with defaults note", func(t *testing.T) {
		check := NewConfigCheck(filepath.Join(t.TempDir(), "config.yaml"), t.TempDir())
		result := check.Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Contains(t, result.Items[0].Detail, "defaults")
	})

	t.Run("valid file passes with deep validation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("runner:\n  max_workers: 2\n"), 0o644))

		result := NewConfigCheck(path, dir).Run(context.Background())

		require.Len(t, result.Items, 2)
		assert.Equal(t, StatusPass, result.Items[0].Status)
		assert.Equal(t, "deep validation", result.Items[1].Label)
		assert.Equal(t, StatusPass, result.Items[1].Status)
	})

	t.Run("broken file fails", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("runner: ["), 0o644))

		result := NewConfigCheck(path, dir).Run(context.Background())

		require.Len(t, result.Items, 1)
		assert.Equal(t, StatusFail, result.Items[0].Status)
	})
}

func TestNetworkCheck(t *testing.T) {
	orig := probeFunc
	t.Cleanup(func() { probeFunc = orig })

	probeFunc = func() bool { return true }
	result := NewNetworkCheck().Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)

	probeFunc = func() bool { return false }
	result = NewNetworkCheck().Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status, "offline is never a failure")
}

func TestTerminalCheck(t *testing.T) {
	orig := isTerminalFunc
	t.Cleanup(func() { isTerminalFunc = orig })

	isTerminalFunc = func() bool { return false }
	result := NewTerminalCheck().Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status, "non-interactive is informational")
	assert.Contains(t, result.Items[0].Detail, "non-interactive")
}

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/notebundle/internal/bundle"
)

// writeConfig writes a config file that keeps test runs self-contained
// (history off unless a path is given).
func writeConfig(t *testing.T, historyDB string) string {
	t.Helper()
	content := "history:\n  enabled: false\n"
	if historyDB != "" {
		content = "history:\n  enabled: true\n  db_path: " + historyDB + "\n"
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "notebundle", root.Use)
	assert.True(t, root.SilenceUsage)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, strings.Fields(sub.Use)[0])
	}
	for _, want := range []string{"collect", "bundle", "history"} {
		assert.Contains(t, names, want)
	}
}

func TestCollectCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "api", "guides"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "overview.md"), []byte("# Overview\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "api", "guides", "overview.md"), []byte("# Guide\n"), 0644))

	out := filepath.Join(t.TempDir(), "upload")
	stdout, err := execute(t, "collect", src,
		"--out", out,
		"--prefix", "proj",
		"--config", writeConfig(t, ""),
	)
	require.NoError(t, err)

	// Summary goes to the command's output stream, not the process stdout
	assert.Contains(t, stdout, "Collected: 2")

	for _, name := range []string{"proj-overview.md", "proj-api-guides-overview.md"} {
		_, statErr := os.Stat(filepath.Join(out, name))
		assert.NoError(t, statErr, "missing output %s", name)
	}
}

func TestCollectCommandMissingSource(t *testing.T) {
	_, err := execute(t, "collect", filepath.Join(t.TempDir(), "nope"),
		"--out", filepath.Join(t.TempDir(), "upload"),
		"--config", writeConfig(t, ""),
	)
	require.Error(t, err)
}

func TestBundleCommand(t *testing.T) {
	src := filepath.Join(t.TempDir(), "research")
	require.NoError(t, os.MkdirAll(src, 0755))
	files := map[string]string{
		"one.md":   "kubernetes kubernetes kubernetes\n",
		"two.md":   "kubernetes\n",
		"three.md": "nothing relevant\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(content), 0644))
	}

	outRoot := filepath.Join(t.TempDir(), "bundles")
	stdout, err := execute(t, "bundle", src,
		"--query", "kubernetes",
		"--limit", "2",
		"--out", outRoot,
		"--config", writeConfig(t, ""),
	)
	require.NoError(t, err)

	entries, err := os.ReadDir(outRoot)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	bundleDir := filepath.Join(outRoot, entries[0].Name())
	assert.Contains(t, entries[0].Name(), "__kubernetes")
	assert.Contains(t, stdout, bundleDir)
	assert.Contains(t, stdout, "Selected: 2 of 3")

	data, err := os.ReadFile(filepath.Join(bundleDir, "manifest.json"))
	require.NoError(t, err)
	var manifest bundle.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))

	// three.md has zero hits and is excluded; limit keeps the top 2
	require.Len(t, manifest.Selected, 2)
	assert.Equal(t, 1, manifest.Selected[0].Rank)
	assert.Equal(t, "one.md", manifest.Selected[0].Relative)
	assert.Equal(t, 2, manifest.Selected[1].Rank)
	assert.Equal(t, "two.md", manifest.Selected[1].Relative)

	_, err = os.Stat(filepath.Join(bundleDir, "index.md"))
	assert.NoError(t, err)
}

func TestBundleCommandRecencyOnly(t *testing.T) {
	src := filepath.Join(t.TempDir(), "research")
	require.NoError(t, os.MkdirAll(src, 0755))

	// Two recent files, one outside the 14-day window
	recent := time.Now().Add(-24 * time.Hour)
	old := time.Now().Add(-30 * 24 * time.Hour)
	for name, mtime := range map[string]time.Time{"a.md": recent, "b.md": recent, "old.md": old} {
		path := filepath.Join(src, name)
		require.NoError(t, os.WriteFile(path, []byte("content\n"), 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	outRoot := filepath.Join(t.TempDir(), "bundles")
	_, err := execute(t, "bundle", src,
		"--days", "14",
		"--limit", "200",
		"--out", outRoot,
		"--config", writeConfig(t, ""),
	)
	require.NoError(t, err)

	entries, err := os.ReadDir(outRoot)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "__recency-only")

	data, err := os.ReadFile(filepath.Join(outRoot, entries[0].Name(), "manifest.json"))
	require.NoError(t, err)
	var manifest bundle.Manifest
	require.NoError(t, json.Unmarshal(data, &manifest))

	// Fewer matches than the limit is valid
	assert.Len(t, manifest.Selected, 2)
}

func TestBundleCommandInvalidRegex(t *testing.T) {
	src := t.TempDir()
	_, err := execute(t, "bundle", src,
		"--query", "kube(",
		"--regex",
		"--out", filepath.Join(t.TempDir(), "bundles"),
		"--config", writeConfig(t, ""),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
}

func TestBundleCommandInvalidLimit(t *testing.T) {
	src := t.TempDir()
	_, err := execute(t, "bundle", src,
		"--limit", "0",
		"--out", filepath.Join(t.TempDir(), "bundles"),
		"--config", writeConfig(t, ""),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestHistoryCommandDisabled(t *testing.T) {
	stdout, err := execute(t, "history", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, stdout, "disabled")
}

func TestHistoryCommandAfterRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	cfgPath := writeConfig(t, dbPath)

	src := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.md"), []byte("x\n"), 0644))

	_, err := execute(t, "collect", src,
		"--out", filepath.Join(t.TempDir(), "upload"),
		"--config", cfgPath,
	)
	require.NoError(t, err)

	stdout, err := execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "collect")
	assert.Contains(t, stdout, "MODE")
}

func TestHistoryCommandInvalidMode(t *testing.T) {
	_, err := execute(t, "history", "--mode", "archive", "--config", writeConfig(t, ""))
	require.Error(t, err)
}

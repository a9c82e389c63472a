package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func contentDir(t *testing.T, posts string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "posts.json"), []byte(posts), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "charts.json"), []byte(`{"charts":[]}`), 0o644))
	t.Setenv("ASTRO_CONTENT_DIR", dir)
	t.Setenv("ASTRO_STATIC_DIR", filepath.Join(dir, "public"))
	t.Setenv("ASTRO_LOG_LEVEL", "error")
	return dir
}

func TestCheckCommand(t *testing.T) {
	dir := contentDir(t, `[{"id":"a","title":"A"}]`)

	out, err := execute(t, "check", "--config", filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "posts=1 charts=0 errors=0 warnings=0")
}

func TestCheckCommandFails(t *testing.T) {
	dir := contentDir(t, `[{"id":"a","title":"A"},{"id":"a","title":"B"}]`)

	out, err := execute(t, "check", "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, out, "duplicate id")
}

func TestExportCommand(t *testing.T) {
	dir := contentDir(t, `[{"id":"a","title":"A"}]`)
	cfgPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("build:\n  manifest_path: "+filepath.Join(dir, "m.db")+"\n"), 0o644))
	outDir := filepath.Join(dir, "dist")

	out, err := execute(t, "export", "--config", cfgPath, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "4 routes: 4 written, 0 unchanged, 0 removed")
	assert.FileExists(t, filepath.Join(outDir, "blog", "a", "index.html"))
}

func TestInvalidConfig(t *testing.T) {
	dir := contentDir(t, `[]`)
	cfgPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("site:\n  title: \"\"\n"), 0o644))

	_, err := execute(t, "check", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site.title")
}

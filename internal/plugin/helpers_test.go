package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script plugins need a POSIX shell")
	}
}

// writeScript writes an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

// scriptPlugin builds a Plugin around a script in a fresh temp dir.
func scriptPlugin(t *testing.T, name, body string, actions ...string) *Plugin {
	t.Helper()
	dir := t.TempDir()
	return &Plugin{
		Manifest:   Manifest{Name: name, Version: "1.0.0", Executable: "run.sh", Actions: actions},
		Path:       dir,
		Executable: writeScript(t, dir, "run.sh", body),
	}
}

// installPlugin writes a plugin directory with manifest and script under root.
func installPlugin(t *testing.T, root string, manifest Manifest, body string) string {
	t.Helper()
	dir := filepath.Join(root, manifest.Name)
	require.NoError(t, os.MkdirAll(dir, 0755))

	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0644))

	if body != "" {
		writeScript(t, dir, manifest.Executable, body)
	}
	return dir
}

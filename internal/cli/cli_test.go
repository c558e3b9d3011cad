package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

// testEnv writes a config file pointing the store into a temp dir.
func testEnv(t *testing.T) (cfgFile, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfgFile = filepath.Join(dir, "mudra.yaml")
	body := "store:\n  path: " + filepath.Join(dir, "mudra.db") + "\n" +
		"plugins:\n  dir: " + filepath.Join(dir, "plugins") + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0644))
	return cfgFile, dir
}

func execute(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, cfgFile string, args ...string) string {
	t.Helper()
	out, err := execute(t, cfgFile, args...)
	require.NoError(t, err, out)
	return out
}

// writeRecording records five pointing frames followed by a short pinch.
func writeRecording(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "session.ndjson")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	pointing := detector.PointingLandmarks().Anchored(detector.IndexTip, 0.5, 0.5)
	pinch := detector.PinchLandmarks().Anchored(detector.IndexTip, 0.5, 0.5)
	for i := 0; i < 8; i++ {
		hand := pointing
		if i >= 5 {
			hand = pinch
		}
		frame := detector.Frame{Timestamp: float64(i) / 30, Hands: []detector.HandLandmarks{hand}}
		require.NoError(t, detector.EncodeFrame(f, frame))
	}
	return path
}

func TestConfigCommands(t *testing.T) {
	cfgFile, _ := testEnv(t)

	t.Run("show prints yaml", func(t *testing.T) {
		out := mustExecute(t, cfgFile, "config", "show")
		assert.Contains(t, out, "display:")
		assert.Contains(t, out, "width: 1920")
		assert.Contains(t, out, "kind: hybrid")
	})

	t.Run("path prints the file in use", func(t *testing.T) {
		out := mustExecute(t, cfgFile, "config", "path")
		assert.Contains(t, out, "mudra.yaml")
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("mapping:\n  gamma: -1\n"), 0644))

		_, err := execute(t, bad, "config", "show")
		assert.Error(t, err)
	})
}

func TestProfileCommands(t *testing.T) {
	cfgFile, _ := testEnv(t)

	out := mustExecute(t, cfgFile, "profile", "save", "steady")
	assert.Contains(t, out, "saved profile steady")

	out = mustExecute(t, cfgFile, "profile", "list")
	assert.Contains(t, out, "steady")
	assert.Contains(t, out, "filter_kind")

	mustExecute(t, cfgFile, "profile", "use", "steady")
	out = mustExecute(t, cfgFile, "profile", "list")
	assert.Contains(t, out, "*")

	_, err := execute(t, cfgFile, "profile", "use", "missing")
	assert.Error(t, err)

	mustExecute(t, cfgFile, "profile", "delete", "steady")
	out = mustExecute(t, cfgFile, "profile", "list")
	assert.NotContains(t, out, "steady")
}

func TestBindCommands(t *testing.T) {
	cfgFile, _ := testEnv(t)

	out := mustExecute(t, cfgFile, "bind", "set", "cursor", "pinch", "quick", "click-right")
	assert.Contains(t, out, "CURSOR PINCH QUICK -> CLICK_RIGHT")

	out = mustExecute(t, cfgFile, "bind", "list")
	assert.Contains(t, out, "CLICK_RIGHT")
	assert.NotContains(t, out, "MOVE_CURSOR")

	out = mustExecute(t, cfgFile, "bind", "list", "--all")
	assert.Contains(t, out, "MOVE_CURSOR")
	assert.Contains(t, out, "CLICK_RIGHT")

	_, err := execute(t, cfgFile, "bind", "set", "desktop", "pinch", "quick", "copy")
	assert.Error(t, err, "unknown mode")

	mustExecute(t, cfgFile, "bind", "delete", "cursor", "pinch", "quick")
	_, err = execute(t, cfgFile, "bind", "delete", "cursor", "pinch", "quick")
	assert.Error(t, err, "nothing left to delete")
}

func TestCalibrateCommand(t *testing.T) {
	cfgFile, _ := testEnv(t)

	out := mustExecute(t, cfgFile, "calibrate", "0", "0", "1", "0", "1", "1", "0", "1")
	assert.Contains(t, out, "(960, 540)")

	_, err := execute(t, cfgFile, "calibrate", "0", "0", "0", "0", "0", "0", "0", "0")
	assert.Error(t, err, "degenerate corners")

	_, err = execute(t, cfgFile, "calibrate", "0", "0")
	assert.Error(t, err, "wrong argument count")

	mustExecute(t, cfgFile, "calibrate", "--clear")
	mustExecute(t, cfgFile, "calibrate", "--clear")
}

func TestReplayCommand(t *testing.T) {
	cfgFile, dir := testEnv(t)
	recording := writeRecording(t, dir)

	t.Run("prints action edges", func(t *testing.T) {
		out := mustExecute(t, cfgFile, "replay", recording)
		assert.Contains(t, out, "MOVE_CURSOR")
		assert.Contains(t, out, "CLICK_LEFT")
		assert.Contains(t, out, "8 frames, 2 actions")
	})

	t.Run("uses binding overrides", func(t *testing.T) {
		mustExecute(t, cfgFile, "bind", "set", "cursor", "pinch", "quick", "click-right")
		defer mustExecute(t, cfgFile, "bind", "delete", "cursor", "pinch", "quick")

		out := mustExecute(t, cfgFile, "replay", recording)
		assert.Contains(t, out, "CLICK_RIGHT")
		assert.NotContains(t, out, "CLICK_LEFT")
	})

	t.Run("writes a plot", func(t *testing.T) {
		img := filepath.Join(dir, "trace.jpg")
		mustExecute(t, cfgFile, "replay", recording, "--plot", img)
		assert.FileExists(t, img)
	})

	t.Run("journals the replay", func(t *testing.T) {
		out := mustExecute(t, cfgFile, "sessions")
		assert.Contains(t, out, "session.ndjson")
		assert.Contains(t, out, "ACTIONS")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, cfgFile, "replay", filepath.Join(dir, "nope.ndjson"))
		assert.Error(t, err)
	})
}

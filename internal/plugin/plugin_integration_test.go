package plugin

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/dispatch"
)

// Exercises the bundled plugins when they have been built next to their
// manifests (go build -o plugins/<name>/<name> ./plugins/<name>).
func TestBundledPlugins_RejectUnknownAction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if runtime.GOOS != "darwin" {
		t.Skip("bundled plugins drive macOS")
	}

	for _, name := range []string{"keyboard", "pointer", "system-control"} {
		t.Run(name, func(t *testing.T) {
			dir := findPluginDir(name)
			if dir == "" {
				t.Skip("plugin not built")
			}

			m := NewManager(filepath.Dir(dir), nil)
			require.NoError(t, m.Discover())
			p, err := m.Get(name)
			require.NoError(t, err)

			resp, err := NewExecutor(5*time.Second).Execute(context.Background(), p, &Request{Action: "LAUNCH_ROCKET"})
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, "unknown action")
		})
	}
}

func TestBundledManifests_CoverEveryToken(t *testing.T) {
	m := NewManager("../../plugins", nil)
	require.NoError(t, m.Discover())
	require.NotEmpty(t, m.List())

	for tok := dispatch.None + 1; tok < dispatch.NumTokens; tok++ {
		p, err := m.ForAction(tok.String())
		if assert.NoError(t, err, "no bundled plugin declares %s", tok) {
			assert.True(t, p.Handles(tok.String()))
		}
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}
	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return dir
		}
	}
	return ""
}

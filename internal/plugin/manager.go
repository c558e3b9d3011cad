package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrPluginNotFound is returned when no plugin matches a name or action.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers plugins and indexes them by name and by action.
type Manager struct {
	pluginDir string
	logger    *zap.Logger

	mu       sync.RWMutex
	plugins  map[string]*Plugin
	byAction map[string]*Plugin
}

// NewManager creates a Manager for pluginDir.
func NewManager(pluginDir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		pluginDir: pluginDir,
		logger:    logger,
		plugins:   make(map[string]*Plugin),
		byAction:  make(map[string]*Plugin),
	}
}

// Discover scans pluginDir. Each subdirectory holding a plugin.json is a
// plugin. A missing directory yields no plugins. When two plugins claim
// the same action, the one whose name sorts first wins.
func (m *Manager) Discover() error {
	plugins := make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if errors.Is(err, os.ErrNotExist) {
		m.replace(plugins)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat plugin dir: %w", err)
	}
	if !info.IsDir() {
		m.replace(plugins)
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return fmt.Errorf("read plugin dir: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifestData, err := os.ReadFile(filepath.Join(pluginPath, "plugin.json"))
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			m.logger.Warn("skipping plugin with invalid manifest",
				zap.String("path", pluginPath), zap.Error(err))
			continue
		}
		if manifest.Name == "" {
			manifest.Name = entry.Name()
		}

		plugins[manifest.Name] = &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
	}

	m.replace(plugins)
	m.logger.Info("plugins discovered", zap.Int("count", len(plugins)), zap.String("dir", m.pluginDir))
	return nil
}

func (m *Manager) replace(plugins map[string]*Plugin) {
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	byAction := make(map[string]*Plugin)
	for _, name := range names {
		p := plugins[name]
		for _, action := range p.Manifest.Actions {
			if owner, ok := byAction[action]; ok {
				m.logger.Warn("action claimed by two plugins",
					zap.String("action", action),
					zap.String("kept", owner.Manifest.Name),
					zap.String("ignored", name))
				continue
			}
			byAction[action] = p
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins = plugins
	m.byAction = byAction
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return plugin, nil
}

// ForAction returns the plugin that handles an action token name.
func (m *Manager) ForAction(action string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.byAction[action]
	if !ok {
		return nil, fmt.Errorf("%w for action %s", ErrPluginNotFound, action)
	}
	return plugin, nil
}

// List returns all discovered plugins sorted by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, plugin := range m.plugins {
		plugins = append(plugins, plugin)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Manifest.Name < plugins[j].Manifest.Name
	})
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}

// Package config loads the application configuration from a YAML file and
// MUDRA_* environment variables, and converts it into the plain config
// structs of the processing packages.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/dwell"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/pipeline"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. MUDRA_FILTER_KIND.
const EnvPrefix = "MUDRA"

// Config is the full configuration surface. Durations are float seconds.
type Config struct {
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Mapping  MappingConfig  `mapstructure:"mapping" yaml:"mapping"`
	Filter   FilterConfig   `mapstructure:"filter" yaml:"filter"`
	Gesture  GestureConfig  `mapstructure:"gesture" yaml:"gesture"`
	Mode     ModeConfig     `mapstructure:"mode" yaml:"mode"`
	Dispatch DispatchConfig `mapstructure:"dispatch" yaml:"dispatch"`
	Dwell    DwellConfig    `mapstructure:"dwell" yaml:"dwell"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector"`
	Plugins  PluginsConfig  `mapstructure:"plugins" yaml:"plugins"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// DisplayConfig is the target screen size in pixels.
type DisplayConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// MappingConfig shapes the camera-to-screen sensitivity curve.
type MappingConfig struct {
	Deadzone float64 `mapstructure:"deadzone" yaml:"deadzone"`
	Gamma    float64 `mapstructure:"gamma" yaml:"gamma"`
}

// FilterConfig selects and tunes the cursor smoother.
type FilterConfig struct {
	Kind             string  `mapstructure:"kind" yaml:"kind"`
	MinCutoff        float64 `mapstructure:"min_cutoff" yaml:"min_cutoff"`
	Beta             float64 `mapstructure:"beta" yaml:"beta"`
	DCutoff          float64 `mapstructure:"d_cutoff" yaml:"d_cutoff"`
	FastSpeed        float64 `mapstructure:"fast_speed" yaml:"fast_speed"`
	MediumSpeed      float64 `mapstructure:"medium_speed" yaml:"medium_speed"`
	FastCutoff       float64 `mapstructure:"fast_cutoff" yaml:"fast_cutoff"`
	MediumCutoff     float64 `mapstructure:"medium_cutoff" yaml:"medium_cutoff"`
	SlowCutoff       float64 `mapstructure:"slow_cutoff" yaml:"slow_cutoff"`
	AdaptiveBeta     float64 `mapstructure:"adaptive_beta" yaml:"adaptive_beta"`
	Blend            float64 `mapstructure:"blend" yaml:"blend"`
	SmoothingLevel   int     `mapstructure:"smoothing_level" yaml:"smoothing_level"` // 1..20, 0 keeps medium_cutoff
	ProcessNoise     float64 `mapstructure:"process_noise" yaml:"process_noise"`
	MeasurementNoise float64 `mapstructure:"measurement_noise" yaml:"measurement_noise"`
	KalmanSpeed      float64 `mapstructure:"kalman_speed" yaml:"kalman_speed"`
	CrossfadeBand    float64 `mapstructure:"crossfade_band" yaml:"crossfade_band"`
	DeadZone         float64 `mapstructure:"dead_zone" yaml:"dead_zone"`
	StillDeadZone    float64 `mapstructure:"still_dead_zone" yaml:"still_dead_zone"`
	StillSpeed       float64 `mapstructure:"still_speed" yaml:"still_speed"`
}

// GestureConfig holds classifier thresholds and label debouncing.
type GestureConfig struct {
	PinchThreshold float64 `mapstructure:"pinch_threshold" yaml:"pinch_threshold"`
	ThumbMargin    float64 `mapstructure:"thumb_margin" yaml:"thumb_margin"`
	Debounce       int     `mapstructure:"debounce" yaml:"debounce"`
}

// ModeConfig holds the context mode zones and shortcut hold.
type ModeConfig struct {
	MediaTop      float64 `mapstructure:"media_top" yaml:"media_top"`
	EdgeMargin    float64 `mapstructure:"edge_margin" yaml:"edge_margin"`
	ShortcutHold  float64 `mapstructure:"shortcut_hold" yaml:"shortcut_hold"`
	ShortcutStill float64 `mapstructure:"shortcut_still" yaml:"shortcut_still"`
	HistorySize   int     `mapstructure:"history_size" yaml:"history_size"`
}

// DispatchConfig holds timing class limits and directional refinement.
type DispatchConfig struct {
	QuickLimit      float64 `mapstructure:"quick_limit" yaml:"quick_limit"`
	HoldLimit       float64 `mapstructure:"hold_limit" yaml:"hold_limit"`
	Directional     bool    `mapstructure:"directional" yaml:"directional"`
	ScrollThreshold float64 `mapstructure:"scroll_threshold" yaml:"scroll_threshold"`
}

// DwellConfig controls dwell-to-click.
type DwellConfig struct {
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
	Duration  float64 `mapstructure:"duration" yaml:"duration"`
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// PipelineConfig holds per-frame engine settings.
type PipelineConfig struct {
	ClickFreeze  float64 `mapstructure:"click_freeze" yaml:"click_freeze"`
	DominantHand string  `mapstructure:"dominant_hand" yaml:"dominant_hand"`
}

// DetectorConfig configures the landmark service and hand-lost timeout.
type DetectorConfig struct {
	Camera          int     `mapstructure:"camera" yaml:"camera"`
	MaxHands        int     `mapstructure:"max_hands" yaml:"max_hands"`
	MinConfidence   float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	Script          string  `mapstructure:"script" yaml:"script"`
	Python          string  `mapstructure:"python" yaml:"python"`
	IdleShutdown    float64 `mapstructure:"idle_shutdown" yaml:"idle_shutdown"`
	HandLostTimeout float64 `mapstructure:"hand_lost_timeout" yaml:"hand_lost_timeout"`
}

// PluginsConfig locates action plugins and paces their calls.
type PluginsConfig struct {
	Dir            string  `mapstructure:"dir" yaml:"dir"`
	Timeout        float64 `mapstructure:"timeout" yaml:"timeout"`
	RepeatInterval float64 `mapstructure:"repeat_interval" yaml:"repeat_interval"` // between sends of a held continuous action
}

// StoreConfig locates the sqlite database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig selects the zap logger level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "json" or "console"
}

// DataDir is where the database and plugins live by default.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// SetDefaults registers every key with its default on v. Registering all
// keys lets AutomaticEnv override values that are absent from the file.
func SetDefaults(v *viper.Viper) {
	f := filter.DefaultConfig()
	m := mapping.DefaultConfig()
	g := gesture.DefaultConfig()
	md := mode.DefaultConfig()
	dp := dispatch.DefaultConfig()
	dw := dwell.DefaultConfig()
	p := pipeline.DefaultConfig()
	d := detector.DefaultConfig()

	v.SetDefault("display.width", m.Width)
	v.SetDefault("display.height", m.Height)

	v.SetDefault("mapping.deadzone", m.Deadzone)
	v.SetDefault("mapping.gamma", m.Gamma)

	v.SetDefault("filter.kind", string(f.Kind))
	v.SetDefault("filter.min_cutoff", f.MinCutoff)
	v.SetDefault("filter.beta", f.Beta)
	v.SetDefault("filter.d_cutoff", f.DCutoff)
	v.SetDefault("filter.fast_speed", f.Adaptive.FastSpeed)
	v.SetDefault("filter.medium_speed", f.Adaptive.MediumSpeed)
	v.SetDefault("filter.fast_cutoff", f.Adaptive.FastCutoff)
	v.SetDefault("filter.medium_cutoff", f.Adaptive.MediumCutoff)
	v.SetDefault("filter.slow_cutoff", f.Adaptive.SlowCutoff)
	v.SetDefault("filter.adaptive_beta", f.Adaptive.Beta)
	v.SetDefault("filter.blend", f.Adaptive.Blend)
	v.SetDefault("filter.smoothing_level", 0)
	v.SetDefault("filter.process_noise", f.Kalman.ProcessNoise)
	v.SetDefault("filter.measurement_noise", f.Kalman.MeasurementNoise)
	v.SetDefault("filter.kalman_speed", f.KalmanSpeed)
	v.SetDefault("filter.crossfade_band", f.CrossfadeBand)
	v.SetDefault("filter.dead_zone", f.DeadZone)
	v.SetDefault("filter.still_dead_zone", f.StillDeadZone)
	v.SetDefault("filter.still_speed", f.StillSpeed)

	v.SetDefault("gesture.pinch_threshold", g.PinchThreshold)
	v.SetDefault("gesture.thumb_margin", g.ThumbMargin)
	v.SetDefault("gesture.debounce", 0)

	v.SetDefault("mode.media_top", md.MediaTop)
	v.SetDefault("mode.edge_margin", md.EdgeMargin)
	v.SetDefault("mode.shortcut_hold", md.ShortcutHold)
	v.SetDefault("mode.shortcut_still", md.ShortcutStill)
	v.SetDefault("mode.history_size", md.HistorySize)

	v.SetDefault("dispatch.quick_limit", dp.QuickLimit)
	v.SetDefault("dispatch.hold_limit", dp.HoldLimit)
	v.SetDefault("dispatch.directional", dp.Directional)
	v.SetDefault("dispatch.scroll_threshold", dp.ScrollThreshold)

	v.SetDefault("dwell.enabled", false)
	v.SetDefault("dwell.duration", dw.Duration)
	v.SetDefault("dwell.tolerance", dw.Tolerance)

	v.SetDefault("pipeline.click_freeze", p.ClickFreeze)
	v.SetDefault("pipeline.dominant_hand", p.DominantHand)

	v.SetDefault("detector.camera", d.Camera)
	v.SetDefault("detector.max_hands", d.MaxHands)
	v.SetDefault("detector.min_confidence", d.MinConfidence)
	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.idle_shutdown", d.IdleShutdown.Seconds())
	v.SetDefault("detector.hand_lost_timeout", 0.5)

	v.SetDefault("plugins.dir", filepath.Join(DataDir(), "plugins"))
	v.SetDefault("plugins.timeout", 5.0)
	v.SetDefault("plugins.repeat_interval", 0.25)

	v.SetDefault("store.path", filepath.Join(DataDir(), "mudra.db"))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration into v and decodes it. file may be empty, in
// which case $HOME/.mudra.yaml is used if it exists. A missing default
// file is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".mudra")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

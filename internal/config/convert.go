package config

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/dwell"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/pipeline"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c *Config) MapperConfig() mapping.Config {
	return mapping.Config{
		Width:    c.Display.Width,
		Height:   c.Display.Height,
		Deadzone: c.Mapping.Deadzone,
		Gamma:    c.Mapping.Gamma,
	}
}

// FilterConfig converts the filter section. A non-zero smoothing level
// overrides the medium-tier cutoff.
func (c *Config) FilterConfig() filter.Config {
	f := c.Filter
	kind, err := filter.ParseKind(f.Kind)
	if err != nil {
		kind = filter.KindHybrid
	}

	adaptive := filter.AdaptiveConfig{
		FastSpeed:    f.FastSpeed,
		MediumSpeed:  f.MediumSpeed,
		FastCutoff:   f.FastCutoff,
		MediumCutoff: f.MediumCutoff,
		SlowCutoff:   f.SlowCutoff,
		Beta:         f.AdaptiveBeta,
		DCutoff:      f.DCutoff,
		Blend:        f.Blend,
	}
	if f.SmoothingLevel > 0 {
		adaptive.MediumCutoff = filter.SmoothingCutoff(f.SmoothingLevel)
	}

	return filter.Config{
		Kind:      kind,
		MinCutoff: f.MinCutoff,
		Beta:      f.Beta,
		DCutoff:   f.DCutoff,
		Adaptive:  adaptive,
		Kalman: filter.KalmanConfig{
			ProcessNoise:     f.ProcessNoise,
			MeasurementNoise: f.MeasurementNoise,
		},
		KalmanSpeed:   f.KalmanSpeed,
		CrossfadeBand: f.CrossfadeBand,
		DeadZone:      f.DeadZone,
		StillDeadZone: f.StillDeadZone,
		StillSpeed:    f.StillSpeed,
	}
}

func (c *Config) GestureConfig() gesture.Config {
	return gesture.Config{
		PinchThreshold: c.Gesture.PinchThreshold,
		ThumbMargin:    c.Gesture.ThumbMargin,
	}
}

func (c *Config) ModeConfig() mode.Config {
	return mode.Config{
		MediaTop:      c.Mode.MediaTop,
		EdgeMargin:    c.Mode.EdgeMargin,
		ShortcutHold:  c.Mode.ShortcutHold,
		ShortcutStill: c.Mode.ShortcutStill,
		HistorySize:   c.Mode.HistorySize,
	}
}

func (c *Config) DispatchConfig() dispatch.Config {
	return dispatch.Config{
		QuickLimit:      c.Dispatch.QuickLimit,
		HoldLimit:       c.Dispatch.HoldLimit,
		Directional:     c.Dispatch.Directional,
		ScrollThreshold: c.Dispatch.ScrollThreshold,
		ScreenWidth:     float64(c.Display.Width),
	}
}

func (c *Config) DwellConfig() dwell.Config {
	return dwell.Config{Duration: c.Dwell.Duration, Tolerance: c.Dwell.Tolerance}
}

// PipelineConfig assembles the engine configuration from every section.
func (c *Config) PipelineConfig() pipeline.Config {
	return pipeline.Config{
		Gesture:      c.GestureConfig(),
		Debounce:     c.Gesture.Debounce,
		Mode:         c.ModeConfig(),
		Dispatch:     c.DispatchConfig(),
		Mapping:      c.MapperConfig(),
		Filter:       c.FilterConfig(),
		Dwell:        c.DwellConfig(),
		DwellEnabled: c.Dwell.Enabled,
		ClickFreeze:  c.Pipeline.ClickFreeze,
		DominantHand: c.Pipeline.DominantHand,
	}
}

func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		Camera:        c.Detector.Camera,
		MaxHands:      c.Detector.MaxHands,
		MinConfidence: c.Detector.MinConfidence,
		Script:        c.Detector.Script,
		Python:        c.Detector.Python,
		IdleShutdown:  seconds(c.Detector.IdleShutdown),
	}
}

// HandLostTimeout is how long the live loop waits for a frame before
// feeding an empty one.
func (c *Config) HandLostTimeout() time.Duration {
	return seconds(c.Detector.HandLostTimeout)
}

// PluginTimeout bounds a single plugin call.
func (c *Config) PluginTimeout() time.Duration {
	return seconds(c.Plugins.Timeout)
}

package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/filter"
)

// Validate checks every section and reports all violations in one error
// wrapping ErrInvalid. Questionable but usable values are logged as warnings.
func (c *Config) Validate(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var errs []string

	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		errs = append(errs, "display width and height must be positive")
	}

	if c.Mapping.Deadzone < 0 || c.Mapping.Deadzone >= 1 {
		errs = append(errs, "mapping deadzone must be in [0, 1)")
	}
	if c.Mapping.Gamma <= 0 {
		errs = append(errs, "mapping gamma must be positive")
	}

	if _, err := filter.ParseKind(c.Filter.Kind); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Filter.MinCutoff <= 0 || c.Filter.DCutoff <= 0 {
		errs = append(errs, "filter cutoffs must be positive")
	}
	if c.Filter.FastSpeed <= c.Filter.MediumSpeed {
		errs = append(errs, "filter fast_speed must exceed medium_speed")
	}
	if c.Filter.Blend <= 0 || c.Filter.Blend > 1 {
		errs = append(errs, "filter blend must be in (0, 1]")
	}
	if c.Filter.SmoothingLevel < 0 || c.Filter.SmoothingLevel > 20 {
		errs = append(errs, "filter smoothing_level must be in 0..20")
	}
	if c.Filter.CrossfadeBand < 0 {
		errs = append(errs, "filter crossfade_band must not be negative")
	}
	if c.Filter.CrossfadeBand > 2*c.Filter.KalmanSpeed {
		logger.Warn("crossfade band reaches below zero speed; slow motion will include the Kalman prediction",
			zap.Float64("crossfade_band", c.Filter.CrossfadeBand),
			zap.Float64("kalman_speed", c.Filter.KalmanSpeed))
	}

	if c.Gesture.PinchThreshold <= 0 {
		errs = append(errs, "gesture pinch_threshold must be positive")
	}
	if c.Gesture.ThumbMargin < 0 {
		errs = append(errs, "gesture thumb_margin must not be negative")
	}

	if c.Mode.MediaTop <= 0 || c.Mode.MediaTop >= 1 {
		errs = append(errs, "mode media_top must be in (0, 1)")
	}
	if c.Mode.EdgeMargin < 0 || c.Mode.EdgeMargin >= 0.5 {
		errs = append(errs, "mode edge_margin must be in [0, 0.5)")
	}
	if c.Mode.ShortcutHold <= 0 {
		errs = append(errs, "mode shortcut_hold must be positive")
	}
	if c.Mode.HistorySize < 2 {
		errs = append(errs, "mode history_size must be at least 2")
	}

	if c.Dispatch.QuickLimit <= 0 || c.Dispatch.HoldLimit <= c.Dispatch.QuickLimit {
		errs = append(errs, "dispatch limits must satisfy 0 < quick_limit < hold_limit")
	}

	if c.Dwell.Enabled && (c.Dwell.Duration <= 0 || c.Dwell.Tolerance <= 0) {
		errs = append(errs, "dwell duration and tolerance must be positive when enabled")
	}

	if c.Pipeline.ClickFreeze < 0 {
		errs = append(errs, "pipeline click_freeze must not be negative")
	}
	if c.Pipeline.DominantHand == "" {
		logger.Warn("no dominant hand configured; the first detected hand drives the cursor")
	}

	if c.Detector.MaxHands < 1 {
		errs = append(errs, "detector max_hands must be at least 1")
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		errs = append(errs, "detector min_confidence must be in [0, 1]")
	}
	if c.Detector.HandLostTimeout <= 0 {
		errs = append(errs, "detector hand_lost_timeout must be positive")
	}

	if c.Plugins.Timeout <= 0 {
		errs = append(errs, "plugins timeout must be positive")
	}
	if c.Store.Path == "" {
		errs = append(errs, "store path is required")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging format must be json or console, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, ", "))
	}
	return nil
}

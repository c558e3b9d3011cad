// Package mapping converts normalized hand coordinates to screen pixels.
package mapping

import "math"

// Config holds the screen size and response curve.
type Config struct {
	Width    int
	Height   int
	Deadzone float64 // half-width of the centre lock, in recentred [-1,1] units
	Gamma    float64
}

// DefaultConfig returns a Config for a 1920x1080 screen.
func DefaultConfig() Config {
	return Config{
		Width:    1920,
		Height:   1080,
		Deadzone: 0.02,
		Gamma:    1.3,
	}
}

// Mapper applies a centred power-law gain with a deadzone, then the
// calibration transform. It is stateless apart from its configuration.
type Mapper struct {
	config Config
	calib  *Calibration
}

// NewMapper creates a new Mapper. A nil calibration maps straight to the
// screen rectangle.
func NewMapper(config Config, calib *Calibration) *Mapper {
	if calib == nil {
		calib = NewCalibration(config.Width, config.Height)
	}
	return &Mapper{config: config, calib: calib}
}

// Map converts a normalized point to screen pixels clamped to the screen.
func (m *Mapper) Map(x, y float64) (float64, float64) {
	sx, sy := m.calib.Apply(m.curve(x), m.curve(y))
	return clamp(sx, m.config.Width), clamp(sy, m.config.Height)
}

// curve recentres v to [-1,1], applies deadzone and gain, and returns to [0,1].
func (m *Mapper) curve(v float64) float64 {
	c := (v - 0.5) * 2
	mapped := 0.0
	if math.Abs(c) >= m.config.Deadzone {
		mapped = math.Copysign(math.Pow(math.Abs(c), m.config.Gamma), c)
	}
	return mapped/2 + 0.5
}

// Calibration returns the calibration in use.
func (m *Mapper) Calibration() *Calibration {
	return m.calib
}

// Size returns the screen size.
func (m *Mapper) Size() (int, int) {
	return m.config.Width, m.config.Height
}

func clamp(v float64, dim int) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(float64(dim-1), v))
}

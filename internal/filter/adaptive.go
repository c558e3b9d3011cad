package filter

import "math"

// AdaptiveConfig holds the velocity tiers of the adaptive 1€ filter.
// Speeds are in screen pixels per second.
type AdaptiveConfig struct {
	FastSpeed    float64
	MediumSpeed  float64
	FastCutoff   float64
	MediumCutoff float64
	SlowCutoff   float64
	Beta         float64
	DCutoff      float64
	// Blend is the weight given to the tier target each frame.
	Blend float64
}

// DefaultAdaptiveConfig returns the tier settings tuned for a 1080p screen.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		FastSpeed:    800,
		MediumSpeed:  300,
		FastCutoff:   0.001,
		MediumCutoff: 0.004,
		SlowCutoff:   0.015,
		Beta:         0.7,
		DCutoff:      1.0,
		Blend:        0.3,
	}
}

// Tier names the speed band a sample fell into.
type Tier int

// Speed tiers.
const (
	TierSlow Tier = iota
	TierMedium
	TierFast
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierMedium:
		return "medium"
	}
	return "slow"
}

// Adaptive is a two-axis 1€ filter whose minimum cutoff follows the speed
// tier of the raw input. The cutoff glides toward each tier target rather
// than jumping to it.
type Adaptive struct {
	config AdaptiveConfig
	x, y   *OneEuro

	minCutoff    float64
	tier         Tier
	lastX, lastY float64
	lastT        float64
	primed       bool
}

// NewAdaptive creates a new Adaptive filter starting at the medium cutoff.
func NewAdaptive(config AdaptiveConfig) *Adaptive {
	return &Adaptive{
		config:    config,
		x:         NewOneEuro(config.MediumCutoff, config.Beta, config.DCutoff),
		y:         NewOneEuro(config.MediumCutoff, config.Beta, config.DCutoff),
		minCutoff: config.MediumCutoff,
	}
}

// Filter smooths one screen-space sample.
func (a *Adaptive) Filter(x, y, t float64) (float64, float64) {
	if a.primed {
		if dt := t - a.lastT; dt > 0 {
			speed := math.Hypot(x-a.lastX, y-a.lastY) / dt
			a.tier = a.tierFor(speed)
			b := a.config.Blend
			a.minCutoff = (1-b)*a.minCutoff + b*a.cutoffFor(a.tier)
			a.x.MinCutoff = a.minCutoff
			a.y.MinCutoff = a.minCutoff
		}
	}

	fx := a.x.Filter(x, t)
	fy := a.y.Filter(y, t)

	if !a.primed || t > a.lastT {
		a.lastX, a.lastY, a.lastT = x, y, t
		a.primed = true
	}
	return fx, fy
}

func (a *Adaptive) tierFor(speed float64) Tier {
	switch {
	case speed > a.config.FastSpeed:
		return TierFast
	case speed > a.config.MediumSpeed:
		return TierMedium
	}
	return TierSlow
}

func (a *Adaptive) cutoffFor(t Tier) float64 {
	switch t {
	case TierFast:
		return a.config.FastCutoff
	case TierMedium:
		return a.config.MediumCutoff
	}
	return a.config.SlowCutoff
}

// MinCutoff returns the current blended minimum cutoff.
func (a *Adaptive) MinCutoff() float64 {
	return a.minCutoff
}

// Tier returns the tier of the last sample.
func (a *Adaptive) Tier() Tier {
	return a.tier
}

// SetSmoothing maps a user smoothing level (1 = least, 20 = most) onto the
// medium tier cutoff.
func (a *Adaptive) SetSmoothing(level int) {
	a.config.MediumCutoff = SmoothingCutoff(level)
}

// SmoothingCutoff converts a smoothing level to a medium-tier cutoff.
func SmoothingCutoff(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 20 {
		level = 20
	}
	return math.Max(0.001, float64(21-level)*0.001)
}

// Reset clears both axes and the tier state.
func (a *Adaptive) Reset() {
	a.x.Reset()
	a.y.Reset()
	a.minCutoff = a.config.MediumCutoff
	a.x.MinCutoff = a.minCutoff
	a.y.MinCutoff = a.minCutoff
	a.tier = TierSlow
	a.primed = false
}

package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tanema/gween/ease"
)

// Kind selects which stages Smoother runs.
type Kind string

const (
	// KindOneEuro is a plain 1€ filter with a fixed minimum cutoff.
	KindOneEuro Kind = "one_euro"
	// KindAdaptive is the velocity-tiered 1€ filter.
	KindAdaptive Kind = "adaptive"
	// KindKalman outputs the corrected constant-velocity estimate.
	KindKalman Kind = "kalman"
	// KindHybrid runs the adaptive 1€ filter and the Kalman predictor in
	// parallel and switches to the prediction during fast motion.
	KindHybrid Kind = "hybrid"
)

// ParseKind validates a filter kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindOneEuro, KindAdaptive, KindKalman, KindHybrid:
		return k, nil
	}
	return "", fmt.Errorf("unknown filter kind %q", s)
}

// Config holds all smoothing parameters. Positions and speeds are in
// screen pixels.
type Config struct {
	Kind Kind

	// MinCutoff and Beta configure KindOneEuro.
	MinCutoff float64
	Beta      float64
	DCutoff   float64

	Adaptive AdaptiveConfig
	Kalman   KalmanConfig

	// KalmanSpeed is the speed above which the hybrid filter emits the
	// Kalman prediction.
	KalmanSpeed float64

	// CrossfadeBand widens the hybrid switch into an eased blend spanning
	// KalmanSpeed ± CrossfadeBand/2. Zero keeps a hard switch.
	CrossfadeBand float64

	// DeadZone suppresses output moves shorter than this radius.
	DeadZone float64
	// StillDeadZone replaces DeadZone while speed is below StillSpeed.
	StillDeadZone float64
	StillSpeed    float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Kind:          KindHybrid,
		MinCutoff:     1.0,
		Beta:          0.007,
		DCutoff:       1.0,
		Adaptive:      DefaultAdaptiveConfig(),
		Kalman:        DefaultKalmanConfig(),
		KalmanSpeed:   500,
		CrossfadeBand: 0,
		DeadZone:      2,
		StillDeadZone: 5,
		StillSpeed:    10,
	}
}

// Sample describes the internals of the last Filter call.
type Sample struct {
	Speed        float64 // raw input speed, px/s
	KalmanWeight float64 // share of the Kalman prediction in the output
	Held         bool    // output suppressed by the dead zone or a stale timestamp
}

// Smoother is the cursor filter. One Smoother belongs to one tracked point.
type Smoother struct {
	config Config

	oneX, oneY *OneEuro
	adaptive   *Adaptive
	kalman     *Kalman

	lastX, lastY float64
	lastT        float64
	outX, outY   float64
	primed       bool
	sample       Sample
}

// New creates a Smoother for config.Kind.
func New(config Config) *Smoother {
	s := &Smoother{config: config}
	switch config.Kind {
	case KindOneEuro:
		s.oneX = NewOneEuro(config.MinCutoff, config.Beta, config.DCutoff)
		s.oneY = NewOneEuro(config.MinCutoff, config.Beta, config.DCutoff)
	case KindAdaptive:
		s.adaptive = NewAdaptive(config.Adaptive)
	case KindKalman:
		s.kalman = NewKalman(config.Kalman)
	default:
		s.config.Kind = KindHybrid
		s.adaptive = NewAdaptive(config.Adaptive)
		s.kalman = NewKalman(config.Kalman)
	}
	return s
}

// Filter smooths a raw screen position observed at t seconds. The first
// call returns the input unchanged. A timestamp that does not advance
// returns the previous output.
func (s *Smoother) Filter(x, y, t float64) (float64, float64) {
	if !s.primed {
		s.bootstrap(x, y, t)
		return x, y
	}

	dt := t - s.lastT
	if dt <= 0 {
		s.sample = Sample{Held: true}
		return s.outX, s.outY
	}
	speed := math.Hypot(x-s.lastX, y-s.lastY) / dt
	s.lastX, s.lastY, s.lastT = x, y, t

	var px, py float64
	if s.kalman != nil {
		px, py = s.kalman.Predict()
		cx, cy := s.kalman.Correct(x, y)
		if s.config.Kind == KindKalman {
			px, py = cx, cy
		}
	}

	var fx, fy float64
	switch {
	case s.oneX != nil:
		fx, fy = s.oneX.Filter(x, t), s.oneY.Filter(y, t)
	case s.adaptive != nil:
		fx, fy = s.adaptive.Filter(x, y, t)
	}

	w := s.kalmanWeight(speed)
	sx := w*px + (1-w)*fx
	sy := w*py + (1-w)*fy

	s.sample = Sample{Speed: speed, KalmanWeight: w}

	radius := s.config.DeadZone
	if speed < s.config.StillSpeed {
		radius = s.config.StillDeadZone
	}
	if math.Hypot(sx-s.outX, sy-s.outY) < radius {
		s.sample.Held = true
		return s.outX, s.outY
	}

	s.outX, s.outY = sx, sy
	return sx, sy
}

func (s *Smoother) bootstrap(x, y, t float64) {
	if s.oneX != nil {
		s.oneX.Filter(x, t)
		s.oneY.Filter(y, t)
	}
	if s.adaptive != nil {
		s.adaptive.Filter(x, y, t)
	}
	if s.kalman != nil {
		s.kalman.Init(x, y)
	}
	s.lastX, s.lastY, s.lastT = x, y, t
	s.outX, s.outY = x, y
	s.primed = true
	s.sample = Sample{}
}

// kalmanWeight returns how much of the Kalman prediction to emit at speed.
func (s *Smoother) kalmanWeight(speed float64) float64 {
	if s.config.Kind == KindKalman {
		return 1
	}
	if s.config.Kind != KindHybrid {
		return 0
	}

	band := s.config.CrossfadeBand
	if band <= 0 {
		if speed > s.config.KalmanSpeed {
			return 1
		}
		return 0
	}

	lo := s.config.KalmanSpeed - band/2
	switch {
	case speed <= lo:
		return 0
	case speed >= lo+band:
		return 1
	}
	return float64(ease.InOutSine(float32(speed-lo), 0, 1, float32(band)))
}

// Last returns details of the most recent Filter call.
func (s *Smoother) Last() Sample {
	return s.sample
}

// Kind returns the active filter kind.
func (s *Smoother) Kind() Kind {
	return s.config.Kind
}

// SetSmoothing adjusts the adaptive medium-tier cutoff from a 1-20 level.
// It has no effect on kinds without the adaptive stage.
func (s *Smoother) SetSmoothing(level int) {
	if s.adaptive != nil {
		s.adaptive.SetSmoothing(level)
	}
}

// Reset clears all state; the next Filter call bootstraps.
func (s *Smoother) Reset() {
	if s.oneX != nil {
		s.oneX.Reset()
		s.oneY.Reset()
	}
	if s.adaptive != nil {
		s.adaptive.Reset()
	}
	if s.kalman != nil {
		s.kalman.Reset()
	}
	s.primed = false
	s.sample = Sample{}
}

// Close releases the OpenCV state held by the Kalman stage.
func (s *Smoother) Close() {
	if s.kalman != nil {
		s.kalman.Close()
	}
}

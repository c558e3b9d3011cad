// Package dwell confirms a click by holding a position steady.
package dwell

import "math"

// Config holds dwell parameters.
type Config struct {
	Duration  float64 // seconds the point must stay inside Tolerance
	Tolerance float64 // px
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{Duration: 0.4, Tolerance: 15}
}

// Detector is a two-state machine: unanchored, or anchored at a point
// since a start time.
type Detector struct {
	config Config

	anchored bool
	ax, ay   float64
	start    float64

	seen  bool
	lastT float64
}

// NewDetector creates an unanchored Detector.
func NewDetector(config Config) *Detector {
	return &Detector{config: config}
}

// Update feeds one position and reports whether the dwell fired along
// with progress in [0, 1]. A fire clears the anchor. A timestamp at or
// before the last one changes nothing.
func (d *Detector) Update(x, y, t float64) (bool, float64) {
	if d.seen && t <= d.lastT {
		return false, d.progress(d.lastT)
	}
	d.seen, d.lastT = true, t

	if !d.anchored || math.Hypot(x-d.ax, y-d.ay) > d.config.Tolerance {
		d.anchor(x, y, t)
		return false, 0
	}

	elapsed := t - d.start
	if elapsed >= d.config.Duration {
		d.anchored = false
		return true, 1
	}
	return false, d.progress(t)
}

func (d *Detector) progress(t float64) float64 {
	if !d.anchored || d.config.Duration <= 0 {
		return 0
	}
	return math.Min((t-d.start)/d.config.Duration, 1)
}

func (d *Detector) anchor(x, y, t float64) {
	d.anchored = true
	d.ax, d.ay = x, y
	d.start = t
}

// Anchored reports whether an anchor is set.
func (d *Detector) Anchored() bool {
	return d.anchored
}

// Reset drops the anchor and the last timestamp.
func (d *Detector) Reset() {
	d.anchored = false
	d.seen = false
}

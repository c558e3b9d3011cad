// Package filter smooths noisy per-frame cursor coordinates.
//
// The building blocks are a scalar 1€ filter, a velocity-tiered variant that
// adapts its minimum cutoff to the current speed, and a constant-velocity
// Kalman predictor. Smoother combines them with a dead zone into the
// filter used for the cursor.
package filter

import "math"

// SmoothingFactor returns the exponential smoothing weight for a low-pass
// filter with the given cutoff (Hz) sampled at freq (Hz).
func SmoothingFactor(freq, cutoff float64) float64 {
	r := 2 * math.Pi * cutoff / freq
	return r / (r + 1)
}

func lerp(alpha, x, prev float64) float64 {
	return alpha*x + (1-alpha)*prev
}

// OneEuro is a single-axis 1€ filter. The zero value is not usable; create
// one with NewOneEuro.
type OneEuro struct {
	MinCutoff float64 // Hz
	Beta      float64 // cutoff gain per unit/s of speed
	DCutoff   float64 // Hz, derivative low-pass

	xPrev  float64
	dxPrev float64
	tPrev  float64
	primed bool
}

// NewOneEuro creates a new 1€ filter.
func NewOneEuro(minCutoff, beta, dCutoff float64) *OneEuro {
	return &OneEuro{MinCutoff: minCutoff, Beta: beta, DCutoff: dCutoff}
}

// Filter smooths x observed at time t (seconds). The first call returns x.
// A timestamp that does not advance returns the previous output and leaves
// the state untouched.
func (f *OneEuro) Filter(x, t float64) float64 {
	if !f.primed {
		f.xPrev, f.dxPrev, f.tPrev = x, 0, t
		f.primed = true
		return x
	}

	dt := t - f.tPrev
	if dt <= 0 {
		return f.xPrev
	}
	freq := 1 / dt

	rawDX := (x - f.xPrev) * freq
	dxHat := lerp(SmoothingFactor(freq, f.DCutoff), rawDX, f.dxPrev)

	cutoff := f.MinCutoff + f.Beta*math.Abs(dxHat)
	xHat := lerp(SmoothingFactor(freq, cutoff), x, f.xPrev)

	f.xPrev, f.dxPrev, f.tPrev = xHat, dxHat, t
	return xHat
}

// Value returns the last output.
func (f *OneEuro) Value() float64 {
	return f.xPrev
}

// Reset clears the filter so the next call bootstraps again.
func (f *OneEuro) Reset() {
	f.xPrev, f.dxPrev, f.tPrev = 0, 0, 0
	f.primed = false
}

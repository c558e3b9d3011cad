// Package detector provides the hand landmark contract and the sources that deliver landmark frames.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to [0,1] relative to the source image; Z is
// roughly proportional to depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Missing is the placeholder stored for a landmark the source did not report.
var Missing = Point3D{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsFinite reports whether every coordinate of p is a finite number.
func (p Point3D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
// The index of each point is its meaning; see the constants above.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// FromPoints builds a HandLandmarks from a positional slice.
// Points beyond the slice are filled with Missing, so a short slice
// produces a hand that fails Valid.
func FromPoints(points []Point3D, handedness string, score float64) HandLandmarks {
	h := HandLandmarks{Handedness: handedness, Score: score}
	for i := 0; i < NumLandmarks; i++ {
		if i < len(points) {
			h.Points[i] = points[i]
		} else {
			h.Points[i] = Missing
		}
	}
	return h
}

// Valid reports whether all 21 landmarks carry finite coordinates.
func (h *HandLandmarks) Valid() bool {
	if h == nil {
		return false
	}
	for i := range h.Points {
		if !h.Points[i].IsFinite() {
			return false
		}
	}
	return true
}

// Translate returns a copy of the hand shifted by (dx, dy) in image space.
func (h HandLandmarks) Translate(dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}

// Anchored returns a copy of the hand translated so that landmark idx
// sits at (x, y).
func (h HandLandmarks) Anchored(idx int, x, y float64) HandLandmarks {
	p := h.Points[idx]
	return h.Translate(x-p.X, y-p.Y)
}

// WithHandedness returns a copy of the hand labelled with the given handedness.
func (h HandLandmarks) WithHandedness(handedness string) HandLandmarks {
	h.Handedness = handedness
	return h
}

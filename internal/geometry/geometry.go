// Package geometry provides the stateless measurements that gesture
// classification is built on: distances, joint angles, finger extension,
// palm centre and pinch distance.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/mudra/internal/detector"
)

// degenerateNorm is the vector length below which an angle is reported as 0.
const degenerateNorm = 1e-6

// Finger identifies one digit in the order used by Extended.
type Finger int

// Fingers in thumb-to-pinky order.
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// String returns the lower-case finger name.
func (f Finger) String() string {
	switch f {
	case Thumb:
		return "thumb"
	case Index:
		return "index"
	case Middle:
		return "middle"
	case Ring:
		return "ring"
	case Pinky:
		return "pinky"
	}
	return "unknown"
}

// TipPIP holds the tip and PIP landmark indices compared for each finger.
// The thumb uses its IP joint in the PIP slot.
var TipPIP = [NumFingers][2]int{
	{detector.ThumbTip, detector.ThumbIP},
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// palmIndices are averaged by PalmCenter.
var palmIndices = [...]int{
	detector.Wrist, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP,
}

// Vec converts a landmark to an r3 vector.
func Vec(p detector.Point3D) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// Point converts an r3 vector back to a landmark.
func Point(v r3.Vector) detector.Point3D {
	return detector.Point3D{X: v.X, Y: v.Y, Z: v.Z}
}

// Distance returns the 3D Euclidean distance between two landmarks.
func Distance(a, b detector.Point3D) float64 {
	return Vec(a).Distance(Vec(b))
}

// Distance2D returns the Euclidean distance between two landmarks in the image plane.
func Distance2D(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Angle returns the angle in degrees at center formed by p1 and p3, in [0, 180].
// Coincident points give 0.
func Angle(p1, center, p3 detector.Point3D) float64 {
	v1 := Vec(p1).Sub(Vec(center))
	v2 := Vec(p3).Sub(Vec(center))

	n1, n2 := v1.Norm(), v2.Norm()
	if n1 < degenerateNorm || n2 < degenerateNorm {
		return 0
	}

	cos := v1.Dot(v2) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Extended reports, per finger, whether it is straightened.
//
// The thumb is tested laterally against the index knuckle because it moves
// mostly in the image plane. The other fingers are tested vertically: a tip
// above its PIP joint (smaller y) is extended.
func Extended(h *detector.HandLandmarks) [NumFingers]bool {
	var out [NumFingers]bool

	anchor := h.Points[detector.IndexMCP]
	tip := h.Points[TipPIP[Thumb][0]]
	pip := h.Points[TipPIP[Thumb][1]]
	out[Thumb] = math.Abs(tip.X-anchor.X) > math.Abs(pip.X-anchor.X)

	for f := Index; f < NumFingers; f++ {
		out[f] = h.Points[TipPIP[f][0]].Y < h.Points[TipPIP[f][1]].Y
	}
	return out
}

// PalmCenter returns the mean of the wrist and the four finger knuckles.
func PalmCenter(h *detector.HandLandmarks) detector.Point3D {
	var sum r3.Vector
	for _, i := range palmIndices {
		sum = sum.Add(Vec(h.Points[i]))
	}
	return Point(sum.Mul(1 / float64(len(palmIndices))))
}

// PinchDistance returns the 3D distance between thumb tip and index tip.
func PinchDistance(h *detector.HandLandmarks) float64 {
	return Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
}

package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/geometry"
)

// Config holds classifier thresholds, in normalized image units.
type Config struct {
	// PinchThreshold is the thumb-index tip distance below which a hand pinches.
	PinchThreshold float64

	// ThumbMargin is the band around the wrist height inside which a lone
	// thumb is neither up nor down.
	ThumbMargin float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		PinchThreshold: 0.05,
		ThumbMargin:    0.05,
	}
}

// confidenceScale is the margin at which a decision is considered certain.
const confidenceScale = 0.05

// Result is a classification with its supporting measurements.
type Result struct {
	Label      Label
	Confidence float64 // 0 for Unknown, otherwise in [0.5, 1]
	Extended   [geometry.NumFingers]bool
	Pinch      float64 // thumb-index tip distance
}

// Classifier maps a hand pose to a Label. It holds no per-frame state and
// is safe for concurrent use.
type Classifier struct {
	config Config
}

// NewClassifier creates a new Classifier.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify returns the gesture label for a hand.
func (c *Classifier) Classify(h *detector.HandLandmarks) Label {
	return c.Evaluate(h).Label
}

// Evaluate classifies a hand and reports how far the deciding measurements
// were from their thresholds.
//
// Checks run in strict priority: pinch, lone thumb up or down, open palm,
// fist, pointing, two fingers. A hand that is not fully populated with
// finite points is Unknown.
func (c *Classifier) Evaluate(h *detector.HandLandmarks) Result {
	if !h.Valid() {
		return Result{Label: Unknown}
	}

	pinch := geometry.PinchDistance(h)
	ext := geometry.Extended(h)
	res := Result{Extended: ext, Pinch: pinch}

	if pinch < c.config.PinchThreshold {
		res.Label = Pinch
		res.Confidence = confidence((c.config.PinchThreshold - pinch) / c.config.PinchThreshold * confidenceScale)
		return res
	}

	margins := fingerMargins(h)
	thumb, index, middle, ring, pinky := ext[geometry.Thumb], ext[geometry.Index], ext[geometry.Middle], ext[geometry.Ring], ext[geometry.Pinky]

	if thumb && !index && !middle && !ring && !pinky {
		tipY := h.Points[detector.ThumbTip].Y
		wristY := h.Points[detector.Wrist].Y
		switch {
		case tipY < wristY-c.config.ThumbMargin:
			res.Label = ThumbsUp
			res.Confidence = confidence(math.Min(minMargin(margins[:]), wristY-c.config.ThumbMargin-tipY))
			return res
		case tipY > wristY+c.config.ThumbMargin:
			res.Label = ThumbsDown
			res.Confidence = confidence(math.Min(minMargin(margins[:]), tipY-wristY-c.config.ThumbMargin))
			return res
		}
	}

	switch {
	case thumb && index && middle && ring && pinky:
		res.Label = Palm
		res.Confidence = confidence(minMargin(margins[:]))
	case !index && !middle && !ring && !pinky:
		res.Label = Fist
		res.Confidence = confidence(minMargin(margins[geometry.Index:]))
	case index && !middle && !ring && !pinky:
		res.Label = Pointing
		res.Confidence = confidence(minMargin(margins[geometry.Index:]))
	case index && middle && !ring && !pinky:
		res.Label = TwoFingers
		res.Confidence = confidence(minMargin(margins[geometry.Index:]))
	default:
		res.Label = Unknown
	}
	return res
}

// fingerMargins returns, per finger, how far the extension test was from flipping.
func fingerMargins(h *detector.HandLandmarks) [geometry.NumFingers]float64 {
	var m [geometry.NumFingers]float64

	anchor := h.Points[detector.IndexMCP].X
	tip := h.Points[detector.ThumbTip].X
	ip := h.Points[detector.ThumbIP].X
	m[geometry.Thumb] = math.Abs(math.Abs(tip-anchor) - math.Abs(ip-anchor))

	for f := geometry.Index; f < geometry.NumFingers; f++ {
		pair := geometry.TipPIP[f]
		m[f] = math.Abs(h.Points[pair[0]].Y - h.Points[pair[1]].Y)
	}
	return m
}

func minMargin(m []float64) float64 {
	out := math.Inf(1)
	for _, v := range m {
		out = math.Min(out, v)
	}
	return out
}

// confidence maps a decision margin to [0.5, 1].
func confidence(margin float64) float64 {
	return 0.5 + 0.5*math.Max(0, math.Min(1, margin/confidenceScale))
}

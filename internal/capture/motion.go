package capture

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	blurSize      = 21 // Gaussian kernel, odd
	pixelDiffGate = 25 // grey-level difference counted as change
)

// MotionDetector compares each frame with the previous one and reports
// the fraction of pixels that changed.
type MotionDetector struct {
	threshold float64 // fraction of changed pixels counted as motion
	prev      gocv.Mat
	primed    bool
}

// NewMotionDetector creates a MotionDetector. threshold is a fraction in
// (0, 1], e.g. 0.01 for one percent of the pixels.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{threshold: threshold, prev: gocv.NewMat()}
}

// Detect returns whether frame differs from the previous frame by more
// than the threshold, and the changed fraction. The first frame only sets
// the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	if !m.primed || gray.Rows() != m.prev.Rows() || gray.Cols() != m.prev.Cols() {
		gray.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prev, &diff)
	gocv.Threshold(diff, &diff, pixelDiffGate, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols())
	gray.CopyTo(&m.prev)
	return changed > m.threshold, changed
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() {
	m.prev.Close()
	m.primed = false
}

package mapping

import (
	"errors"
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// ErrDegenerateCalibration is returned when calibration points do not span a quadrilateral.
var ErrDegenerateCalibration = errors.New("degenerate calibration points")

// Point is a 2D point.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Calibration maps normalized camera coordinates onto the screen. Until
// Calibrate succeeds it scales by the screen size.
type Calibration struct {
	width, height int
	h             [9]float64
	corners       []Point
	calibrated    bool
}

// NewCalibration creates an uncalibrated transform for a screen size.
func NewCalibration(width, height int) *Calibration {
	return &Calibration{width: width, height: height}
}

// Calibrate fits a perspective transform sending the four camera points
// (top-left, top-right, bottom-right, bottom-left) to the screen corners.
// On error the previous transform is kept.
func (c *Calibration) Calibrate(corners []Point) error {
	if len(corners) != 4 {
		return fmt.Errorf("calibration needs 4 points, got %d", len(corners))
	}

	w, h := float64(c.width), float64(c.height)
	screen := [4]Point{{0, 0}, {w, 0}, {w, h}, {0, h}}

	hm, err := solveHomography([4]Point(corners), screen)
	if err != nil {
		return err
	}

	c.h = hm
	c.corners = append([]Point(nil), corners...)
	c.calibrated = true
	return nil
}

// Apply transforms a normalized point to screen pixels.
func (c *Calibration) Apply(x, y float64) (float64, float64) {
	if !c.calibrated {
		return x * float64(c.width), y * float64(c.height)
	}

	h := c.h
	d := h[6]*x + h[7]*y + h[8]
	if math.Abs(d) < 1e-12 {
		return x * float64(c.width), y * float64(c.height)
	}
	return (h[0]*x + h[1]*y + h[2]) / d, (h[3]*x + h[4]*y + h[5]) / d
}

// Calibrated reports whether a transform is active.
func (c *Calibration) Calibrated() bool {
	return c.calibrated
}

// Corners returns the camera points of the active transform.
func (c *Calibration) Corners() []Point {
	return append([]Point(nil), c.corners...)
}

// Clear drops the transform.
func (c *Calibration) Clear() {
	c.calibrated = false
	c.corners = nil
	c.h = [9]float64{}
}

// solveHomography finds the perspective transform H with H·src[i] ~ dst[i].
// The solve runs in float32 point space, which is ample for pixels.
func solveHomography(src, dst [4]Point) ([9]float64, error) {
	srcVec := gocv.NewPoint2fVectorFromPoints(point2f(src))
	defer srcVec.Close()
	dstVec := gocv.NewPoint2fVectorFromPoints(point2f(dst))
	defer dstVec.Close()

	m := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer m.Close()
	if m.Empty() || m.Rows() != 3 || m.Cols() != 3 {
		return [9]float64{}, ErrDegenerateCalibration
	}

	var h [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			h[3*r+c] = m.GetDoubleAt(r, c)
		}
	}

	// A singular system comes back as zeros with h[8] = 1.
	det := h[0]*(h[4]*h[8]-h[5]*h[7]) - h[1]*(h[3]*h[8]-h[5]*h[6]) + h[2]*(h[3]*h[7]-h[4]*h[6])
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < 1e-9 {
		return [9]float64{}, ErrDegenerateCalibration
	}
	return h, nil
}

func point2f(pts [4]Point) []gocv.Point2f {
	out := make([]gocv.Point2f, len(pts))
	for i, p := range pts {
		out[i] = gocv.NewPoint2f(float32(p.X), float32(p.Y))
	}
	return out
}

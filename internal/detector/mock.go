package detector

import (
	"context"
	"io"
	"sync"
)

// MockDetector is a test implementation of the Detector interface.
// It returns queued frames in order and io.EOF once the queue is empty.
type MockDetector struct {
	frames []Frame
	err    error
	closed bool
	mu     sync.Mutex
}

// NewMockDetector creates a new MockDetector preloaded with frames.
func NewMockDetector(frames ...Frame) *MockDetector {
	return &MockDetector{frames: frames}
}

// Push appends frames to the queue.
func (m *MockDetector) Push(frames ...Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, frames...)
}

// SetError sets the error that will be returned by Next.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Next returns the next queued frame or the configured error.
func (m *MockDetector) Next(ctx context.Context) (Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Frame{}, ErrSourceClosed
	}
	if m.err != nil {
		return Frame{}, m.err
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if len(m.frames) == 0 {
		return Frame{}, io.EOF
	}
	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, nil
}

// Close marks the mock closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// fingerChain lists MCP, PIP, DIP and tip indices for the four long fingers.
var fingerChain = [4][4]int{
	{IndexMCP, IndexPIP, IndexDIP, IndexTip},
	{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	{RingMCP, RingPIP, RingDIP, RingTip},
	{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// Knuckle positions and straight-finger offsets for a right hand, palm
// facing the camera, wrist at (0.5, 0.8).
var (
	knuckles = [4]Point3D{
		{X: 0.55, Y: 0.68}, {X: 0.50, Y: 0.66}, {X: 0.45, Y: 0.68}, {X: 0.40, Y: 0.70},
	}
	straightX = [4][3]float64{
		{0.57, 0.58, 0.58}, {0.50, 0.50, 0.50}, {0.43, 0.42, 0.42}, {0.37, 0.35, 0.34},
	}
	straightY = [4][3]float64{
		{0.13, 0.23, 0.33}, {0.14, 0.26, 0.38}, {0.13, 0.23, 0.33}, {0.10, 0.18, 0.26},
	}
)

// buildHand returns a right hand with the given fingers straight and the
// rest curled. Curled fingers fold toward the camera so their tips sit
// below their PIP joints.
func buildHand(thumb, index, middle, ring, pinky bool) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	if thumb {
		// Out to the side, away from the index knuckle
		h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
		h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
		h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
		h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}
	} else {
		// Tucked back toward the index knuckle
		h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
		h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.71, Z: -0.01}
		h.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.68, Z: -0.02}
		h.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.63, Z: -0.02}
	}

	straight := [4]bool{index, middle, ring, pinky}
	for f, chain := range fingerChain {
		mcp := knuckles[f]
		h.Points[chain[0]] = mcp
		for j := 1; j < 4; j++ {
			if straight[f] {
				h.Points[chain[j]] = Point3D{X: straightX[f][j-1], Y: mcp.Y - straightY[f][j-1]}
			} else {
				curl := [3]Point3D{
					{X: mcp.X, Y: mcp.Y - 0.02, Z: -0.05},
					{X: mcp.X - 0.01, Y: mcp.Y, Z: -0.04},
					{X: mcp.X - 0.01, Y: mcp.Y + 0.02, Z: -0.03},
				}
				h.Points[chain[j]] = curl[j-1]
			}
		}
	}
	return h
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand(true, true, true, true, true)
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended and its tip sits well above the wrist.
func ThumbsUpLandmarks() HandLandmarks {
	return buildHand(true, false, false, false, false)
}

// ThumbsDownLandmarks returns a thumbs down: the extended thumb points below the wrist.
func ThumbsDownLandmarks() HandLandmarks {
	h := buildHand(true, false, false, false, false)
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.82, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.88, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.93, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.98, Z: 0.03}
	return h
}

// FistLandmarks returns a closed fist.
func FistLandmarks() HandLandmarks {
	return buildHand(false, false, false, false, false)
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return buildHand(false, true, false, false, false)
}

// TwoFingersLandmarks returns a hand with index and middle fingers extended.
func TwoFingersLandmarks() HandLandmarks {
	return buildHand(false, true, true, false, false)
}

// PinchLandmarks returns an otherwise open hand whose thumb tip touches the
// index tip. Every finger still reads as extended.
func PinchLandmarks() HandLandmarks {
	h := buildHand(true, true, true, true, true)
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.62, Z: 0.01}
	h.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.47, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.59, Y: 0.36, Z: 0.0}
	return h
}

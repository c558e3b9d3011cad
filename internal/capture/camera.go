// Package capture opens a webcam with OpenCV to check that it delivers
// frames and sees movement before the landmark service is started on it.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Requested capture size. Devices may deliver something else.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is a frame source.
type Camera interface {
	Open() error
	Close() error

	// ReadFrame returns the next frame. The caller must Close it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// Device is a Camera backed by an OpenCV video capture device.
type Device struct {
	id      int
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// NewDevice creates a Device for the camera with the given index.
func NewDevice(id int) *Device {
	return &Device{id: id}
}

// Open starts capturing. Opening an open device is a no-op.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture != nil {
		return nil
	}
	vc, err := gocv.OpenVideoCapture(d.id)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", d.id, err)
	}
	vc.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	d.capture = vc
	return nil
}

// Close stops capturing and releases the device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil
	}
	err := d.capture.Close()
	d.capture = nil
	return err
}

// ReadFrame reads one frame from the device.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := d.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("camera %d returned no frame", d.id)
	}
	return &mat, nil
}

// IsOpen reports whether the device is capturing.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.capture != nil
}

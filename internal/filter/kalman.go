package filter

import "gocv.io/x/gocv"

// KalmanConfig holds the noise covariances of the constant-velocity predictor.
type KalmanConfig struct {
	ProcessNoise     float64
	MeasurementNoise float64
}

// DefaultKalmanConfig returns the covariances used for cursor tracking.
func DefaultKalmanConfig() KalmanConfig {
	return KalmanConfig{
		ProcessNoise:     0.03,
		MeasurementNoise: 0.1,
	}
}

// Kalman is a constant-velocity predictor over the state [x, y, vx, vy],
// backed by an OpenCV KalmanFilter. Velocity is in units per step: each
// Predict advances position by one velocity, and only position is measured.
//
// The OpenCV filter is allocated by Init and released by Reset or Close.
type Kalman struct {
	config KalmanConfig
	kf     *gocv.KalmanFilter
	state  [4]float64
}

// NewKalman creates a new Kalman predictor.
func NewKalman(config KalmanConfig) *Kalman {
	return &Kalman{config: config}
}

// Init places the state at (x, y) with zero velocity and zero covariance.
func (k *Kalman) Init(x, y float64) {
	k.release()

	kf := gocv.NewKalmanFilterWithParams(4, 2, 0, gocv.MatTypeCV64F)
	q, r := k.config.ProcessNoise, k.config.MeasurementNoise

	setMat(kf.SetTransitionMatrix, 4, 4,
		1, 0, 1, 0,
		0, 1, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1)
	setMat(kf.SetMeasurementMatrix, 2, 4,
		1, 0, 0, 0,
		0, 1, 0, 0)
	setMat(kf.SetProcessNoiseCov, 4, 4,
		q, 0, 0, 0,
		0, q, 0, 0,
		0, 0, q, 0,
		0, 0, 0, q)
	setMat(kf.SetMeasurementNoiseCov, 2, 2,
		r, 0,
		0, r)
	setMat(kf.SetErrorCovPost, 4, 4)
	setMat(kf.SetErrorCovPre, 4, 4)
	setMat(kf.SetStatePost, 4, 1, x, y, 0, 0)
	setMat(kf.SetStatePre, 4, 1, x, y, 0, 0)

	k.kf = &kf
	k.state = [4]float64{x, y, 0, 0}
}

// Primed reports whether Init has been called.
func (k *Kalman) Primed() bool {
	return k.kf != nil
}

// Predict advances the state one step and returns the predicted position.
func (k *Kalman) Predict() (float64, float64) {
	if k.kf == nil {
		return k.state[0], k.state[1]
	}
	m := k.kf.Predict()
	defer m.Close()
	k.readState(&m)
	return k.state[0], k.state[1]
}

// Correct folds a position measurement into the state and returns the
// corrected position.
func (k *Kalman) Correct(x, y float64) (float64, float64) {
	if k.kf == nil {
		return k.state[0], k.state[1]
	}
	z := newMat(2, 1, x, y)
	defer z.Close()

	m := k.kf.Correct(z)
	defer m.Close()
	k.readState(&m)
	return k.state[0], k.state[1]
}

// Velocity returns the estimated velocity in units per step.
func (k *Kalman) Velocity() (float64, float64) {
	return k.state[2], k.state[3]
}

// Reset forgets the state and releases the OpenCV filter.
func (k *Kalman) Reset() {
	k.release()
	k.state = [4]float64{}
}

// Close releases the OpenCV filter.
func (k *Kalman) Close() {
	k.Reset()
}

func (k *Kalman) release() {
	if k.kf != nil {
		k.kf.Close()
		k.kf = nil
	}
}

func (k *Kalman) readState(m *gocv.Mat) {
	if m.Empty() || m.Rows() < 4 {
		return
	}
	for i := range k.state {
		k.state[i] = m.GetDoubleAt(i, 0)
	}
}

// newMat builds a rows x cols CV_64F matrix from row-major values; missing
// values are zero.
func newMat(rows, cols int, vals ...float64) gocv.Mat {
	m := gocv.Zeros(rows, cols, gocv.MatTypeCV64F)
	for i, v := range vals {
		m.SetDoubleAt(i/cols, i%cols, v)
	}
	return m
}

// setMat hands a new matrix to one of the filter setters. The filter keeps
// its own reference to the data.
func setMat(set func(gocv.Mat), rows, cols int, vals ...float64) {
	m := newMat(rows, cols, vals...)
	defer m.Close()
	set(m)
}

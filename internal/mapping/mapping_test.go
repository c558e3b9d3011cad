package mapping

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Center(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)
	x, y := m.Map(0.5, 0.5)
	assert.Equal(t, 960.0, x)
	assert.Equal(t, 540.0, y)
}

func TestMapper_DeadzoneExactness(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)

	// Deadzone is 0.02 in recentred units, i.e. 0.01 around 0.5.
	for _, eps := range []float64{0, 0.001, 0.005, 0.0099} {
		x, _ := m.Map(0.5+eps, 0.5)
		assert.Equal(t, 960.0, x, "eps=%v", eps)
		x, _ = m.Map(0.5-eps, 0.5)
		assert.Equal(t, 960.0, x, "eps=-%v", eps)
	}

	x, _ := m.Map(0.52, 0.5)
	assert.Greater(t, x, 960.0)
}

func TestMapper_Monotonic(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)

	prevX, prevY := -1.0, -1.0
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		x, _ := m.Map(v, 0.5)
		_, y := m.Map(0.5, v)
		require.GreaterOrEqual(t, x, prevX, "x at %v", v)
		require.GreaterOrEqual(t, y, prevY, "y at %v", v)
		prevX, prevY = x, y
	}
}

func TestMapper_GammaCurve(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)

	x, _ := m.Map(0.75, 0.5)
	want := (math.Pow(0.5, 1.3)/2 + 0.5) * 1920
	assert.InDelta(t, want, x, 1e-9)

	// The curve compresses near the centre.
	assert.Less(t, x, 0.75*1920)
}

func TestMapper_Clamps(t *testing.T) {
	m := NewMapper(DefaultConfig(), nil)

	x, y := m.Map(1.0, 1.0)
	assert.Equal(t, 1919.0, x)
	assert.Equal(t, 1079.0, y)

	x, y = m.Map(-0.4, 1.7)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 1079.0, y)

	x, _ = m.Map(math.NaN(), 0.5)
	assert.False(t, math.IsNaN(x))
	assert.GreaterOrEqual(t, x, 0.0)
	assert.LessOrEqual(t, x, 1919.0)
}

// calibDelta allows for the float32 point space of the fit.
const calibDelta = 1e-3

func TestCalibration_Uncalibrated(t *testing.T) {
	c := NewCalibration(1920, 1080)
	x, y := c.Apply(0.25, 0.5)
	assert.Equal(t, 480.0, x)
	assert.Equal(t, 540.0, y)
	assert.False(t, c.Calibrated())
}

func TestCalibration_UnitSquareIsScaling(t *testing.T) {
	c := NewCalibration(1920, 1080)
	require.NoError(t, c.Calibrate([]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}))

	for _, p := range []Point{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.7}} {
		x, y := c.Apply(p.X, p.Y)
		assert.InDelta(t, p.X*1920, x, calibDelta)
		assert.InDelta(t, p.Y*1080, y, calibDelta)
	}
}

func TestCalibration_InsetRectangle(t *testing.T) {
	c := NewCalibration(1920, 1080)
	require.NoError(t, c.Calibrate([]Point{{0.1, 0.1}, {0.9, 0.1}, {0.9, 0.9}, {0.1, 0.9}}))

	x, y := c.Apply(0.1, 0.1)
	assert.InDelta(t, 0, x, calibDelta)
	assert.InDelta(t, 0, y, calibDelta)

	x, y = c.Apply(0.5, 0.5)
	assert.InDelta(t, 960, x, calibDelta)
	assert.InDelta(t, 540, y, calibDelta)

	x, y = c.Apply(0.9, 0.9)
	assert.InDelta(t, 1920, x, calibDelta)
	assert.InDelta(t, 1080, y, calibDelta)
}

func TestCalibration_Perspective(t *testing.T) {
	c := NewCalibration(1000, 1000)
	corners := []Point{{0.2, 0.1}, {0.8, 0.15}, {0.9, 0.9}, {0.1, 0.85}}
	require.NoError(t, c.Calibrate(corners))

	want := []Point{{0, 0}, {1000, 0}, {1000, 1000}, {0, 1000}}
	for i, p := range corners {
		x, y := c.Apply(p.X, p.Y)
		assert.InDelta(t, want[i].X, x, calibDelta)
		assert.InDelta(t, want[i].Y, y, calibDelta)
	}
	assert.Equal(t, corners, c.Corners())
}

func TestCalibration_Rejects(t *testing.T) {
	c := NewCalibration(1920, 1080)

	t.Run("wrong point count", func(t *testing.T) {
		assert.Error(t, c.Calibrate([]Point{{0, 0}, {1, 1}}))
	})

	t.Run("coincident points", func(t *testing.T) {
		err := c.Calibrate([]Point{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}})
		assert.ErrorIs(t, err, ErrDegenerateCalibration)
		assert.False(t, c.Calibrated())

		x, _ := c.Apply(0.5, 0.5)
		assert.Equal(t, 960.0, x)
	})
}

func TestMapper_UsesCalibration(t *testing.T) {
	calib := NewCalibration(1920, 1080)
	require.NoError(t, calib.Calibrate([]Point{{0.1, 0.1}, {0.9, 0.1}, {0.9, 0.9}, {0.1, 0.9}}))
	m := NewMapper(DefaultConfig(), calib)

	x, y := m.Map(0.5, 0.5)
	assert.InDelta(t, 960, x, calibDelta)
	assert.InDelta(t, 540, y, calibDelta)

	// The curve output near the edge falls outside the calibrated box and clamps.
	x, _ = m.Map(0.99, 0.5)
	assert.Equal(t, 1919.0, x)
}

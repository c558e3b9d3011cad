package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameDT = 1.0 / 30

func TestSmoothingFactor(t *testing.T) {
	r := 2 * math.Pi * 1.0 / 30
	assert.InDelta(t, r/(r+1), SmoothingFactor(30, 1.0), 1e-12)
	assert.Less(t, SmoothingFactor(30, 0.001), SmoothingFactor(30, 10))
}

func TestOneEuro_FirstCallPassesThrough(t *testing.T) {
	f := NewOneEuro(1.0, 0.007, 1.0)
	assert.Equal(t, 42.5, f.Filter(42.5, 10))
}

func TestOneEuro_Convergence(t *testing.T) {
	f := NewOneEuro(1.0, 0.007, 1.0)
	f.Filter(0, 0)

	prev := 0.0
	var out float64
	for i := 1; i <= 120; i++ {
		out = f.Filter(100, float64(i)*frameDT)
		require.GreaterOrEqual(t, out, prev, "step %d moved backward", i)
		require.LessOrEqual(t, out, 100.0, "step %d overshot", i)
		prev = out
	}
	assert.InDelta(t, 100, out, 0.5)
}

func TestOneEuro_NoiseAttenuation(t *testing.T) {
	f := NewOneEuro(1.0, 0.007, 1.0)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < 120; i++ {
		in := 100 + 5*float64(1-2*(i%2))
		out := f.Filter(in, float64(i)*frameDT)
		if i >= 60 {
			lo = math.Min(lo, out)
			hi = math.Max(hi, out)
		}
	}

	assert.Less(t, hi-lo, 10.0, "output peak-to-peak must be below input peak-to-peak")
}

func TestOneEuro_StaleTimestamp(t *testing.T) {
	f := NewOneEuro(1.0, 0.007, 1.0)
	f.Filter(0, 1.0)
	moved := f.Filter(10, 1.0+frameDT)

	t.Run("duplicate timestamp holds", func(t *testing.T) {
		assert.Equal(t, moved, f.Filter(500, 1.0+frameDT))
	})

	t.Run("backward timestamp holds", func(t *testing.T) {
		assert.Equal(t, moved, f.Filter(-500, 0.5))
	})

	t.Run("state is not corrupted", func(t *testing.T) {
		next := f.Filter(10, 1.0+2*frameDT)
		assert.False(t, math.IsNaN(next))
		assert.Greater(t, next, moved)
		assert.LessOrEqual(t, next, 10.0)
	})
}

func TestOneEuro_Reset(t *testing.T) {
	f := NewOneEuro(1.0, 0.007, 1.0)
	f.Filter(0, 0)
	f.Filter(50, frameDT)
	f.Reset()
	assert.Equal(t, 7.0, f.Filter(7, 100))
}

func TestAdaptive_TierBlend(t *testing.T) {
	cfg := DefaultAdaptiveConfig()

	t.Run("slow motion glides toward the slow cutoff", func(t *testing.T) {
		a := NewAdaptive(cfg)
		a.Filter(100, 100, 0)
		a.Filter(101, 100, frameDT) // 30 px/s

		assert.Equal(t, TierSlow, a.Tier())
		assert.InDelta(t, 0.7*0.004+0.3*0.015, a.MinCutoff(), 1e-12)
	})

	t.Run("fast motion glides toward the fast cutoff", func(t *testing.T) {
		a := NewAdaptive(cfg)
		a.Filter(100, 100, 0)
		a.Filter(140, 100, frameDT) // 1200 px/s

		assert.Equal(t, TierFast, a.Tier())
		assert.InDelta(t, 0.7*0.004+0.3*0.001, a.MinCutoff(), 1e-12)
	})

	t.Run("medium band", func(t *testing.T) {
		a := NewAdaptive(cfg)
		a.Filter(100, 100, 0)
		a.Filter(115, 100, frameDT) // 450 px/s

		assert.Equal(t, TierMedium, a.Tier())
		assert.InDelta(t, 0.004, a.MinCutoff(), 1e-12)
	})

	t.Run("cutoff never snaps", func(t *testing.T) {
		a := NewAdaptive(cfg)
		a.Filter(0, 0, 0)
		prev := a.MinCutoff()
		for i := 1; i <= 10; i++ {
			a.Filter(0, 0, float64(i)*frameDT)
			cur := a.MinCutoff()
			assert.Greater(t, cur, prev)
			assert.Less(t, cur, cfg.SlowCutoff)
			prev = cur
		}
	})
}

func TestAdaptive_FirstCallPassesThrough(t *testing.T) {
	a := NewAdaptive(DefaultAdaptiveConfig())
	x, y := a.Filter(960, 540, 3.2)
	assert.Equal(t, 960.0, x)
	assert.Equal(t, 540.0, y)
}

func TestSmoothingCutoff(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0.020},
		{10, 0.011},
		{20, 0.001},
		{0, 0.020},
		{99, 0.001},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SmoothingCutoff(tt.level), 1e-12, "level %d", tt.level)
	}

	a := NewAdaptive(DefaultAdaptiveConfig())
	a.SetSmoothing(5)
	assert.InDelta(t, 0.016, a.config.MediumCutoff, 1e-12)
}

package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plugin"
)

func actions(evs []plugin.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Action
	}
	return out
}

func TestPolicy_MoveCursor(t *testing.T) {
	p := NewPolicy(0.25)

	t.Run("sent every frame with the target", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			evs := p.Events(pipeline.Result{
				Timestamp: float64(i) / 30,
				Action:    dispatch.MoveCursor,
				Cursor:    &pipeline.Point{X: 10, Y: 20},
			})
			require.Len(t, evs, 1)
			require.NotNil(t, evs[0].Cursor)
			assert.Equal(t, 10.0, evs[0].Cursor.X)
			assert.Equal(t, 20.0, evs[0].Cursor.Y)
		}
	})

	t.Run("nothing without a target", func(t *testing.T) {
		evs := p.Events(pipeline.Result{Action: dispatch.MoveCursor, Edge: true})
		assert.Empty(t, evs)
	})
}

func TestPolicy_Discrete(t *testing.T) {
	p := NewPolicy(0.25)

	evs := p.Events(pipeline.Result{Action: dispatch.ClickLeft, Edge: true, Mode: mode.Cursor})
	require.Len(t, evs, 1)
	assert.Equal(t, "CLICK_LEFT", evs[0].Action)
	assert.Equal(t, "CURSOR", evs[0].Mode)
	assert.Nil(t, evs[0].Cursor)

	assert.Empty(t, p.Events(pipeline.Result{Action: dispatch.ClickLeft}), "held click does not repeat")
	assert.Empty(t, p.Events(pipeline.Result{Action: dispatch.None, Edge: true}))
}

func TestPolicy_ContinuousRepeats(t *testing.T) {
	p := NewPolicy(0.25)

	var fired []float64
	for _, ts := range []float64{0, 0.1, 0.2, 0.25, 0.3, 0.5} {
		r := pipeline.Result{Timestamp: ts, Action: dispatch.VolumeUp, Mode: mode.Media, Edge: ts == 0}
		if len(p.Events(r)) > 0 {
			fired = append(fired, ts)
		}
	}

	assert.Equal(t, []float64{0, 0.25, 0.5}, fired)
}

func TestPolicy_DwellClicks(t *testing.T) {
	p := NewPolicy(0.25)

	evs := p.Events(pipeline.Result{
		Action: dispatch.MoveCursor,
		Cursor: &pipeline.Point{X: 1, Y: 2},
		Dwell:  true,
	})

	assert.Equal(t, []string{"MOVE_CURSOR", "CLICK_LEFT"}, actions(evs))
	require.NotNil(t, evs[1].Cursor)
}

func TestPolicy_DragCarriesPosition(t *testing.T) {
	p := NewPolicy(0.25)

	evs := p.Events(pipeline.Result{
		Action:   dispatch.DragStart,
		Edge:     true,
		Smoothed: &pipeline.Point{X: 300, Y: 400},
	})
	require.Len(t, evs, 1)
	require.NotNil(t, evs[0].Cursor)
	assert.Equal(t, 300.0, evs[0].Cursor.X)

	evs = p.Events(pipeline.Result{
		Timestamp: 0.5,
		Action:    dispatch.DragEnd,
		Edge:      true,
		Smoothed:  &pipeline.Point{X: 310, Y: 405},
	})
	require.Len(t, evs, 1)
	require.NotNil(t, evs[0].Cursor)
	assert.Equal(t, 405.0, evs[0].Cursor.Y)

	t.Run("no position without a hand", func(t *testing.T) {
		evs := NewPolicy(0.25).Events(pipeline.Result{Action: dispatch.MoveWindow, Edge: true})
		require.Len(t, evs, 1)
		assert.Nil(t, evs[0].Cursor)
	})

	t.Run("discrete actions stay bare", func(t *testing.T) {
		evs := NewPolicy(0.25).Events(pipeline.Result{
			Action:   dispatch.ClickRight,
			Edge:     true,
			Smoothed: &pipeline.Point{X: 1, Y: 1},
		})
		require.Len(t, evs, 1)
		assert.Nil(t, evs[0].Cursor)
	})
}

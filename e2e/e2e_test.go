package e2e

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

// replay runs a recording through a fresh engine.
func replay(t *testing.T, name string) []pipeline.Result {
	t.Helper()
	det, err := testdata.Replay(name)
	require.NoError(t, err)

	frames, err := detector.ReadAll(context.Background(), det)
	require.NoError(t, err)
	require.NotEmpty(t, frames)

	engine := pipeline.NewEngine(pipeline.DefaultConfig(), nil, dispatch.DefaultTable(), nil)
	results := make([]pipeline.Result, len(frames))
	for i, f := range frames {
		results[i] = engine.ProcessFrame(pipeline.FromDetector(f), pipeline.Toggles{})
	}
	return results
}

// edges lists the non-NONE action edges in order.
func edges(results []pipeline.Result) []dispatch.Token {
	var out []dispatch.Token
	for _, r := range results {
		if r.Edge && r.Action != dispatch.None {
			out = append(out, r.Action)
		}
	}
	return out
}

func TestE2E_Recordings(t *testing.T) {
	assert.Equal(t, []string{
		testdata.HandLost,
		testdata.MediaPalm,
		testdata.PinchClick,
		testdata.PinchDrag,
		testdata.PointingCenter,
		testdata.ShortcutCopy,
	}, testdata.Recordings())

	_, err := testdata.LoadRecording("missing")
	assert.Error(t, err)
}

func TestE2E_PointingMovesCursorToCentre(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	results := replay(t, testdata.PointingCenter)

	first := results[0]
	assert.Equal(t, mode.Cursor, first.Mode)
	assert.Equal(t, gesture.Pointing, first.Gesture)
	assert.Equal(t, dispatch.MoveCursor, first.Action)
	require.NotNil(t, first.Cursor)
	assert.InDelta(t, 960, first.Cursor.X, 1e-6, "first sample passes through the filter")
	assert.InDelta(t, 540, first.Cursor.Y, 1e-6)

	for _, r := range results {
		require.NotNil(t, r.Cursor)
		assert.InDelta(t, 960, r.Cursor.X, 1)
		assert.InDelta(t, 540, r.Cursor.Y, 1)
	}
	assert.Equal(t, []dispatch.Token{dispatch.MoveCursor}, edges(results))
}

func TestE2E_PinchClickAndDrag(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	t.Run("short pinch clicks once", func(t *testing.T) {
		results := replay(t, testdata.PinchClick)

		assert.Equal(t, []dispatch.Token{
			dispatch.MoveCursor, dispatch.ClickLeft, dispatch.MoveCursor,
		}, edges(results))

		for _, r := range results {
			if r.Action == dispatch.ClickLeft {
				assert.Equal(t, dispatch.Quick, r.Timing)
			}
		}
		assert.Nil(t, results[8].Cursor, "cursor holds still right after the click")
		assert.NotNil(t, results[len(results)-1].Cursor)
	})

	t.Run("long pinch drags", func(t *testing.T) {
		results := replay(t, testdata.PinchDrag)

		assert.Equal(t, []dispatch.Token{
			dispatch.ClickLeft, dispatch.DragStart, dispatch.DragEnd, dispatch.MoveCursor,
		}, edges(results))

		// 1.1 s into the pinch
		assert.Equal(t, dispatch.Long, results[33].Timing)
		assert.Equal(t, dispatch.DragStart, results[33].Action)
	})
}

func TestE2E_PalmInTopBandPlaysMedia(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	results := replay(t, testdata.MediaPalm)

	for _, r := range results {
		assert.Equal(t, mode.Media, r.Mode)
		assert.Equal(t, gesture.Palm, r.Gesture)
		assert.Nil(t, r.Cursor)
	}
	assert.Equal(t, dispatch.Quick, results[0].Timing)
	assert.Equal(t, []dispatch.Token{dispatch.PlayPause}, edges(results))
}

func TestE2E_StillFistSelectsShortcut(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	results := replay(t, testdata.ShortcutCopy)

	assert.Equal(t, mode.Cursor, results[0].Mode)
	assert.Equal(t, mode.Shortcut, results[len(results)-1].Mode)
	assert.Equal(t, []dispatch.Token{dispatch.MoveCursor, dispatch.Copy}, edges(results))

	for _, r := range results {
		if r.Action == dispatch.Copy {
			assert.Equal(t, mode.Shortcut, r.Mode)
			assert.Equal(t, gesture.Pinch, r.Gesture)
		}
	}
}

func TestE2E_HandLeavesFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	results := replay(t, testdata.HandLost)

	for _, r := range results[5:8] {
		assert.False(t, r.HandPresent())
		assert.Equal(t, gesture.Unknown, r.Gesture)
		assert.Equal(t, dispatch.None, r.Action)
		assert.Equal(t, mode.Cursor, r.Mode, "mode is kept while no hand is seen")
	}
	assert.Equal(t, []dispatch.Token{dispatch.MoveCursor, dispatch.MoveCursor}, edges(results))
}

type recordingSink struct {
	mu     sync.Mutex
	events []plugin.Event
}

func (s *recordingSink) Send(_ context.Context, ev plugin.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestE2E_AppJournalsReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer s.Close()

	det, err := testdata.Replay(testdata.PinchDrag)
	require.NoError(t, err)

	engine := pipeline.NewEngine(pipeline.DefaultConfig(), nil, dispatch.DefaultTable(), nil)
	sink := &recordingSink{}
	a := app.New(app.Config{RepeatInterval: 0.25, Source: testdata.PinchDrag}, det, engine, sink, nil)
	a.SetJournal(s.Sessions())

	require.NoError(t, a.Run(context.Background()))

	events, err := s.Sessions().Events(a.Session().ID)
	require.NoError(t, err)
	var journaled []string
	for _, e := range events {
		journaled = append(journaled, e.Action)
	}
	assert.Equal(t, []string{"CLICK_LEFT", "DRAG_START", "DRAG_END", "MOVE_CURSOR"}, journaled)

	// DRAG_START is resent while held, DRAG_END fires once
	var starts, ends int
	for _, ev := range sink.events {
		switch ev.Action {
		case "DRAG_START":
			starts++
		case "DRAG_END":
			ends++
		}
	}
	assert.Greater(t, starts, 1)
	assert.Equal(t, 1, ends)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Mouse that logs calls instead of touching the screen.
type recorder struct {
	calls []string
}

func (r *recorder) Move(x, y int)       { r.log("move %d %d", x, y) }
func (r *recorder) Click(button string) { r.log("click %s", button) }

func (r *recorder) Button(button string, down bool) error {
	r.log("button %s %v", button, down)
	return nil
}

func (r *recorder) Scroll(step int, dir string) { r.log("scroll %d %s", step, dir) }

func (r *recorder) KeyTap(key string, modifier string) error {
	r.log("tap %s+%s", modifier, key)
	return nil
}

func (r *recorder) Key(key string, down bool) error {
	r.log("key %s %v", key, down)
	return nil
}

func (r *recorder) ScreenSize() (int, int) { return 1920, 1080 }

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func params(x, y float64) json.RawMessage {
	b, _ := json.Marshal(Params{X: x, Y: y})
	return b
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "move cursor",
			req:  Request{Action: "MOVE_CURSOR", Params: params(960.4, 539.6)},
			want: []string{"move 960 540"},
		},
		{
			name: "move is clamped to the screen",
			req:  Request{Action: "MOVE_CURSOR", Params: params(2500, -3)},
			want: []string{"move 1919 0"},
		},
		{
			name: "click without target stays put",
			req:  Request{Action: "CLICK_LEFT"},
			want: []string{"click left"},
		},
		{
			name: "right click at target",
			req:  Request{Action: "CLICK_RIGHT", Params: params(10, 20)},
			want: []string{"move 10 20", "click right"},
		},
		{
			name: "drag start holds the button and follows",
			req:  Request{Action: "DRAG_START", Params: params(100, 100)},
			want: []string{"button left true", "move 100 100"},
		},
		{
			name: "drag end releases",
			req:  Request{Action: "DRAG_END", Params: params(200, 100)},
			want: []string{"move 200 100", "button left false"},
		},
		{
			name: "scroll uses configured step",
			req:  Request{Action: "SCROLL_DOWN", Config: json.RawMessage(`{"scrollStep":5}`)},
			want: []string{"scroll 5 down"},
		},
		{
			name: "snap taps the arrow with the modifier",
			req:  Request{Action: "SNAP_LEFT"},
			want: []string{"tap cmd+left"},
		},
		{
			name: "move window drags with the modifier held",
			req:  Request{Action: "MOVE_WINDOW", Params: params(300, 400)},
			want: []string{"key alt true", "button left true", "move 300 400", "button left false", "key alt false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &recorder{}
			require.NoError(t, handle(m, tt.req))
			assert.Equal(t, tt.want, m.calls)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	t.Run("unknown action", func(t *testing.T) {
		err := handle(&recorder{}, Request{Action: "PLAY_PAUSE"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown action")
	})

	t.Run("move needs a target", func(t *testing.T) {
		m := &recorder{}
		err := handle(m, Request{Action: "MOVE_CURSOR"})
		assert.ErrorIs(t, err, errNoTarget)
		assert.Empty(t, m.calls)
	})

	t.Run("bad config", func(t *testing.T) {
		err := handle(&recorder{}, Request{Action: "SCROLL_UP", Config: json.RawMessage(`{"scrollStep":0}`)})
		assert.Error(t, err)
	})

	t.Run("bad params", func(t *testing.T) {
		err := handle(&recorder{}, Request{Action: "MOVE_CURSOR", Params: json.RawMessage(`[1,2]`)})
		assert.Error(t, err)
	})
}

func TestActionHandlers_CoverManifest(t *testing.T) {
	var manifest struct {
		Actions []string `json:"actions"`
	}
	raw, err := os.ReadFile("plugin.json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &manifest))
	require.NotEmpty(t, manifest.Actions)

	for _, action := range manifest.Actions {
		assert.Contains(t, actionHandlers, action)
	}
}

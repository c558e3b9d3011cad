package dispatch

import (
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mode"
)

// Table maps (mode, gesture, timing) to a token. The zero value maps
// everything to None.
type Table [mode.NumModes][gesture.NumLabels][NumTimings]Token

// Binding is one table entry.
type Binding struct {
	Mode    mode.Mode
	Gesture gesture.Label
	Timing  Timing
	Action  Token
}

var defaultBindings = []Binding{
	{mode.Cursor, gesture.Pointing, Quick, MoveCursor},
	{mode.Cursor, gesture.Pointing, Hold, MoveCursor},
	{mode.Cursor, gesture.Pointing, Long, MoveCursor},
	{mode.Cursor, gesture.Pinch, Quick, ClickLeft},
	{mode.Cursor, gesture.Pinch, Hold, DragStart},
	{mode.Cursor, gesture.Pinch, Long, DragStart},
	{mode.Cursor, gesture.TwoFingers, Quick, ScrollUp},
	{mode.Cursor, gesture.TwoFingers, Hold, ScrollUp},
	{mode.Cursor, gesture.Fist, Quick, ClickRight},
	{mode.Cursor, gesture.Palm, Quick, MoveCursor},
	{mode.Cursor, gesture.Palm, Hold, MoveCursor},
	{mode.Cursor, gesture.Palm, Long, MoveCursor},

	{mode.Window, gesture.Pointing, Quick, SnapLeft},
	{mode.Window, gesture.Pointing, Hold, SnapRight},
	{mode.Window, gesture.Palm, Quick, Maximize},
	{mode.Window, gesture.Palm, Hold, Minimize},
	{mode.Window, gesture.Fist, Quick, MoveWindow},
	{mode.Window, gesture.Fist, Hold, MoveWindow},
	{mode.Window, gesture.TwoFingers, Quick, SwitchWindow},

	{mode.Media, gesture.Palm, Quick, PlayPause},
	{mode.Media, gesture.Palm, Hold, Mute},
	{mode.Media, gesture.Pointing, Quick, NextTrack},
	{mode.Media, gesture.TwoFingers, Quick, VolumeUp},
	{mode.Media, gesture.TwoFingers, Hold, VolumeDown},
	{mode.Media, gesture.Fist, Quick, Mute},

	{mode.Shortcut, gesture.Pinch, Quick, Copy},
	{mode.Shortcut, gesture.Palm, Quick, Paste},
	{mode.Shortcut, gesture.TwoFingers, Quick, Cut},
	{mode.Shortcut, gesture.Pointing, Quick, Undo},
}

// DefaultTable returns the built-in bindings.
func DefaultTable() Table {
	var t Table
	for _, b := range defaultBindings {
		t.Set(b)
	}
	return t
}

func inRange(m mode.Mode, g gesture.Label, tm Timing) bool {
	return m >= 0 && m < mode.NumModes &&
		g >= 0 && g < gesture.NumLabels &&
		tm >= 0 && tm < NumTimings
}

// Lookup returns the token for the triple, or None when nothing is bound.
func (t *Table) Lookup(m mode.Mode, g gesture.Label, tm Timing) Token {
	if !inRange(m, g, tm) {
		return None
	}
	return t[m][g][tm]
}

// Set binds b.Action to its triple. Out-of-range entries are ignored.
func (t *Table) Set(b Binding) {
	if !inRange(b.Mode, b.Gesture, b.Timing) {
		return
	}
	t[b.Mode][b.Gesture][b.Timing] = b.Action
}

// Apply overlays bindings onto the table in order.
func (t *Table) Apply(bindings []Binding) {
	for _, b := range bindings {
		t.Set(b)
	}
}

// Bindings lists every non-None entry in mode, gesture, timing order.
func (t *Table) Bindings() []Binding {
	var out []Binding
	for m := range t {
		for g := range t[m] {
			for tm, tok := range t[m][g] {
				if tok != None {
					out = append(out, Binding{mode.Mode(m), gesture.Label(g), Timing(tm), tok})
				}
			}
		}
	}
	return out
}

// Package dispatch turns a (mode, gesture, timing) triple into an action
// token. It decides what should happen; a sink elsewhere makes it happen.
package dispatch

import (
	"fmt"
	"strings"
)

// Token names an OS-level action.
type Token int

// Action tokens.
const (
	None Token = iota
	MoveCursor
	ClickLeft
	ClickRight
	DragStart
	DragEnd
	ScrollUp
	ScrollDown
	SnapLeft
	SnapRight
	Maximize
	Minimize
	MoveWindow
	SwitchWindow
	PlayPause
	NextTrack
	PrevTrack
	VolumeUp
	VolumeDown
	Mute
	Copy
	Paste
	Cut
	Undo
	NumTokens
)

var tokenNames = [NumTokens]string{
	None:         "NONE",
	MoveCursor:   "MOVE_CURSOR",
	ClickLeft:    "CLICK_LEFT",
	ClickRight:   "CLICK_RIGHT",
	DragStart:    "DRAG_START",
	DragEnd:      "DRAG_END",
	ScrollUp:     "SCROLL_UP",
	ScrollDown:   "SCROLL_DOWN",
	SnapLeft:     "SNAP_LEFT",
	SnapRight:    "SNAP_RIGHT",
	Maximize:     "MAXIMIZE",
	Minimize:     "MINIMIZE",
	MoveWindow:   "MOVE_WINDOW",
	SwitchWindow: "SWITCH_WINDOW",
	PlayPause:    "PLAY_PAUSE",
	NextTrack:    "NEXT_TRACK",
	PrevTrack:    "PREV_TRACK",
	VolumeUp:     "VOLUME_UP",
	VolumeDown:   "VOLUME_DOWN",
	Mute:         "MUTE",
	Copy:         "COPY",
	Paste:        "PASTE",
	Cut:          "CUT",
	Undo:         "UNDO",
}

func (t Token) String() string {
	if t < 0 || t >= NumTokens {
		return tokenNames[None]
	}
	return tokenNames[t]
}

// ParseToken converts a name such as "play_pause" or "PLAY-PAUSE" to a Token.
func ParseToken(s string) (Token, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	for i, n := range tokenNames {
		if n == name {
			return Token(i), nil
		}
	}
	return None, fmt.Errorf("unknown action %q", s)
}

// Continuous reports whether the token describes an ongoing action that a
// sink should apply on every frame rather than once per change.
func (t Token) Continuous() bool {
	switch t {
	case MoveCursor, MoveWindow, DragStart, ScrollUp, ScrollDown, VolumeUp, VolumeDown:
		return true
	}
	return false
}

// Timing classifies how long the current gesture has been held.
type Timing int

// Timing classes.
const (
	Quick Timing = iota
	Hold
	Long
	NumTimings
)

var timingNames = [NumTimings]string{"QUICK", "HOLD", "LONG"}

func (t Timing) String() string {
	if t < 0 || t >= NumTimings {
		return timingNames[Quick]
	}
	return timingNames[t]
}

// ParseTiming converts a name such as "hold" to a Timing.
func ParseTiming(s string) (Timing, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range timingNames {
		if n == name {
			return Timing(i), nil
		}
	}
	return Quick, fmt.Errorf("unknown timing %q", s)
}

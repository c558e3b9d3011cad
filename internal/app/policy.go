package app

import (
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plugin"
)

// Policy decides which sink events a frame result produces.
//
// Discrete actions fire once on their edge. MOVE_CURSOR is sent on every
// frame that carries a cursor target. Other continuous actions fire on
// their edge and then every RepeatInterval seconds while held. Drag and
// window-move events carry the smoothed hand position so the sink can
// follow the hand. A fired dwell becomes a CLICK_LEFT.
type Policy struct {
	repeat   float64
	lastSent float64
}

// NewPolicy creates a Policy. repeat <= 0 resends held continuous
// actions on every frame.
func NewPolicy(repeat float64) *Policy {
	return &Policy{repeat: repeat}
}

// Events returns the events to send for r, in order.
func (p *Policy) Events(r pipeline.Result) []plugin.Event {
	var out []plugin.Event

	switch {
	case r.Action == dispatch.MoveCursor:
		if r.Cursor != nil {
			ev := event(r, r.Action)
			ev.Cursor = &plugin.CursorParams{X: r.Cursor.X, Y: r.Cursor.Y}
			out = append(out, ev)
		}
	case r.Action.Continuous():
		if r.Edge || r.Timestamp-p.lastSent >= p.repeat {
			p.lastSent = r.Timestamp
			out = append(out, event(r, r.Action))
		}
	case r.Edge && r.Action != dispatch.None:
		out = append(out, event(r, r.Action))
	}

	for i := range out {
		if follows(r.Action) && r.Smoothed != nil {
			out[i].Cursor = &plugin.CursorParams{X: r.Smoothed.X, Y: r.Smoothed.Y}
		}
	}

	if r.Dwell {
		ev := event(r, dispatch.ClickLeft)
		if r.Cursor != nil {
			ev.Cursor = &plugin.CursorParams{X: r.Cursor.X, Y: r.Cursor.Y}
		}
		out = append(out, ev)
	}
	return out
}

// follows reports whether the sink needs the hand position for tok.
func follows(tok dispatch.Token) bool {
	switch tok {
	case dispatch.DragStart, dispatch.DragEnd, dispatch.MoveWindow:
		return true
	}
	return false
}

func event(r pipeline.Result, action dispatch.Token) plugin.Event {
	return plugin.Event{
		Action:    action.String(),
		Mode:      r.Mode.String(),
		Gesture:   r.Gesture.String(),
		Timestamp: r.Timestamp,
	}
}

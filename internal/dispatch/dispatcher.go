package dispatch

import (
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mode"
)

// Config holds timing thresholds and the optional directional refinement.
type Config struct {
	QuickLimit float64 // seconds; elapsed below this is Quick
	HoldLimit  float64 // seconds; elapsed below this is Hold, otherwise Long

	// Directional picks SCROLL_UP/DOWN from vertical motion and
	// SNAP_LEFT/RIGHT from the screen half instead of the table's choice.
	Directional     bool
	ScrollThreshold float64 // px of vertical motion per frame before scroll direction follows it
	ScreenWidth     float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		QuickLimit:      0.3,
		HoldLimit:       1.0,
		ScrollThreshold: 4,
		ScreenWidth:     1920,
	}
}

// Dispatcher resolves one token per frame. It owns the gesture onset
// timestamp and the drag state, so each tracked hand needs its own.
type Dispatcher struct {
	config Config
	table  Table

	last     gesture.Label
	onset    float64
	lastT    float64
	primed   bool
	timing   Timing
	token    Token
	dragging bool

	prevY  float64
	hasPos bool
}

// NewDispatcher creates a Dispatcher over a copy of table.
func NewDispatcher(config Config, table Table) *Dispatcher {
	return &Dispatcher{config: config, table: table}
}

// Classify returns the timing class for elapsed seconds since onset.
// The boundaries are inclusive at the lower edge: exactly QuickLimit is Hold.
func (c Config) Classify(elapsed float64) Timing {
	switch {
	case elapsed < c.QuickLimit:
		return Quick
	case elapsed < c.HoldLimit:
		return Hold
	default:
		return Long
	}
}

// Dispatch returns the token for gesture g in mode m at time t. (x, y) is
// the dominant hand's screen position and only matters when Directional
// is set. A timestamp that does not advance repeats the previous token.
func (d *Dispatcher) Dispatch(m mode.Mode, g gesture.Label, x, y, t float64) Token {
	if d.primed && t <= d.lastT {
		return d.token
	}
	d.lastT = t

	if !d.primed || g != d.last {
		d.primed = true
		d.last = g
		d.onset = t
		d.timing = Quick
	} else {
		d.timing = d.config.Classify(t - d.onset)
	}

	tok := d.table.Lookup(m, g, d.timing)
	if d.config.Directional {
		tok = d.refine(tok, x, y)
	}
	if g == gesture.Unknown {
		// no position without a hand
		d.hasPos = false
	} else {
		d.prevY, d.hasPos = y, true
	}

	switch {
	case tok == DragStart:
		d.dragging = true
	case d.dragging:
		d.dragging = false
		tok = DragEnd
	}

	d.token = tok
	return tok
}

func (d *Dispatcher) refine(tok Token, x, y float64) Token {
	switch tok {
	case ScrollUp, ScrollDown:
		if !d.hasPos {
			return tok
		}
		dy := y - d.prevY
		if dy > d.config.ScrollThreshold {
			return ScrollDown
		}
		if dy < -d.config.ScrollThreshold {
			return ScrollUp
		}
	case SnapLeft, SnapRight:
		if x < d.config.ScreenWidth/2 {
			return SnapLeft
		}
		return SnapRight
	}
	return tok
}

// Timing returns the timing class computed for the last dispatched frame.
func (d *Dispatcher) Timing() Timing {
	return d.timing
}

// Last returns the last dispatched token.
func (d *Dispatcher) Last() Token {
	return d.token
}

// Dragging reports whether a drag is in progress.
func (d *Dispatcher) Dragging() bool {
	return d.dragging
}

// SetTable replaces the binding table. Timing state is kept.
func (d *Dispatcher) SetTable(table Table) {
	d.table = table
}

// Reset clears the onset, drag and position state.
func (d *Dispatcher) Reset() {
	*d = Dispatcher{config: d.config, table: d.table}
}

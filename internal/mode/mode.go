// Package mode infers the user's intent (cursor, window, media or shortcut
// control) from where the dominant hand is and what the other hand holds.
package mode

import (
	"fmt"
	"math"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
)

// Mode is a context mode.
type Mode int

// Context modes. The order fixes their index in dispatch tables.
const (
	Cursor Mode = iota
	Window
	Media
	Shortcut
	NumModes
)

// Info describes a mode for display.
type Info struct {
	Name        string
	Description string
	Color       string // hex RGB
}

var infos = [NumModes]Info{
	Cursor:   {Name: "CURSOR", Description: "Pointer control", Color: "#00FFFF"},
	Window:   {Name: "WINDOW", Description: "Window management", Color: "#FF00FF"},
	Media:    {Name: "MEDIA", Description: "Playback and volume", Color: "#00FF00"},
	Shortcut: {Name: "SHORTCUT", Description: "Keyboard shortcuts", Color: "#FFFF00"},
}

// String returns the upper-case mode name.
func (m Mode) String() string {
	return m.Info().Name
}

// Info returns display information for the mode.
func (m Mode) Info() Info {
	if m < 0 || m >= NumModes {
		return infos[Cursor]
	}
	return infos[m]
}

// ParseMode converts a name such as "media" to a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, info := range infos {
		if info.Name == name {
			return Mode(i), nil
		}
	}
	return Cursor, fmt.Errorf("unknown mode %q", s)
}

// Config holds zone and hold thresholds. Positions are normalized image units.
type Config struct {
	MediaTop      float64 // dominant y above this selects Media
	EdgeMargin    float64 // distance from left, right or bottom edge selecting Window
	ShortcutHold  float64 // seconds the secondary fist must stay still
	ShortcutStill float64 // max mean per-frame L1 displacement counted as still
	HistorySize   int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MediaTop:      0.20,
		EdgeMargin:    0.10,
		ShortcutHold:  0.8,
		ShortcutStill: 0.03,
		HistorySize:   10,
	}
}

// Hand is the per-frame view of one hand the detector needs.
type Hand struct {
	X, Y    float64
	Gesture gesture.Label
	Present bool
}

// Detector tracks the context mode for one user. It is not safe for
// concurrent use.
type Detector struct {
	config Config

	current     Mode
	onset       float64
	lastGesture gesture.Label
	history     []point
	lastT       float64
	primed      bool
}

type point struct{ x, y float64 }

// NewDetector creates a new Detector in Cursor mode.
func NewDetector(config Config) *Detector {
	if config.HistorySize < 2 {
		config.HistorySize = 2
	}
	return &Detector{
		config:      config,
		current:     Cursor,
		lastGesture: gesture.Unknown,
		history:     make([]point, 0, config.HistorySize),
	}
}

// Update evaluates one frame at time t (seconds) and returns the mode.
// Frames whose timestamp does not advance leave the state untouched.
//
// Priority: a held, still secondary fist selects Shortcut; then the
// dominant hand's position selects Media (top band), Window (left, right
// or bottom margin) or Cursor.
func (d *Detector) Update(dominant, secondary Hand, t float64) Mode {
	if d.primed && t <= d.lastT {
		return d.current
	}
	if !d.primed {
		d.onset = t
		d.primed = true
	}
	d.lastT = t

	if d.shortcutHeld(secondary, t) {
		d.current = Shortcut
		return d.current
	}

	if !dominant.Present {
		if d.current == Shortcut {
			d.current = Cursor
		}
		return d.current
	}

	x, y := dominant.X, dominant.Y
	margin := d.config.EdgeMargin
	switch {
	case y < d.config.MediaTop:
		d.current = Media
	case x < margin || x > 1-margin || y > 1-margin:
		d.current = Window
	default:
		d.current = Cursor
	}
	return d.current
}

// shortcutHeld updates the secondary-hand hold state and reports whether
// the fist has been still for long enough.
func (d *Detector) shortcutHeld(h Hand, t float64) bool {
	isFist := h.Present && h.Gesture == gesture.Fist
	label := gesture.Unknown
	if h.Present {
		label = h.Gesture
	}
	started := isFist && d.lastGesture != gesture.Fist
	d.lastGesture = label

	if !isFist || started {
		d.onset = t
		d.history = d.history[:0]
		if !isFist {
			return false
		}
	}

	if len(d.history) == d.config.HistorySize {
		copy(d.history, d.history[1:])
		d.history = d.history[:len(d.history)-1]
	}
	d.history = append(d.history, point{h.X, h.Y})

	if d.meanDisplacement() > d.config.ShortcutStill {
		d.onset = t
		return false
	}
	return t-d.onset >= d.config.ShortcutHold
}

// meanDisplacement is the average L1 distance between consecutive history entries.
func (d *Detector) meanDisplacement() float64 {
	if len(d.history) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(d.history); i++ {
		total += math.Abs(d.history[i].x-d.history[i-1].x) + math.Abs(d.history[i].y-d.history[i-1].y)
	}
	return total / float64(len(d.history)-1)
}

// Current returns the last reported mode.
func (d *Detector) Current() Mode {
	return d.current
}

// Reset returns the detector to Cursor mode with no history.
func (d *Detector) Reset() {
	d.current = Cursor
	d.lastGesture = gesture.Unknown
	d.history = d.history[:0]
	d.primed = false
}

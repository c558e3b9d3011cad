// Package pipeline runs one frame of hand landmarks through classification,
// mode detection, dispatch, mapping and smoothing.
//
// An Engine is single-threaded and owns all per-hand state. Callers that
// track several users run one Engine each.
package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/dwell"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/mode"
)

// Auto asks the engine to pick the dominant hand itself.
const Auto = -1

// Config gathers the settings of every stage.
type Config struct {
	Gesture  gesture.Config
	Debounce int // consecutive frames before a label change is accepted; 0 or 1 disables
	Mode     mode.Config
	Dispatch dispatch.Config
	Mapping  mapping.Config
	Filter   filter.Config
	Dwell    dwell.Config

	DwellEnabled bool
	ClickFreeze  float64 // seconds the cursor is held after a click
	DominantHand string  // handedness preferred when Frame.Dominant is Auto
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Gesture:      gesture.DefaultConfig(),
		Mode:         mode.DefaultConfig(),
		Dispatch:     dispatch.DefaultConfig(),
		Mapping:      mapping.DefaultConfig(),
		Filter:       filter.DefaultConfig(),
		Dwell:        dwell.DefaultConfig(),
		ClickFreeze:  0.2,
		DominantHand: "Right",
	}
}

// Frame is the engine input: the hands seen at one instant.
type Frame struct {
	Hands     []detector.HandLandmarks
	Dominant  int // index into Hands, or Auto
	Timestamp float64
}

// FromDetector wraps a detector frame with automatic dominant-hand selection.
func FromDetector(f detector.Frame) Frame {
	return Frame{Hands: f.Hands, Dominant: Auto, Timestamp: f.Timestamp}
}

// Toggles are runtime switches supplied with each frame.
type Toggles struct {
	CursorFrozen  bool // never emit a cursor target
	ActionsPaused bool // report every action other than MOVE_CURSOR as NONE
}

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Result is the engine output for one frame.
type Result struct {
	Timestamp  float64
	Mode       mode.Mode
	Gesture    gesture.Label
	Confidence float64
	Timing     dispatch.Timing
	Action     dispatch.Token

	// Edge is true when Action differs from the previous frame's.
	Edge bool

	// Cursor is the pointer target, set only when Action is MOVE_CURSOR
	// and the cursor is neither frozen nor in a post-click hold.
	Cursor *Point

	// Raw and Smoothed are the mapped and filtered tracked point, set
	// whenever a valid dominant hand is present.
	Raw      *Point
	Smoothed *Point

	Dwell         bool
	DwellProgress float64
}

// HandPresent reports whether the frame had a usable dominant hand.
func (r Result) HandPresent() bool {
	return r.Raw != nil
}

// Engine holds the per-hand state of every stage.
type Engine struct {
	config Config
	logger *zap.Logger

	classifier *gesture.Classifier
	debouncer  *gesture.Debouncer
	modes      *mode.Detector
	dispatcher *dispatch.Dispatcher
	mapper     *mapping.Mapper
	smoother   *filter.Smoother
	dwell      *dwell.Detector

	lastMode    mode.Mode
	lastAction  dispatch.Token
	freezeUntil float64
}

// NewEngine creates an Engine. calib may be nil for an uncalibrated mapper.
func NewEngine(config Config, calib *mapping.Calibration, table dispatch.Table, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		config:     config,
		logger:     logger,
		classifier: gesture.NewClassifier(config.Gesture),
		modes:      mode.NewDetector(config.Mode),
		dispatcher: dispatch.NewDispatcher(config.Dispatch, table),
		mapper:     mapping.NewMapper(config.Mapping, calib),
		smoother:   filter.New(config.Filter),
		dwell:      dwell.NewDetector(config.Dwell),
	}
	if config.Debounce > 1 {
		e.debouncer = gesture.NewDebouncer(config.Debounce)
	}
	return e
}

// ProcessFrame runs one frame through every stage. It never fails: an
// empty or malformed frame yields UNKNOWN, NONE or the previous mode.
func (e *Engine) ProcessFrame(f Frame, toggles Toggles) Result {
	t := f.Timestamp
	res := Result{Timestamp: t, Gesture: gesture.Unknown}

	var dominant, secondary mode.Hand
	var sx, sy float64

	dom := e.dominantIndex(f)
	if dom >= 0 {
		hand := &f.Hands[dom]
		ev := e.classifier.Evaluate(hand)
		res.Gesture, res.Confidence = e.debounce(ev.Label), ev.Confidence

		if hand.Valid() {
			p := trackedPoint(hand, res.Gesture)
			dominant = mode.Hand{X: p.X, Y: p.Y, Gesture: res.Gesture, Present: true}

			sx, sy = e.mapper.Map(p.X, p.Y)
			fx, fy := e.smoother.Filter(sx, sy, t)
			res.Raw = &Point{X: sx, Y: sy}
			res.Smoothed = &Point{X: fx, Y: fy}
		}
		secondary = e.secondaryHand(f.Hands, dom)
	} else if e.debouncer != nil {
		e.debouncer.Reset()
	}

	res.Mode = e.modes.Update(dominant, secondary, t)
	if res.Mode != e.lastMode {
		e.logger.Debug("mode changed",
			zap.Stringer("from", e.lastMode),
			zap.Stringer("to", res.Mode),
			zap.Float64("t", t))
		e.lastMode = res.Mode
	}

	res.Action = e.dispatcher.Dispatch(res.Mode, res.Gesture, sx, sy, t)
	res.Timing = e.dispatcher.Timing()
	if toggles.ActionsPaused && res.Action != dispatch.MoveCursor {
		res.Action = dispatch.None
	}
	res.Edge = res.Action != e.lastAction
	e.lastAction = res.Action

	if res.Edge && (res.Action == dispatch.ClickLeft || res.Action == dispatch.ClickRight) {
		e.freezeUntil = t + e.config.ClickFreeze
	}

	if res.Action == dispatch.MoveCursor && res.Smoothed != nil && !toggles.CursorFrozen && t >= e.freezeUntil {
		c := *res.Smoothed
		res.Cursor = &c
	}

	e.updateDwell(&res)
	return res
}

func (e *Engine) updateDwell(res *Result) {
	if !e.config.DwellEnabled {
		return
	}
	if res.Cursor == nil || res.Mode != mode.Cursor {
		e.dwell.Reset()
		return
	}
	res.Dwell, res.DwellProgress = e.dwell.Update(res.Cursor.X, res.Cursor.Y, res.Timestamp)
}

func (e *Engine) debounce(l gesture.Label) gesture.Label {
	if e.debouncer == nil {
		return l
	}
	return e.debouncer.Update(l)
}

// dominantIndex returns the dominant hand's index or -1 when there are no hands.
func (e *Engine) dominantIndex(f Frame) int {
	if len(f.Hands) == 0 {
		return -1
	}
	if f.Dominant >= 0 && f.Dominant < len(f.Hands) {
		return f.Dominant
	}
	if e.config.DominantHand != "" {
		for i := range f.Hands {
			if strings.EqualFold(f.Hands[i].Handedness, e.config.DominantHand) {
				return i
			}
		}
	}
	return 0
}

// secondaryHand returns the first valid hand other than the dominant one,
// located by its palm centre.
func (e *Engine) secondaryHand(hands []detector.HandLandmarks, dom int) mode.Hand {
	for i := range hands {
		if i == dom || !hands[i].Valid() {
			continue
		}
		c := geometry.PalmCenter(&hands[i])
		return mode.Hand{X: c.X, Y: c.Y, Gesture: e.classifier.Classify(&hands[i]), Present: true}
	}
	return mode.Hand{}
}

// trackedPoint is the palm centre for an open palm and the index tip otherwise.
func trackedPoint(h *detector.HandLandmarks, l gesture.Label) detector.Point3D {
	if l == gesture.Palm {
		return geometry.PalmCenter(h)
	}
	return h.Points[detector.IndexTip]
}

// Mode returns the last reported mode.
func (e *Engine) Mode() mode.Mode {
	return e.lastMode
}

// Mapper returns the engine's mapper, including its calibration.
func (e *Engine) Mapper() *mapping.Mapper {
	return e.mapper
}

// SetTable replaces the dispatch bindings.
func (e *Engine) SetTable(table dispatch.Table) {
	e.dispatcher.SetTable(table)
}

// SetSmoothing adjusts the adaptive filter stage (1 = least smoothing).
func (e *Engine) SetSmoothing(level int) {
	e.smoother.SetSmoothing(level)
}

// Reset clears all per-hand state.
func (e *Engine) Reset() {
	e.modes.Reset()
	e.dispatcher.Reset()
	e.smoother.Reset()
	e.dwell.Reset()
	if e.debouncer != nil {
		e.debouncer.Reset()
	}
	e.lastMode = mode.Cursor
	e.lastAction = dispatch.None
	e.freezeUntil = 0
}

// Close releases native filter state. The Engine must not be used afterwards.
func (e *Engine) Close() {
	e.smoother.Close()
}

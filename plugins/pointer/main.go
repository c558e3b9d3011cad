// Package main is the pointer plugin. It moves, clicks, drags and scrolls
// the system pointer with robotgo, and snaps windows with the platform's
// snap keystroke.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-vgo/robotgo"
)

// Request is the input from the plugin executor.
type Request struct {
	Action    string          `json:"action"`
	Mode      string          `json:"mode"`
	Gesture   string          `json:"gesture"`
	Timestamp float64         `json:"timestamp"`
	Config    json.RawMessage `json:"config"`
	Params    json.RawMessage `json:"params"`
}

// Response is the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Params is the screen position sent with pointer actions.
type Params struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config is read from the manifest's config object.
type Config struct {
	ScrollStep   int    `json:"scrollStep"`
	SnapModifier string `json:"snapModifier"`
	MoveModifier string `json:"moveModifier"`
}

var errNoTarget = errors.New("action needs a pointer target")

// Mouse is the subset of robotgo the handlers use.
type Mouse interface {
	Move(x, y int)
	Click(button string)
	Button(button string, down bool) error
	Scroll(step int, dir string)
	KeyTap(key string, modifier string) error
	Key(key string, down bool) error
	ScreenSize() (int, int)
}

type robot struct{}

func (robot) Move(x, y int)       { robotgo.Move(x, y) }
func (robot) Click(button string) { robotgo.Click(button) }

func (robot) Button(button string, down bool) error {
	if down {
		return robotgo.Toggle(button)
	}
	return robotgo.Toggle(button, "up")
}

func (robot) Scroll(step int, dir string) { robotgo.ScrollDir(step, dir) }

func (robot) KeyTap(key string, modifier string) error {
	if modifier == "" {
		return robotgo.KeyTap(key)
	}
	return robotgo.KeyTap(key, modifier)
}

func (robot) Key(key string, down bool) error {
	if down {
		return robotgo.KeyToggle(key)
	}
	return robotgo.KeyToggle(key, "up")
}

func (robot) ScreenSize() (int, int) { return robotgo.GetScreenSize() }

type actionHandler func(m Mouse, cfg Config, target *Params) error

var actionHandlers = map[string]actionHandler{
	"MOVE_CURSOR": moveCursor,
	"CLICK_LEFT":  click("left"),
	"CLICK_RIGHT": click("right"),
	"DRAG_START":  dragStart,
	"DRAG_END":    dragEnd,
	"SCROLL_UP":   scroll("up"),
	"SCROLL_DOWN": scroll("down"),
	"SNAP_LEFT":   snap("left"),
	"SNAP_RIGHT":  snap("right"),
	"MOVE_WINDOW": moveWindow,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}
	if err := handle(robot{}, req); err != nil {
		writeErrorResponse(err.Error())
		return
	}
	writeSuccessResponse()
}

func handle(m Mouse, req Request) error {
	handler, ok := actionHandlers[req.Action]
	if !ok {
		return fmt.Errorf("unknown action: %s", req.Action)
	}
	cfg, err := parseConfig(req.Config)
	if err != nil {
		return err
	}
	target, err := parseParams(req.Params)
	if err != nil {
		return err
	}
	if err := handler(m, cfg, target); err != nil {
		return fmt.Errorf("action %s failed: %w", req.Action, err)
	}
	return nil
}

func parseConfig(raw json.RawMessage) (Config, error) {
	cfg := Config{ScrollStep: 3, SnapModifier: "cmd", MoveModifier: "alt"}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ScrollStep <= 0 {
		return cfg, fmt.Errorf("scrollStep must be positive, got %d", cfg.ScrollStep)
	}
	return cfg, nil
}

// parseParams returns nil when the request carries no position.
func parseParams(raw json.RawMessage) (*Params, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p Params
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse params: %w", err)
	}
	return &p, nil
}

// moveTo puts the pointer on target, clamped to the screen.
func moveTo(m Mouse, target *Params) {
	if target == nil {
		return
	}
	w, h := m.ScreenSize()
	m.Move(clamp(target.X, w), clamp(target.Y, h))
}

func clamp(v float64, size int) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if size > 0 && v > float64(size-1) {
		return size - 1
	}
	return int(math.Round(v))
}

func moveCursor(m Mouse, _ Config, target *Params) error {
	if target == nil {
		return errNoTarget
	}
	moveTo(m, target)
	return nil
}

func click(button string) actionHandler {
	return func(m Mouse, _ Config, target *Params) error {
		moveTo(m, target)
		m.Click(button)
		return nil
	}
}

// dragStart is resent while the drag is held; pressing an already held
// button is harmless, so each call follows the hand with the button down.
func dragStart(m Mouse, _ Config, target *Params) error {
	if err := m.Button("left", true); err != nil {
		return err
	}
	moveTo(m, target)
	return nil
}

func dragEnd(m Mouse, _ Config, target *Params) error {
	moveTo(m, target)
	return m.Button("left", false)
}

func scroll(dir string) actionHandler {
	return func(m Mouse, cfg Config, _ *Params) error {
		m.Scroll(cfg.ScrollStep, dir)
		return nil
	}
}

func snap(key string) actionHandler {
	return func(m Mouse, cfg Config, _ *Params) error {
		return m.KeyTap(key, cfg.SnapModifier)
	}
}

// moveWindow drags the window under the pointer to target with the
// window manager's move modifier held.
func moveWindow(m Mouse, cfg Config, target *Params) error {
	if target == nil {
		return errNoTarget
	}
	if err := m.Key(cfg.MoveModifier, true); err != nil {
		return err
	}
	defer m.Key(cfg.MoveModifier, false)

	if err := m.Button("left", true); err != nil {
		return err
	}
	moveTo(m, target)
	return m.Button("left", false)
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// Package plugin runs action plugins: executables that take one JSON
// request on stdin and answer with one JSON response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Manifest describes a plugin's metadata and the action tokens it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	Config       json.RawMessage `json:"config,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is sent to a plugin for one action.
type Request struct {
	Action    string          `json:"action"`
	Mode      string          `json:"mode"`
	Gesture   string          `json:"gesture"`
	Timestamp float64         `json:"timestamp"`
	Config    json.RawMessage `json:"config,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// Response is a plugin's answer.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CursorParams carries the pointer target for MOVE_CURSOR and drag actions.
type CursorParams struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin declares action.
func (p *Plugin) Handles(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}

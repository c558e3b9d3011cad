// Package main is the system-control plugin for macOS. It handles media
// playback and volume action tokens via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
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

// Config is read from the manifest's config object.
type Config struct {
	VolumeStep int `json:"volumeStep"`
}

type actionHandler func(Config) error

var actionHandlers = map[string]actionHandler{
	"VOLUME_UP":   volumeUp,
	"VOLUME_DOWN": volumeDown,
	"MUTE":        volumeMute,
	"PLAY_PAUSE":  mediaKey(100),
	"NEXT_TRACK":  mediaKey(101),
	"PREV_TRACK":  mediaKey(98),
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	cfg, err := parseConfig(req.Config)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if err := handler(cfg); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}
	writeSuccessResponse()
}

func parseConfig(raw json.RawMessage) (Config, error) {
	cfg := Config{VolumeStep: 6}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.VolumeStep <= 0 || cfg.VolumeStep > 100 {
		return cfg, fmt.Errorf("volumeStep must be in 1..100, got %d", cfg.VolumeStep)
	}
	return cfg, nil
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func volumeScript(delta int) string {
	return fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) + %d)`, delta)
}

func volumeUp(cfg Config) error {
	return runAppleScript(volumeScript(cfg.VolumeStep))
}

func volumeDown(cfg Config) error {
	return runAppleScript(volumeScript(-cfg.VolumeStep))
}

// volumeMute toggles the output mute state.
func volumeMute(Config) error {
	return runAppleScript(`set volume output muted (not (output muted of (get volume settings)))`)
}

// mediaKey presses a function-row media key by key code.
func mediaKey(code int) actionHandler {
	return func(Config) error {
		return runAppleScript(fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code))
	}
}

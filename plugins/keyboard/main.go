// Package main is the keyboard plugin for macOS. It turns shortcut and
// window action tokens into keystrokes sent through System Events.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
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

// Keystroke is one key with its modifiers (command, option, control, shift).
type Keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// defaultShortcuts maps action tokens to keystrokes. The manifest's config
// object may override any entry by token name.
var defaultShortcuts = map[string]Keystroke{
	"COPY":          {Key: "c", Modifiers: []string{"cmd"}},
	"PASTE":         {Key: "v", Modifiers: []string{"cmd"}},
	"CUT":           {Key: "x", Modifiers: []string{"cmd"}},
	"UNDO":          {Key: "z", Modifiers: []string{"cmd"}},
	"SWITCH_WINDOW": {Key: "`", Modifiers: []string{"cmd"}},
	"MINIMIZE":      {Key: "m", Modifiers: []string{"cmd"}},
	"MAXIMIZE":      {Key: "f", Modifiers: []string{"cmd", "ctrl"}},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	ks, err := resolve(req)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if err := runAppleScript(buildKeystrokeScript(ks)); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}
	writeSuccessResponse()
}

// resolve picks the keystroke for req.Action, preferring config overrides.
func resolve(req Request) (Keystroke, error) {
	if len(req.Config) > 0 {
		var overrides map[string]Keystroke
		if err := json.Unmarshal(req.Config, &overrides); err != nil {
			return Keystroke{}, fmt.Errorf("failed to parse config: %w", err)
		}
		if ks, ok := overrides[req.Action]; ok {
			if ks.Key == "" {
				return Keystroke{}, fmt.Errorf("key is required for %s", req.Action)
			}
			return ks, nil
		}
	}
	ks, ok := defaultShortcuts[req.Action]
	if !ok {
		return Keystroke{}, fmt.Errorf("unknown action: %s", req.Action)
	}
	return ks, nil
}

func buildKeystrokeScript(ks Keystroke) string {
	var appleModifiers []string
	for _, mod := range ks.Modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, ks.Key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`,
		ks.Key, strings.Join(appleModifiers, ", "))
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

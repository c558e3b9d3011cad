// Package testdata embeds landmark recordings used by end-to-end tests.
package testdata

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

//go:embed recordings/*.ndjson
var recordingsFS embed.FS

// Recording names, without the .ndjson extension.
const (
	PointingCenter = "pointing_center" // index tip held at the camera centre
	PinchClick     = "pinch_click"     // point, pinch for 0.1 s, point again
	PinchDrag      = "pinch_drag"      // pinch held 1.3 s, then point
	MediaPalm      = "media_palm"      // open palm in the top band
	ShortcutCopy   = "shortcut_copy"   // still left fist, right hand points then pinches
	HandLost       = "hand_lost"       // pointing with three empty frames in the middle
)

// LoadRecording returns the raw NDJSON of a recording.
func LoadRecording(name string) ([]byte, error) {
	data, err := recordingsFS.ReadFile("recordings/" + name + ".ndjson")
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", name, err)
	}
	return data, nil
}

// Replay returns a detector that plays back a recording.
func Replay(name string) (*detector.ReplayDetector, error) {
	data, err := LoadRecording(name)
	if err != nil {
		return nil, err
	}
	return detector.NewReplayDetector(bytes.NewReader(data)), nil
}

// Recordings lists every embedded recording name in sorted order.
func Recordings() []string {
	entries, err := fs.ReadDir(recordingsFS, "recordings")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".ndjson"))
	}
	sort.Strings(names)
	return names
}

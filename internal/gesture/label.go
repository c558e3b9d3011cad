// Package gesture classifies a single hand pose into a discrete gesture label.
package gesture

import (
	"fmt"
	"strings"
)

// Label is a static hand pose.
type Label int

// Gesture labels. The order fixes their index in dispatch tables.
const (
	Unknown Label = iota
	Pointing
	Pinch
	Palm
	Fist
	TwoFingers
	ThumbsUp
	ThumbsDown
	NumLabels
)

var labelNames = [NumLabels]string{
	Unknown:    "UNKNOWN",
	Pointing:   "POINTING",
	Pinch:      "PINCH",
	Palm:       "PALM",
	Fist:       "FIST",
	TwoFingers: "TWO_FINGERS",
	ThumbsUp:   "THUMBS_UP",
	ThumbsDown: "THUMBS_DOWN",
}

// String returns the upper-case label name, e.g. "TWO_FINGERS".
func (l Label) String() string {
	if l < 0 || l >= NumLabels {
		return labelNames[Unknown]
	}
	return labelNames[l]
}

// ParseLabel converts a name such as "pinch" or "TWO_FINGERS" to a Label.
func ParseLabel(s string) (Label, error) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown gesture %q", s)
}

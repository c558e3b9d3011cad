package detector

import (
	"context"
	"errors"
	"time"
)

// ErrSourceClosed is returned by Next after the detector has been closed.
var ErrSourceClosed = errors.New("landmark source closed")

// Frame is one landmark delivery: every hand seen at a single instant.
// Hands is empty when nothing was detected.
type Frame struct {
	Hands     []HandLandmarks `json:"hands"`
	Timestamp float64         `json:"timestamp"` // seconds
}

// Detector defines the interface for landmark sources.
type Detector interface {
	// Next blocks until the next frame is available or ctx is done.
	// Returns io.EOF when a finite source is exhausted.
	Next(ctx context.Context) (Frame, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands kept per frame (default: 2).
	MaxHands int

	// MinConfidence drops hands whose score is below this threshold (0.0-1.0).
	MinConfidence float64

	// Camera is the device index the service opens.
	Camera int

	// Script overrides the landmark service script location.
	Script string

	// Python overrides the interpreter used to run Script.
	Python string

	// IdleShutdown stops the service after this long without a Next call.
	// Zero disables the idle timer.
	IdleShutdown time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      2,
		MinConfidence: 0.5,
		IdleShutdown:  30 * time.Second,
	}
}

// filterHands applies MaxHands and MinConfidence to a decoded frame.
func (c Config) filterHands(hands []HandLandmarks) []HandLandmarks {
	kept := hands[:0]
	for _, h := range hands {
		if h.Score < c.MinConfidence {
			continue
		}
		kept = append(kept, h)
		if c.MaxHands > 0 && len(kept) == c.MaxHands {
			break
		}
	}
	return kept
}

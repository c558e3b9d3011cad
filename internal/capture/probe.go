package capture

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

// ProbeConfig controls a camera check.
type ProbeConfig struct {
	Frames          int     // frames to read
	MotionThreshold float64 // changed-pixel fraction counted as motion
	Snapshot        string  // if set, the last frame is written here
}

// DefaultProbeConfig returns a ProbeConfig with sensible default values.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{Frames: 60, MotionThreshold: 0.01}
}

// ProbeResult summarises a camera check.
type ProbeResult struct {
	Frames        int
	Width, Height int
	FPS           float64 // measured
	MotionFrames  int     // frames above the motion threshold
	MaxChange     float64 // largest changed-pixel fraction seen
}

// SeesMotion reports whether any frame registered motion.
func (r ProbeResult) SeesMotion() bool {
	return r.MotionFrames > 0
}

// Probe opens cam, reads cfg.Frames frames and measures frame rate and
// motion. The camera is closed before Probe returns.
func Probe(ctx context.Context, cam Camera, cfg ProbeConfig) (ProbeResult, error) {
	var res ProbeResult
	if cfg.Frames <= 0 {
		return res, fmt.Errorf("frame count must be positive, got %d", cfg.Frames)
	}

	if err := cam.Open(); err != nil {
		return res, err
	}
	defer cam.Close()

	motion := NewMotionDetector(cfg.MotionThreshold)
	defer motion.Close()

	last := gocv.NewMat()
	defer last.Close()

	start := time.Now()
	for res.Frames < cfg.Frames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		frame, err := cam.ReadFrame()
		if err != nil {
			return res, fmt.Errorf("frame %d: %w", res.Frames+1, err)
		}

		res.Frames++
		res.Width, res.Height = frame.Cols(), frame.Rows()
		moved, changed := motion.Detect(frame)
		if moved {
			res.MotionFrames++
		}
		if changed > res.MaxChange {
			res.MaxChange = changed
		}
		frame.CopyTo(&last)
		frame.Close()
	}
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		res.FPS = float64(res.Frames) / elapsed
	}

	if cfg.Snapshot != "" {
		if ok := gocv.IMWrite(cfg.Snapshot, last); !ok {
			return res, fmt.Errorf("write snapshot %s", cfg.Snapshot)
		}
	}
	return res, nil
}

package app

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/detector"
)

type frameResult struct {
	frame detector.Frame
	err   error
}

// runPipeline is the main loop.
//
//  1. A reader goroutine pulls frames from the detector.
//  2. Each frame goes through the engine and its actions are performed.
//  3. When no frame arrives within HandLostTimeout an empty frame is fed
//     so held gestures end and the cursor stops.
//  4. io.EOF or ErrSourceClosed ends the loop without error.
func (a *App) runPipeline(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan frameResult)
	go a.readFrames(ctx, frames)

	var lost <-chan time.Time
	var timer *time.Timer
	if a.config.HandLostTimeout > 0 {
		timer = time.NewTimer(a.config.HandLostTimeout)
		defer timer.Stop()
		lost = timer.C
	}
	lastWall := time.Now()
	// Nothing is lost before the first frame.
	handLost := true

	for {
		select {
		case <-ctx.Done():
			return nil

		case fr := <-frames:
			if fr.err != nil {
				if errors.Is(fr.err, io.EOF) || errors.Is(fr.err, detector.ErrSourceClosed) || ctx.Err() != nil {
					return nil
				}
				return fr.err
			}
			lastWall = time.Now()
			handLost = false
			a.handle(ctx, fr.frame)
			if timer != nil {
				resetTimer(timer, a.config.HandLostTimeout)
			}

		case <-lost:
			// Only the first timeout after a frame produces an empty frame.
			if !handLost {
				handLost = true
				t := a.lastT + time.Since(lastWall).Seconds()
				a.logger.Debug("hand lost", zap.Float64("t", t))
				a.handle(ctx, detector.Frame{Timestamp: t})
			}
			timer.Reset(a.config.HandLostTimeout)
		}
	}
}

// readFrames forwards detector frames until an error, which it forwards last.
func (a *App) readFrames(ctx context.Context, out chan<- frameResult) {
	for {
		f, err := a.detector.Next(ctx)
		select {
		case out <- frameResult{frame: f, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

package detector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// ReplayDetector implements Detector over a recorded NDJSON stream.
// Frames are returned as fast as they are requested; timestamps come
// from the recording.
type ReplayDetector struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	mu      sync.Mutex
	closed  bool
}

// NewReplayDetector creates a detector reading frames from r.
// If r is an io.Closer it is closed by Close.
func NewReplayDetector(r io.Reader) *ReplayDetector {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	d := &ReplayDetector{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// Next returns the next recorded frame, or io.EOF at the end of the stream.
// Blank lines are skipped.
func (d *ReplayDetector) Next(ctx context.Context) (Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Frame{}, ErrSourceClosed
	}

	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		if !d.scanner.Scan() {
			if err := d.scanner.Err(); err != nil {
				return Frame{}, fmt.Errorf("read recording: %w", err)
			}
			return Frame{}, io.EOF
		}
		d.line++

		line := d.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frame, err := DecodeFrame(line)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", d.line, err)
		}
		return frame, nil
	}
}

// Close releases the underlying reader.
func (d *ReplayDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// Recorder wraps a Detector and tees every frame it returns to w as NDJSON.
type Recorder struct {
	Detector
	w  io.Writer
	mu sync.Mutex
}

// NewRecorder creates a Recorder around d.
func NewRecorder(d Detector, w io.Writer) *Recorder {
	return &Recorder{Detector: d, w: w}
}

// Next returns the wrapped detector's next frame after recording it.
func (r *Recorder) Next(ctx context.Context) (Frame, error) {
	frame, err := r.Detector.Next(ctx)
	if err != nil {
		return frame, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := EncodeFrame(r.w, frame); err != nil {
		return frame, fmt.Errorf("record frame: %w", err)
	}
	return frame, nil
}

// ReadAll drains d and returns every frame until io.EOF.
func ReadAll(ctx context.Context, d Detector) ([]Frame, error) {
	var frames []Frame
	for {
		frame, err := d.Next(ctx)
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
}

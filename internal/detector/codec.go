package detector

import (
	"encoding/json"
	"fmt"
	"io"
)

// jsonFrame is one NDJSON line as written by the landmark service and by Recorder.
type jsonFrame struct {
	Timestamp float64    `json:"timestamp"`
	Hands     []jsonHand `json:"hands"`
}

// jsonHand keeps points as a slice so short or partial hands survive decoding.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	points := make([]Point3D, len(h.Points))
	for i, p := range h.Points {
		points[i] = Point3D{X: p.X, Y: p.Y, Z: p.Z}
	}
	return FromPoints(points, h.Handedness, h.Score)
}

// DecodeFrame parses a single NDJSON line into a Frame.
func DecodeFrame(line []byte) (Frame, error) {
	var jf jsonFrame
	if err := json.Unmarshal(line, &jf); err != nil {
		return Frame{}, fmt.Errorf("parse frame: %w", err)
	}

	frame := Frame{
		Timestamp: jf.Timestamp,
		Hands:     make([]HandLandmarks, len(jf.Hands)),
	}
	for i, h := range jf.Hands {
		frame.Hands[i] = h.toHandLandmarks()
	}
	return frame, nil
}

// EncodeFrame writes f as one NDJSON line.
func EncodeFrame(w io.Writer, f Frame) error {
	jf := jsonFrame{
		Timestamp: f.Timestamp,
		Hands:     make([]jsonHand, len(f.Hands)),
	}
	for i, h := range f.Hands {
		jh := jsonHand{
			Handedness: h.Handedness,
			Score:      h.Score,
			Points:     make([]jsonPoint, 0, NumLandmarks),
		}
		// JSON has no NaN; a partial hand is written up to its first missing point.
		for _, p := range h.Points {
			if !p.IsFinite() {
				break
			}
			jh.Points = append(jh.Points, jsonPoint{X: p.X, Y: p.Y, Z: p.Z})
		}
		jf.Hands[i] = jh
	}

	data, err := json.Marshal(jf)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

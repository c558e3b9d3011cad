package detector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandLandmarks_Valid(t *testing.T) {
	t.Run("fixture hand is valid", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		assert.True(t, hand.Valid())
	})

	t.Run("NaN coordinate is invalid", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[MiddleTip].Y = math.NaN()
		assert.False(t, hand.Valid())
	})

	t.Run("infinite coordinate is invalid", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[Wrist].Z = math.Inf(1)
		assert.False(t, hand.Valid())
	})

	t.Run("nil hand is invalid", func(t *testing.T) {
		var hand *HandLandmarks
		assert.False(t, hand.Valid())
	})
}

func TestFromPoints(t *testing.T) {
	t.Run("short slice fills missing points", func(t *testing.T) {
		points := make([]Point3D, 10)
		hand := FromPoints(points, "Left", 0.8)

		assert.Equal(t, "Left", hand.Handedness)
		assert.True(t, hand.Points[9].IsFinite())
		assert.False(t, hand.Points[10].IsFinite())
		assert.False(t, hand.Valid())
	})

	t.Run("extra points are ignored", func(t *testing.T) {
		points := make([]Point3D, 30)
		hand := FromPoints(points, "Right", 1)
		assert.True(t, hand.Valid())
	})
}

func TestHandLandmarks_Anchored(t *testing.T) {
	hand := PointingLandmarks().Anchored(IndexTip, 0.5, 0.5)

	assert.InDelta(t, 0.5, hand.Points[IndexTip].X, 1e-12)
	assert.InDelta(t, 0.5, hand.Points[IndexTip].Y, 1e-12)

	orig := PointingLandmarks()
	dx := hand.Points[Wrist].X - orig.Points[Wrist].X
	assert.InDelta(t, 0.5-orig.Points[IndexTip].X, dx, 1e-12, "all points shift together")
}

func TestCodec_RoundTripsFrame(t *testing.T) {
	frame := Frame{
		Timestamp: 1.25,
		Hands:     []HandLandmarks{OpenPalmLandmarks(), FistLandmarks().WithHandedness("Left")},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeFrame(&buf, frame))
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	got, err := DecodeFrame(bytes.TrimSpace(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestCodec_PartialHand(t *testing.T) {
	t.Run("decoding a short hand yields an invalid hand", func(t *testing.T) {
		line := `{"timestamp":0.5,"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Right","score":0.9}]}`
		frame, err := DecodeFrame([]byte(line))
		require.NoError(t, err)
		require.Len(t, frame.Hands, 1)
		assert.False(t, frame.Hands[0].Valid())
	})

	t.Run("encoding stops at the first missing point", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[5] = Missing

		var buf bytes.Buffer
		require.NoError(t, EncodeFrame(&buf, Frame{Hands: []HandLandmarks{hand}}))

		got, err := DecodeFrame(buf.Bytes())
		require.NoError(t, err)
		assert.True(t, got.Hands[0].Points[4].IsFinite())
		assert.False(t, got.Hands[0].Points[5].IsFinite())
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		_, err := DecodeFrame([]byte("{not json"))
		assert.Error(t, err)
	})
}

func TestReplayDetector(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		require.NoError(t, EncodeFrame(&buf, Frame{Timestamp: float64(i) / 30}))
		buf.WriteString("\n")
	}

	d := NewReplayDetector(&buf)
	frames, err := ReadAll(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.InDelta(t, 2.0/30, frames[2].Timestamp, 1e-12)

	require.NoError(t, d.Close())
	_, err = d.Next(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)
}

func TestReplayDetector_ReportsBadLine(t *testing.T) {
	d := NewReplayDetector(strings.NewReader("{\"timestamp\":0}\ngarbage\n"))

	_, err := d.Next(context.Background())
	require.NoError(t, err)

	_, err = d.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRecorder(t *testing.T) {
	mock := NewMockDetector(
		Frame{Timestamp: 0.1, Hands: []HandLandmarks{PointingLandmarks()}},
		Frame{Timestamp: 0.2},
	)

	var out bytes.Buffer
	rec := NewRecorder(mock, &out)

	frames, err := ReadAll(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	replayed, err := ReadAll(context.Background(), NewReplayDetector(&out))
	require.NoError(t, err)
	assert.Equal(t, frames[0].Hands, replayed[0].Hands)
	assert.InDelta(t, 0.2, replayed[1].Timestamp, 1e-12)
}

func TestMockDetector(t *testing.T) {
	t.Run("returns EOF when empty", func(t *testing.T) {
		mock := NewMockDetector()

		_, err := mock.Next(context.Background())

		assert.Equal(t, io.EOF, err)
	})

	t.Run("returns queued frames in order", func(t *testing.T) {
		mock := NewMockDetector(Frame{Timestamp: 1})
		mock.Push(Frame{Timestamp: 2})

		f1, err := mock.Next(context.Background())
		require.NoError(t, err)
		f2, err := mock.Next(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1.0, f1.Timestamp)
		assert.Equal(t, 2.0, f2.Timestamp)
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector(Frame{})
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		_, err := mock.Next(context.Background())

		assert.Equal(t, expectedErr, err)
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		mock := NewMockDetector(Frame{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.Next(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*ReplayDetector)(nil)
		var _ Detector = (*ServiceDetector)(nil)
		var _ Detector = (*Recorder)(nil)
	})
}

func TestConfig_FilterHands(t *testing.T) {
	cfg := Config{MaxHands: 2, MinConfidence: 0.5}

	weak := OpenPalmLandmarks()
	weak.Score = 0.2

	hands := []HandLandmarks{weak, FistLandmarks(), PointingLandmarks(), PinchLandmarks()}
	kept := cfg.filterHands(hands)

	require.Len(t, kept, 2)
	assert.Equal(t, FistLandmarks(), kept[0])
	assert.Equal(t, PointingLandmarks(), kept[1])
}

func TestFixtures_AreValid(t *testing.T) {
	fixtures := map[string]HandLandmarks{
		"palm":        OpenPalmLandmarks(),
		"thumbs up":   ThumbsUpLandmarks(),
		"thumbs down": ThumbsDownLandmarks(),
		"fist":        FistLandmarks(),
		"pointing":    PointingLandmarks(),
		"two fingers": TwoFingersLandmarks(),
		"pinch":       PinchLandmarks(),
	}

	for name, hand := range fixtures {
		t.Run(name, func(t *testing.T) {
			assert.True(t, hand.Valid())
			assert.Equal(t, "Right", hand.Handedness)
		})
	}
}

package dwell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Update(t *testing.T) {
	t.Run("first update anchors", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		fired, progress := d.Update(100, 100, 0)
		assert.False(t, fired)
		assert.Equal(t, 0.0, progress)
		assert.True(t, d.Anchored())
	})

	t.Run("progress grows while steady", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 0)
		fired, progress := d.Update(105, 98, 0.2)
		assert.False(t, fired)
		assert.InDelta(t, 0.5, progress, 1e-9)
	})

	t.Run("fires after duration and clears anchor", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 0)
		fired, progress := d.Update(101, 101, 0.4)
		assert.True(t, fired)
		assert.Equal(t, 1.0, progress)
		assert.False(t, d.Anchored())

		fired, _ = d.Update(101, 101, 0.5)
		assert.False(t, fired, "re-anchors after firing")
	})

	t.Run("moving beyond tolerance re-anchors", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 0)
		fired, progress := d.Update(120, 100, 0.3)
		assert.False(t, fired)
		assert.Equal(t, 0.0, progress)

		fired, _ = d.Update(120, 100, 0.6)
		assert.False(t, fired)
		fired, _ = d.Update(120, 100, 0.75)
		assert.True(t, fired)
	})

	t.Run("stale timestamp keeps the anchor", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 5)
		d.Update(100, 100, 5.1)

		fired, progress := d.Update(100, 100, 1)
		assert.False(t, fired)
		assert.InDelta(t, 0.25, progress, 1e-9)

		fired, progress = d.Update(100, 100, 5.3)
		assert.False(t, fired, "only 0.3s of real dwell")
		assert.InDelta(t, 0.75, progress, 1e-9)

		fired, _ = d.Update(100, 100, 5.4)
		assert.True(t, fired)
	})

	t.Run("repeated timestamp is ignored", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 1)
		fired, progress := d.Update(500, 500, 1)
		assert.False(t, fired)
		assert.Equal(t, 0.0, progress)

		_, progress = d.Update(100, 100, 1.2)
		assert.InDelta(t, 0.5, progress, 1e-9, "move at the repeated timestamp did not re-anchor")
	})

	t.Run("reset forgets the last timestamp", func(t *testing.T) {
		d := NewDetector(DefaultConfig())
		d.Update(100, 100, 5)
		d.Reset()

		d.Update(100, 100, 1)
		assert.True(t, d.Anchored())
		fired, _ := d.Update(100, 100, 1.5)
		assert.True(t, fired)
	})
}

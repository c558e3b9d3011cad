package gesture

// Debouncer suppresses single-frame label flicker. The reported label only
// changes after a new label has been seen on Frames consecutive updates.
// A Debouncer belongs to one hand.
type Debouncer struct {
	frames    int
	stable    Label
	candidate Label
	count     int
}

// NewDebouncer creates a Debouncer. frames <= 1 disables debouncing.
func NewDebouncer(frames int) *Debouncer {
	return &Debouncer{frames: frames}
}

// Update feeds one raw label and returns the debounced label.
func (d *Debouncer) Update(l Label) Label {
	if d.frames <= 1 || l == d.stable {
		d.stable = l
		d.candidate = l
		d.count = 0
		return d.stable
	}

	if l != d.candidate {
		d.candidate = l
		d.count = 0
	}
	d.count++
	if d.count >= d.frames {
		d.stable = l
		d.count = 0
	}
	return d.stable
}

// Reset forgets the stable label.
func (d *Debouncer) Reset() {
	d.stable = Unknown
	d.candidate = Unknown
	d.count = 0
}

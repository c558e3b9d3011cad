package config

// Tuning is the subset of the configuration a profile can override.
// Nil fields leave the loaded value alone.
type Tuning struct {
	FilterKind     *string  `json:"filter_kind,omitempty"`
	SmoothingLevel *int     `json:"smoothing_level,omitempty"`
	MinCutoff      *float64 `json:"min_cutoff,omitempty"`
	Beta           *float64 `json:"beta,omitempty"`
	KalmanSpeed    *float64 `json:"kalman_speed,omitempty"`
	CrossfadeBand  *float64 `json:"crossfade_band,omitempty"`
	DeadZone       *float64 `json:"dead_zone,omitempty"`
	Deadzone       *float64 `json:"mapping_deadzone,omitempty"`
	Gamma          *float64 `json:"gamma,omitempty"`
	PinchThreshold *float64 `json:"pinch_threshold,omitempty"`
	DwellEnabled   *bool    `json:"dwell_enabled,omitempty"`
	DominantHand   *string  `json:"dominant_hand,omitempty"`
}

// Tuning snapshots the current tunable values with every field set.
func (c *Config) Tuning() Tuning {
	return Tuning{
		FilterKind:     &c.Filter.Kind,
		SmoothingLevel: &c.Filter.SmoothingLevel,
		MinCutoff:      &c.Filter.MinCutoff,
		Beta:           &c.Filter.Beta,
		KalmanSpeed:    &c.Filter.KalmanSpeed,
		CrossfadeBand:  &c.Filter.CrossfadeBand,
		DeadZone:       &c.Filter.DeadZone,
		Deadzone:       &c.Mapping.Deadzone,
		Gamma:          &c.Mapping.Gamma,
		PinchThreshold: &c.Gesture.PinchThreshold,
		DwellEnabled:   &c.Dwell.Enabled,
		DominantHand:   &c.Pipeline.DominantHand,
	}.clone()
}

// clone copies every pointed-to value so the snapshot does not alias c.
func (t Tuning) clone() Tuning {
	return Tuning{
		FilterKind:     cp(t.FilterKind),
		SmoothingLevel: cp(t.SmoothingLevel),
		MinCutoff:      cp(t.MinCutoff),
		Beta:           cp(t.Beta),
		KalmanSpeed:    cp(t.KalmanSpeed),
		CrossfadeBand:  cp(t.CrossfadeBand),
		DeadZone:       cp(t.DeadZone),
		Deadzone:       cp(t.Deadzone),
		Gamma:          cp(t.Gamma),
		PinchThreshold: cp(t.PinchThreshold),
		DwellEnabled:   cp(t.DwellEnabled),
		DominantHand:   cp(t.DominantHand),
	}
}

func cp[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ApplyTuning overlays the non-nil fields of t.
func (c *Config) ApplyTuning(t Tuning) {
	set(&c.Filter.Kind, t.FilterKind)
	set(&c.Filter.SmoothingLevel, t.SmoothingLevel)
	set(&c.Filter.MinCutoff, t.MinCutoff)
	set(&c.Filter.Beta, t.Beta)
	set(&c.Filter.KalmanSpeed, t.KalmanSpeed)
	set(&c.Filter.CrossfadeBand, t.CrossfadeBand)
	set(&c.Filter.DeadZone, t.DeadZone)
	set(&c.Mapping.Deadzone, t.Deadzone)
	set(&c.Mapping.Gamma, t.Gamma)
	set(&c.Gesture.PinchThreshold, t.PinchThreshold)
	set(&c.Dwell.Enabled, t.DwellEnabled)
	set(&c.Pipeline.DominantHand, t.DominantHand)
}

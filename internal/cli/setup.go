package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/store"
)

// session is everything a run needs from the store.
type session struct {
	profile string
	table   dispatch.Table
	calib   *mapping.Calibration
}

// prepare applies the named or active profile to o.cfg and loads binding
// overrides and calibration.
func (o *rootOptions) prepare(st *store.Store, profile string) (*session, error) {
	name, err := o.applyProfile(st, profile)
	if err != nil {
		return nil, err
	}

	table, err := o.loadTable(st)
	if err != nil {
		return nil, err
	}

	return &session{
		profile: name,
		table:   table,
		calib:   o.loadCalibration(st),
	}, nil
}

// applyProfile overlays a profile's tuning. An empty name falls back to the
// active profile; no active profile leaves the configuration unchanged.
func (o *rootOptions) applyProfile(st *store.Store, name string) (string, error) {
	if name == "" {
		active, err := st.Settings().Get(store.SettingActiveProfile)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
		name = active
	}
	if name == "" {
		return "", nil
	}

	p, err := st.Profiles().GetByName(name)
	if err != nil {
		return "", fmt.Errorf("profile %q: %w", name, err)
	}
	var t config.Tuning
	if err := json.Unmarshal(p.Settings, &t); err != nil {
		return "", fmt.Errorf("profile %q: %w", name, err)
	}
	o.cfg.ApplyTuning(t)
	if err := o.cfg.Validate(o.logger); err != nil {
		return "", fmt.Errorf("profile %q: %w", name, err)
	}
	o.logger.Info("profile applied", zap.String("profile", name))
	return name, nil
}

// loadTable returns the default table with stored overrides applied.
// Rows that no longer parse are skipped with a warning.
func (o *rootOptions) loadTable(st *store.Store) (dispatch.Table, error) {
	table := dispatch.DefaultTable()

	rows, err := st.Bindings().List()
	if err != nil {
		return table, err
	}
	overrides := make([]dispatch.Binding, 0, len(rows))
	for _, r := range rows {
		b, err := parseBinding(r.Mode, r.Gesture, r.Timing, r.Action)
		if err != nil {
			o.logger.Warn("skipping binding", zap.String("id", r.ID), zap.Error(err))
			continue
		}
		overrides = append(overrides, b)
	}
	table.Apply(overrides)
	return table, nil
}

// loadCalibration returns the stored calibration, or an uncalibrated one.
func (o *rootOptions) loadCalibration(st *store.Store) *mapping.Calibration {
	calib := mapping.NewCalibration(o.cfg.Display.Width, o.cfg.Display.Height)

	raw, err := st.Settings().Get(store.SettingCalibration)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			o.logger.Warn("read calibration", zap.Error(err))
		}
		return calib
	}
	var corners []mapping.Point
	if err := json.Unmarshal([]byte(raw), &corners); err != nil {
		o.logger.Warn("bad calibration", zap.Error(err))
		return calib
	}
	if err := calib.Calibrate(corners); err != nil {
		o.logger.Warn("bad calibration", zap.Error(err))
	}
	return calib
}

func parseBinding(m, g, tm, action string) (dispatch.Binding, error) {
	md, err := mode.ParseMode(m)
	if err != nil {
		return dispatch.Binding{}, err
	}
	gs, err := gesture.ParseLabel(g)
	if err != nil {
		return dispatch.Binding{}, err
	}
	timing, err := dispatch.ParseTiming(tm)
	if err != nil {
		return dispatch.Binding{}, err
	}
	tok, err := dispatch.ParseToken(action)
	if err != nil {
		return dispatch.Binding{}, err
	}
	return dispatch.Binding{Mode: md, Gesture: gs, Timing: timing, Action: tok}, nil
}

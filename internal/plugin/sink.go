package plugin

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Event is one action to perform.
type Event struct {
	Action    string
	Mode      string
	Gesture   string
	Timestamp float64
	Cursor    *CursorParams
}

// Sink performs actions. Implementations must tolerate repeated events.
type Sink interface {
	Send(ctx context.Context, ev Event) error
}

// Router is a Sink that runs the plugin declaring each event's action.
type Router struct {
	manager  *Manager
	executor *Executor
	logger   *zap.Logger
}

// NewRouter creates a Router.
func NewRouter(manager *Manager, executor *Executor, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{manager: manager, executor: executor, logger: logger}
}

// Send runs the plugin for ev.Action. It returns an error wrapping
// ErrPluginNotFound when no plugin declares the action.
func (r *Router) Send(ctx context.Context, ev Event) error {
	p, err := r.manager.ForAction(ev.Action)
	if err != nil {
		return err
	}

	req := &Request{
		Action:    ev.Action,
		Mode:      ev.Mode,
		Gesture:   ev.Gesture,
		Timestamp: ev.Timestamp,
		Config:    p.Manifest.Config,
	}
	if ev.Cursor != nil {
		params, err := json.Marshal(ev.Cursor)
		if err != nil {
			return fmt.Errorf("marshal cursor: %w", err)
		}
		req.Params = params
	}

	resp, err := r.executor.Execute(ctx, p, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s rejected %s: %s", p.Manifest.Name, ev.Action, resp.Error)
	}
	r.logger.Debug("action executed", zap.String("action", ev.Action), zap.String("plugin", p.Manifest.Name))
	return nil
}

// LogSink is a Sink that only logs, for dry runs.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Send logs ev.
func (s *LogSink) Send(_ context.Context, ev Event) error {
	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.String("mode", ev.Mode),
		zap.String("gesture", ev.Gesture),
		zap.Float64("t", ev.Timestamp),
	}
	if ev.Cursor != nil {
		fields = append(fields, zap.Float64("x", ev.Cursor.X), zap.Float64("y", ev.Cursor.Y))
	}
	s.logger.Info("action", fields...)
	return nil
}

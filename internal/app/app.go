// Package app runs the live loop: landmark frames from a detector go
// through the pipeline engine and the resulting actions go to a sink, the
// session journal and any status observers.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// journalBatch is the number of events buffered before they are written.
const journalBatch = 32

// Config holds configuration options for the application.
type Config struct {
	// HandLostTimeout feeds an empty frame when no frame arrives in time.
	// Zero disables it.
	HandLostTimeout time.Duration

	// RepeatInterval is how often, in frame seconds, a held continuous
	// action other than MOVE_CURSOR is resent.
	RepeatInterval float64

	// Source and Profile label the journal session.
	Source  string
	Profile string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		HandLostTimeout: 500 * time.Millisecond,
		RepeatInterval:  0.25,
		Source:          "live",
	}
}

// App is the main application that connects a landmark source to the action sink.
type App struct {
	config   Config
	detector detector.Detector
	engine   *pipeline.Engine
	sink     plugin.Sink
	logger   *zap.Logger

	journal *store.SessionRepository
	session *store.Session
	pending []store.Event

	toggles   func() pipeline.Toggles
	observers []func(pipeline.Result)

	policy  *Policy
	missing map[string]bool // actions already reported as having no plugin
	lastT   float64

	mu      sync.Mutex
	running bool
}

// New creates a new App.
func New(config Config, det detector.Detector, engine *pipeline.Engine, sink plugin.Sink, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		config:   config,
		detector: det,
		engine:   engine,
		sink:     sink,
		logger:   logger,
		toggles:  func() pipeline.Toggles { return pipeline.Toggles{} },
		policy:   NewPolicy(config.RepeatInterval),
		missing:  make(map[string]bool),
	}
}

// SetJournal records every action edge of the next Run into sessions.
func (a *App) SetJournal(sessions *store.SessionRepository) {
	a.journal = sessions
}

// SetToggles sets the function consulted for runtime toggles on every frame.
func (a *App) SetToggles(fn func() pipeline.Toggles) {
	if fn != nil {
		a.toggles = fn
	}
}

// OnResult registers fn to be called with every frame result.
// Observers run on the loop goroutine and must not block.
func (a *App) OnResult(fn func(pipeline.Result)) {
	a.observers = append(a.observers, fn)
}

// Session returns the journal session of the current or last run, or nil.
func (a *App) Session() *store.Session {
	return a.session
}

// Run processes frames until ctx is done or the detector is exhausted.
// It closes the detector before returning. A finite source reaching its
// end is not an error.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("app already running")
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.session = nil
	if a.journal != nil {
		sess, err := a.journal.Start(a.config.Source, a.config.Profile)
		if err != nil {
			a.logger.Warn("journal disabled", zap.Error(err))
		} else {
			a.session = sess
		}
	}

	a.logger.Info("pipeline started", zap.String("source", a.config.Source))
	err := a.runPipeline(ctx)

	a.flushJournal()
	if a.session != nil {
		if endErr := a.journal.End(a.session.ID); endErr != nil {
			a.logger.Warn("close session", zap.Error(endErr))
		}
	}
	if closeErr := a.detector.Close(); closeErr != nil {
		a.logger.Warn("close detector", zap.Error(closeErr))
	}
	a.logger.Info("pipeline stopped")
	return err
}

// handle runs one frame through the engine and performs its actions.
func (a *App) handle(ctx context.Context, f detector.Frame) pipeline.Result {
	a.lastT = f.Timestamp
	res := a.engine.ProcessFrame(pipeline.FromDetector(f), a.toggles())

	for _, obs := range a.observers {
		obs(res)
	}

	for _, ev := range a.policy.Events(res) {
		a.send(ctx, ev)
	}
	a.record(res)
	return res
}

func (a *App) send(ctx context.Context, ev plugin.Event) {
	err := a.sink.Send(ctx, ev)
	switch {
	case err == nil:
		return
	case errors.Is(err, plugin.ErrPluginNotFound):
		if !a.missing[ev.Action] {
			a.missing[ev.Action] = true
			a.logger.Warn("no plugin for action", zap.String("action", ev.Action))
		}
	case ctx.Err() != nil:
	default:
		a.logger.Error("action failed", zap.String("action", ev.Action), zap.Error(err))
	}
}

// record buffers action edges for the journal.
func (a *App) record(res pipeline.Result) {
	if a.session == nil || !res.Edge || res.Action == dispatch.None {
		return
	}
	a.pending = append(a.pending, store.Event{
		Timestamp: res.Timestamp,
		Mode:      res.Mode.String(),
		Gesture:   res.Gesture.String(),
		Action:    res.Action.String(),
	})
	if len(a.pending) >= journalBatch {
		a.flushJournal()
	}
}

func (a *App) flushJournal() {
	if a.session == nil || len(a.pending) == 0 {
		return
	}
	if err := a.journal.AddEvents(a.session.ID, a.pending); err != nil {
		a.logger.Warn("journal write failed", zap.Int("events", len(a.pending)), zap.Error(err))
	}
	a.pending = a.pending[:0]
}

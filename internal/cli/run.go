package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/tray"
)

type runFlags struct {
	tray    bool
	record  string
	profile string
	dryRun  bool
	freeze  bool
	pause   bool
}

func newRunCommand(o *rootOptions) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track hands from the camera and perform actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.Context(), f)
		},
	}

	cmd.Flags().BoolVar(&f.tray, "tray", false, "show the system tray menu")
	cmd.Flags().StringVar(&f.record, "record", "", "also write landmark frames to this NDJSON file")
	cmd.Flags().StringVar(&f.profile, "profile", "", "tuning profile (default: the active profile)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "log actions instead of running plugins")
	cmd.Flags().BoolVar(&f.freeze, "freeze", false, "start with the cursor frozen")
	cmd.Flags().BoolVar(&f.pause, "pause", false, "start with actions paused")
	return cmd
}

func (o *rootOptions) run(ctx context.Context, f runFlags) error {
	st, err := o.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := o.prepare(st, f.profile)
	if err != nil {
		return err
	}

	svc, err := detector.NewServiceDetector(o.cfg.DetectorConfig(), o.logger.Named("detector"))
	if err != nil {
		return err
	}
	var source detector.Detector = svc
	if f.record != "" {
		out, err := os.Create(f.record)
		if err != nil {
			svc.Close()
			return fmt.Errorf("create recording: %w", err)
		}
		defer out.Close()
		source = detector.NewRecorder(svc, out)
	}

	sink, err := o.sink(f.dryRun)
	if err != nil {
		source.Close()
		return err
	}

	engine := pipeline.NewEngine(o.cfg.PipelineConfig(), sess.calib, sess.table, o.logger.Named("pipeline"))
	defer engine.Close()
	a := app.New(app.Config{
		HandLostTimeout: o.cfg.HandLostTimeout(),
		RepeatInterval:  o.cfg.Plugins.RepeatInterval,
		Source:          "live",
		Profile:         sess.profile,
	}, source, engine, sink, o.logger)
	a.SetJournal(st.Sessions())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	initial := pipeline.Toggles{CursorFrozen: f.freeze, ActionsPaused: f.pause}
	if !f.tray {
		a.SetToggles(func() pipeline.Toggles { return initial })
		return a.Run(ctx)
	}

	// The tray owns the main thread until it quits.
	t := tray.New()
	t.SetToggles(initial)
	t.OnQuit(stop)
	a.SetToggles(t.Toggles)
	a.OnResult(t.SetStatus)

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	stop()
	return <-done
}

// sink returns the plugin router, or a logging sink for dry runs.
func (o *rootOptions) sink(dryRun bool) (plugin.Sink, error) {
	if dryRun {
		return plugin.NewLogSink(o.logger.Named("actions")), nil
	}

	mgr := plugin.NewManager(o.cfg.Plugins.Dir, o.logger.Named("plugins"))
	if err := mgr.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins: %w", err)
	}
	return plugin.NewRouter(mgr, plugin.NewExecutor(o.cfg.PluginTimeout()), o.logger.Named("plugins")), nil
}

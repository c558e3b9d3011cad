package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/plot"
	"github.com/ayusman/mudra/internal/plugin"
)

type replayFlags struct {
	plot    string
	profile string
	execute bool
}

func newReplayCommand(o *rootOptions) *cobra.Command {
	var f replayFlags

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Run recorded landmark frames through the pipeline",
		Long: `Replay reads an NDJSON recording made with "run --record" and prints
every action edge. With --plot it also renders the raw and smoothed cursor
paths, which helps when tuning the filter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.replay(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.plot, "plot", "", "write a trace image to this file")
	cmd.Flags().StringVar(&f.profile, "profile", "", "tuning profile (default: the active profile)")
	cmd.Flags().BoolVar(&f.execute, "execute", false, "perform actions through plugins")
	return cmd
}

// discardSink drops every event.
type discardSink struct{}

func (discardSink) Send(context.Context, plugin.Event) error { return nil }

func (o *rootOptions) replay(ctx context.Context, out io.Writer, path string, f replayFlags) error {
	st, err := o.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := o.prepare(st, f.profile)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	var sink plugin.Sink = discardSink{}
	if f.execute {
		if sink, err = o.sink(false); err != nil {
			return err
		}
	}

	engine := pipeline.NewEngine(o.cfg.PipelineConfig(), sess.calib, sess.table, o.logger.Named("pipeline"))
	defer engine.Close()
	a := app.New(app.Config{
		RepeatInterval: o.cfg.Plugins.RepeatInterval,
		Source:         path,
		Profile:        sess.profile,
	}, detector.NewReplayDetector(file), engine, sink, o.logger)
	a.SetJournal(st.Sessions())

	var results []pipeline.Result
	edges := 0
	fmt.Fprintf(out, "%8s  %-8s  %-11s  %-5s  %s\n", "T", "MODE", "GESTURE", "TIME", "ACTION")
	a.OnResult(func(r pipeline.Result) {
		results = append(results, r)
		if !r.Edge || r.Action == dispatch.None {
			return
		}
		edges++
		fmt.Fprintf(out, "%8.3f  %-8s  %-11s  %-5s  %s\n", r.Timestamp, r.Mode, r.Gesture, r.Timing, r.Action)
	})

	if err := a.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d frames, %d actions\n", len(results), edges)

	if f.plot != "" {
		opts := plot.DefaultOptions()
		opts.ScreenWidth, opts.ScreenHeight = o.cfg.Display.Width, o.cfg.Display.Height
		opts.Width, opts.Height = opts.ScreenWidth/2, opts.ScreenHeight/2
		if err := plot.Save(f.plot, results, opts); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		o.logger.Info("trace written", zap.String("path", f.plot))
	}
	return nil
}

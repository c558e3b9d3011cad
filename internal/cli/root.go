// Package cli implements the mudra command line.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

// rootOptions is shared by every subcommand. cfg and logger are filled in
// by the persistent pre-run hook.
type rootOptions struct {
	cfgFile string
	verbose bool

	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	root := &cobra.Command{
		Use:   "mudra",
		Short: "Hand gesture control for the desktop",
		Long: `Mudra turns hand landmarks from a webcam into pointer movement,
clicks, window management, media keys and shortcuts.`,
		SilenceUsage:      true,
		PersistentPreRunE: o.load,
		PersistentPostRun: func(*cobra.Command, []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "config file (default: $HOME/.mudra.yaml)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newRunCommand(o),
		newReplayCommand(o),
		newProfileCommand(o),
		newBindCommand(o),
		newSessionsCommand(o),
		newCalibrateCommand(o),
		newCameraCommand(o),
		newConfigCommand(o),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// load reads the configuration and builds the logger.
func (o *rootOptions) load(cmd *cobra.Command, _ []string) error {
	o.v = viper.New()
	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging, o.verbose)
	if err != nil {
		return err
	}
	if used := o.v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("path", used))
	}

	if err := cfg.Validate(logger); err != nil {
		return err
	}
	o.cfg, o.logger = cfg, logger
	return nil
}

// newLogger builds a JSON production logger or a console development
// logger at the configured level.
func newLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	if verbose {
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zc.Level = level

	return zc.Build()
}

// openStore opens the database, creating its directory if needed.
func (o *rootOptions) openStore() (*store.Store, error) {
	path := o.cfg.Store.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.New(path)
}

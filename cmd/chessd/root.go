package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lgbarn/chessd/internal/config"
)

// options are the persistent flags and what they load to.
type options struct {
	configPath string
	logLevel   string
	pretty     bool

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:          "chessd",
		Short:        "Networked chess server, terminal client and perft tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(
		newServeCmd(opts),
		newPlayCmd(opts),
		newPerftCmd(opts),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration, applies flag overrides and builds the
// root logger.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("pretty") {
		cfg.Log.Pretty = o.pretty
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.cfg, o.log = cfg, log
	return nil
}

// newLogger builds the root logger. Pretty output uses zerolog's console
// writer; otherwise each entry is one JSON line.
func newLogger(cfg *config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := cfg.ParsedLevel()
	if err != nil {
		return zerolog.Nop(), err
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "chessd").Logger(), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chessd version %s\n", programVersion)
		},
	}
}

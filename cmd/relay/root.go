package main

import (
	"github.com/spf13/cobra"

	"github.com/HamzaKV/ai-sdk/core/config"
	"github.com/HamzaKV/ai-sdk/providers/observability/slogobs"
)

type rootOptions struct {
	configFile string
	envFiles   []string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "relay",
		Short:         "Gated HTTP relay for AI provider calls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadDotEnv(opts.envFiles...)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to load (default .env)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default from AISDK_LOG_LEVEL)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: compact, json, text (default from AISDK_LOG_FORMAT)")

	root.AddCommand(newServeCmd(opts), newCallsCmd(opts))
	return root
}

// observer builds the slog-backed observer from flags, falling back to the
// environment.
func (o *rootOptions) observer() *slogobs.Observer {
	format := slogobs.FormatFromEnv()
	if o.logFormat != "" {
		format = slogobs.ParseFormat(o.logFormat)
	}
	level := slogobs.LevelFromEnv()
	if o.logLevel != "" {
		level = slogobs.ParseLevel(o.logLevel)
	}
	return slogobs.New(slogobs.WithFormat(format), slogobs.WithLevel(level))
}

// load reads the configuration file, or returns an empty one when none is set.
func (o *rootOptions) load() (*config.File, error) {
	if o.configFile == "" {
		return &config.File{}, nil
	}
	return config.Load(o.configFile)
}

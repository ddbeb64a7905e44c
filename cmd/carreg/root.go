package main

import (
	"fmt"
	"log/slog"

	"github.com/aleksaelezovic/carreg/internal/config"
	"github.com/aleksaelezovic/carreg/internal/encoding"
	"github.com/aleksaelezovic/carreg/internal/storage"
	"github.com/aleksaelezovic/carreg/pkg/store"
	"github.com/spf13/cobra"
)

// rootOptions holds global flags for all commands
type rootOptions struct {
	configPath string
	backend    string
	logLevel   string
	format     string // "text" | "json"

	cfg    config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "carreg",
		Short:        "Vehicle registry with wildcard lookups",
		Long:         "Index vehicle ids by manufacturer, model and color and look them up by any combination of the three.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend (memory|badger)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "text", "output format (text|json)")

	cmd.AddCommand(newDemoCommand(opts))
	cmd.AddCommand(newQueryCommand(opts))

	return cmd
}

// setup loads the config file, applies flag overrides and builds the logger
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("invalid format %q: must be one of [text json]", o.format)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = o.backend
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return nil
}

// openRegistry creates an empty registry on the configured backend
func (o *rootOptions) openRegistry() (*store.CarRegistry, error) {
	s, err := storage.Open(o.cfg.Backend)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("registry opened", "backend", o.cfg.Backend)
	return store.NewCarRegistry(s, encoding.NewKeyEncoder(), store.WithLogger(o.logger)), nil
}

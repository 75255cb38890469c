package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/important/internal/catalog"
	"github.com/harrison/important/internal/config"
	"github.com/harrison/important/internal/logger"
	"github.com/harrison/important/internal/metadata"
	"github.com/harrison/important/internal/status"
)

// env is everything a command needs, built once per invocation.
type env struct {
	cfg     *config.Config
	logger  *logger.ConsoleLogger
	meta    metadata.Backend
	catalog *catalog.Store
}

// newEnv resolves the working directory, loads configuration and wires the
// backends. The working directory is read here and nowhere else.
func newEnv(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "important: error: cannot determine the working directory: %v\n", err)
		return nil, &status.ExitError{Code: status.FromError(err)}
	}

	cfg, err := config.LoadConfig(config.Path(opts.configPath, wd), wd)
	if err != nil {
		return nil, err
	}

	var logLevel, colorMode *string
	if cmd.Flags().Changed("log-level") {
		logLevel = &opts.logLevel
	}
	if opts.noColor {
		never := logger.ColorNever
		colorMode = &never
	}
	cfg.MergeWithFlags(logLevel, colorMode)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Color)
	log.LogTrace(fmt.Sprintf("work dir %s, catalog %s", cfg.WorkDir, cfg.CatalogPath()))

	var meta metadata.Backend = metadata.Unsupported{}
	if cfg.Metadata {
		meta = metadata.New(cfg.Attribute, log)
	}

	var catalogOpts []catalog.Option
	if !cfg.LockCatalog {
		catalogOpts = append(catalogOpts, catalog.WithoutLock())
	}
	store, err := catalog.New(cfg.CatalogPath(), log, catalogOpts...)
	if err != nil {
		log.LogError(err.Error())
		return nil, &status.ExitError{Code: status.IOError}
	}

	return &env{
		cfg:     cfg,
		logger:  log,
		meta:    meta,
		catalog: store,
	}, nil
}

// colorStdout reports whether result lines on the command's stdout may be
// colored.
func (e *env) colorStdout(cmd *cobra.Command) bool {
	return logger.UseColor(cmd.OutOrStdout(), e.cfg.Color)
}

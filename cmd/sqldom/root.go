package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bawdo/sqldom"
	"github.com/bawdo/sqldom/driver"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options carries the persistent flags and what PersistentPreRunE makes of
// them.
type options struct {
	configPath    string
	verbose       bool
	dialect       string
	serverVersion string

	cfg    *driver.Config
	logger *slog.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "sqldom",
		Short:         "Compile, extract and explore SQL across database dialects",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (yaml, toml or json)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	f.StringVarP(&opts.dialect, "dialect", "d", "", "provider to target, overrides the configured one")
	f.StringVar(&opts.serverVersion, "server-version", "", "server version to target instead of the newest one")

	cmd.AddCommand(
		newDDLCmd(opts),
		newExtractCmd(opts),
		newDialectsCmd(),
		newReplCmd(opts),
	)
	return cmd
}

func (o *options) load(errOut io.Writer) error {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := driver.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.dialect != "" {
		cfg.Provider = o.dialect
	}
	if o.serverVersion != "" {
		cfg.ForcedServerVersion = o.serverVersion
	}
	o.cfg = cfg
	o.logger.Debug("configuration loaded",
		"provider", cfg.Provider,
		"server_version", cfg.ForcedServerVersion,
		"config", o.configPath)
	return nil
}

// storageDriver returns a connectionless driver for the configured
// provider and version.
func (o *options) storageDriver() (*driver.StorageDriver, error) {
	return newStorageDriver(o.cfg, o.logger)
}

func newStorageDriver(cfg *driver.Config, logger *slog.Logger) (*driver.StorageDriver, error) {
	d, err := driver.Resolve(cfg.Provider, cfg.ForcedServerVersion)
	if err != nil {
		return nil, err
	}
	return driver.NewStorageDriver(d, *cfg, driver.WithLogger(logger))
}

// connect opens cfg.DSN with every dialect linked in.
func (o *options) connect(cmd *cobra.Command, cfg *driver.Config) (*driver.StorageDriver, *driver.Connection, error) {
	o.logger.Debug("connecting", "provider", cfg.Provider)
	return sqldom.Connect(cmd.Context(), cfg, o.logger)
}

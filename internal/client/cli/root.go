package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/treekeeper/internal/client/connectivity"
	"github.com/iudanet/treekeeper/internal/client/iocli"
	"github.com/iudanet/treekeeper/internal/config"
)

// BuildInfo заполняется через ldflags при сборке
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Driver     string
	URL        string
	APIKey     string
	DSN        string
	StorePath  string
	LogLevel   string
	LogFormat  string
	Timeout    time.Duration
}

// Opener builds a Cli for the loaded configuration.
type Opener func(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*Cli, error)

// NewRootCommand creates the treekeeper command tree.
func NewRootCommand(io iocli.IO, build BuildInfo, open Opener) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "treekeeper",
		Short: "Offline-first nursery inventory client",
		Long: `treekeeper reads and edits the nursery inventory from the field.

Reads fall back to the local cache when the server is unreachable, edits and
new trees are queued locally and synchronized when connectivity returns.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(fmt.Sprintf("TreeKeeper Client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
		build.Version, build.BuildDate, build.GitCommit))

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	flags.StringVar(&opts.Driver, "driver", config.DriverREST, "remote driver (rest|postgres)")
	flags.StringVar(&opts.URL, "server", "", "server URL")
	flags.StringVar(&opts.APIKey, "api-key", "", "API key sent in the apikey header")
	flags.StringVar(&opts.DSN, "dsn", "", "Postgres connection string for the postgres driver")
	flags.StringVar(&opts.StorePath, "db", "", "path to local database")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "timeout of a single remote call")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.LogFormat, "log-format", "", "log format (text|json)")

	run := func(fn func(ctx context.Context, c *Cli, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			logger := cfg.Log.Logger(cmd.ErrOrStderr())
			c, err := open(cmd.Context(), cfg, io, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := c.Close(); err != nil {
					logger.Error("failed to close client", "error", err)
				}
			}()

			return fn(cmd.Context(), c, args)
		}
	}

	treesOpts := TreesOptions{}
	trees := &cobra.Command{
		Use:   "trees",
		Short: "List trees",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runTrees(ctx, treesOpts)
		}),
	}
	trees.Flags().StringVar(&treesOpts.Location, "location", "", "only trees at this location")
	trees.Flags().StringVar(&treesOpts.Status, "status", "", "only trees with this status")

	registerOpts := RegisterOptions{}
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a new tree (works offline)",
		Long: `Register a new tree. Without --species the values are asked
interactively. The management number is assigned when the tree is synced.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
			return c.runRegister(ctx, registerOpts)
		}),
	}
	register.Flags().StringVar(&registerOpts.Species, "species", "", "species code or ID")
	register.Flags().Float64Var(&registerOpts.Height, "height", 0, "height, m")
	register.Flags().IntVar(&registerOpts.TrunkCount, "trunks", 1, "trunk count")
	register.Flags().IntVar(&registerOpts.Price, "price", 0, "price")
	register.Flags().StringVar(&registerOpts.Location, "location", "", "location on the field")
	register.Flags().StringVar(&registerOpts.Notes, "notes", "", "notes")

	cmd.AddCommand(
		trees,
		&cobra.Command{
			Use:   "tree <id>",
			Short: "Show tree details",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.runTree(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "species",
			Short: "List species",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runSpecies(ctx)
			}),
		},
		&cobra.Command{
			Use:   "edit <id> field=value...",
			Short: "Edit tree fields (works offline)",
			Example: `  treekeeper edit 0b6f... height=3.5 location=A-12
  treekeeper edit tmp-4c1d... notes=null`,
			Args: cobra.MinimumNArgs(2),
			RunE: run(func(ctx context.Context, c *Cli, args []string) error {
				return c.runEdit(ctx, args[0], args[1:])
			}),
		},
		register,
		&cobra.Command{
			Use:   "sync",
			Short: "Push queued registrations and edits",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runSync(ctx)
			}),
		},
		&cobra.Command{
			Use:   "pending",
			Short: "Show queued changes",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runPending(ctx)
			}),
		},
		&cobra.Command{
			Use:   "warm",
			Short: "Download trees and species for offline use",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runWarm(ctx)
			}),
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Keep the inventory fresh and sync on reconnect",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runWatch(ctx, connectivity.InterfaceSignal)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show connectivity and sync status",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, c *Cli, _ []string) error {
				return c.runStatus(ctx)
			}),
		},
	)

	return cmd
}

// load reads the config file and environment, then applies the flags
// set explicitly on the command line.
func (o *RootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath, nil)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	strs := []struct {
		dest  *string
		value string
		name  string
	}{
		{&cfg.Remote.Driver, o.Driver, "driver"},
		{&cfg.Remote.URL, o.URL, "server"},
		{&cfg.Remote.APIKey, o.APIKey, "api-key"},
		{&cfg.Remote.DSN, o.DSN, "dsn"},
		{&cfg.Store.Path, o.StorePath, "db"},
		{&cfg.Log.Level, o.LogLevel, "log-level"},
		{&cfg.Log.Format, o.LogFormat, "log-format"},
	}
	for _, s := range strs {
		if flags.Changed(s.name) {
			*s.dest = s.value
		}
	}
	if flags.Changed("timeout") {
		cfg.Remote.Timeout = o.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Package cli implements the familytree command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/source"
	"github.com/matzehuels/familytree/pkg/source/mongo"
	"github.com/matzehuels/familytree/pkg/source/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "familytree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. At debug level pipeline and cache
// events are logged as they happen.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "familytree draws family trees from person tables",
		Long:         `familytree reads a table of persons with parent and marriage links, checks that the family is consistent, and renders it as a Graphviz diagram with one node per household.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.FileName+" or user config dir)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file, or searches for one, then applies
// FAMILYTREE_* overrides from the environment and a local .env file.
func (c *CLI) loadConfig() error {
	var (
		cfg  config.Config
		path = c.configPath
		err  error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	if err := config.LoadDotEnv(config.EnvFile); err != nil {
		return fmt.Errorf("load %s: %w", config.EnvFile, err)
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	// Artifacts from another build may differ in layout, so keys carry the version.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	ttl, err := c.Config.Cache.TTLDuration()
	if err != nil {
		return nil, err
	}
	r.TTL = ttl
	return r, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Input
// =============================================================================

// inputFlags selects where the person table comes from. Without either flag
// the single positional argument is read as a CSV file.
type inputFlags struct {
	mongo  bool
	sqlite string
}

func addInputFlags(cmd *cobra.Command, in *inputFlags) {
	cmd.Flags().BoolVar(&in.mongo, "mongo", false, "read persons from the configured MongoDB collection")
	cmd.Flags().StringVar(&in.sqlite, "sqlite", "", "read persons from a SQLite database file")
	cmd.MarkFlagsMutuallyExclusive("mongo", "sqlite")
}

// loadRows reads the person table from the source selected by in.
func (c *CLI) loadRows(ctx context.Context, args []string, in inputFlags) ([]family.Row, error) {
	if in.mongo || in.sqlite != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--mongo and --sqlite do not take a file argument")
		}
	} else if len(args) != 1 {
		return nil, fmt.Errorf("expected one CSV file argument")
	}

	switch {
	case in.mongo:
		m := c.Config.Mongo
		src, err := mongo.Open(ctx, mongo.Config{
			URI:        m.URI,
			Database:   m.Database,
			Collection: m.Collection,
			SortBy:     m.SortBy,
		})
		if err != nil {
			return nil, err
		}
		defer src.Close(ctx)
		return src.Rows(ctx)
	case in.sqlite != "":
		src, err := sqlite.Open(ctx, sqlite.Config{
			Path:    in.sqlite,
			Table:   c.Config.SQLite.Table,
			OrderBy: c.Config.SQLite.OrderBy,
		})
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Rows(ctx)
	}
	return source.File{Path: args[0]}.Rows(ctx)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Empty input falls back to the configured formats.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		if len(fallback) == 0 {
			return []string{pipeline.FormatSVG}
		}
		return fallback
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

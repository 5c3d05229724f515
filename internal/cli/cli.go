package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plmgraph/pkg/buildinfo"
	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/config"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "plmgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	noCache    bool
	lenient    bool
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	flags globalFlags
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "plmgraph reads PLMXML product structures and renders them",
		Long:              `plmgraph reads PLMXML product-structure documents, links their cross-references and renders them as a YAML tree, an indented outline or a reference graph.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default ./"+config.FileName+", then the user config dir)")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable the render cache")
	pf.BoolVar(&c.flags.lenient, "lenient", false, "replace malformed transforms with an empty matrix instead of failing")

	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.briefCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies it beneath the command-line flags.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.flags.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	if !cmd.Flags().Changed("lenient") {
		c.flags.lenient = !cfg.Render.Strict
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache backend that cannot
// be opened degrades to no caching.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	opts := c.Config.CacheOptions()
	if c.flags.noCache {
		opts.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", opts.Backend, "err", err)
		store = cache.NewNullCache()
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = c.Config.Cache.TTL
	return runner
}

// pipelineOptions returns run options for one document.
func (c *CLI) pipelineOptions(mode, source string) pipeline.Options {
	return pipeline.Options{
		Mode:    mode,
		Lenient: c.flags.lenient,
		Source:  source,
		Logger:  c.Logger,
	}
}

// =============================================================================
// Input and Output
// =============================================================================

// readInput reads a document from path, or from stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return data, err
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = io.WriteString(cmd.OutOrStdout(), "\n")
		}
		return err
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// modeExt maps render modes to output file extensions.
var modeExt = map[string]string{
	pipeline.ModeStructural: ".yaml",
	pipeline.ModeBrief:      ".txt",
	pipeline.ModeDOT:        ".dot",
	pipeline.ModeSVG:        ".svg",
	pipeline.ModePDF:        ".pdf",
	pipeline.ModePNG:        ".png",
}

// outputPath derives an output file name from the input path and mode.
// Input read from stdin is named after the application.
func outputPath(dir, input, mode string) string {
	base := appName
	if input != "-" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return filepath.Join(dir, base+modeExt[mode])
}

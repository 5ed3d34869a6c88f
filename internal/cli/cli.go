// Package cli implements the forcegraph command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "forcegraph"
)

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

	// configPath is the settings file, set by the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		configPath: settings.Path(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/forcegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Scene Flags - shared by render and view
// =============================================================================

// sceneFlags are the dataset, filter and visual flags. Flags left at their
// defaults do not override the settings file.
type sceneFlags struct {
	width         float64
	height        float64
	labels        bool
	relationships bool
	nodeSize      string
	year          int
	operator      string
	limit         int
	noFilter      bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	d := settings.Default()
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", d.Viewport.Width, "viewport width")
	fs.Float64Var(&f.height, "height", d.Viewport.Height, "viewport height")
	fs.BoolVar(&f.labels, "labels", d.Visual.ShowLabels, "show node labels")
	fs.BoolVar(&f.relationships, "relationships", d.Visual.ShowRelationships, "show relationship labels")
	fs.StringVar(&f.nodeSize, "node-size", d.Visual.NodeSize, "node size: small, medium, large")
	fs.IntVar(&f.year, "year", d.Year, "movie year to compare against")
	fs.StringVar(&f.operator, "operator", d.Operator, "year comparison: > < >= <= = <>")
	fs.IntVar(&f.limit, "limit", d.Limit, "maximum number of links (1-1000)")
	fs.BoolVar(&f.noFilter, "no-filter", false, "render the whole dataset without the year filter")

	_ = cmd.RegisterFlagCompletionFunc("node-size", fixedCompletion(nodeSizeNames()...))
	_ = cmd.RegisterFlagCompletionFunc("operator", fixedCompletion(operatorNames()...))
}

// resolve loads the settings file and overlays every flag the user set.
func (f *sceneFlags) resolve(cmd *cobra.Command, path string) (*settings.Settings, error) {
	s, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		s.Viewport.Width = f.width
	}
	if changed("height") {
		s.Viewport.Height = f.height
	}
	if changed("labels") {
		s.Visual.ShowLabels = f.labels
	}
	if changed("relationships") {
		s.Visual.ShowRelationships = f.relationships
	}
	if changed("node-size") {
		s.Visual.NodeSize = f.nodeSize
	}
	if changed("year") {
		s.Year = f.year
	}
	if changed("operator") {
		s.Operator = f.operator
	}
	if changed("limit") {
		s.Limit = f.limit
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// options converts resolved settings into pipeline options.
func (f *sceneFlags) options(s *settings.Settings) pipeline.Options {
	opts := pipeline.FromSettings(s)
	if f.noFilter {
		opts.Query = nil
	}
	return opts
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) ([]render.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	return render.ParseFormats(s)
}

// basePath derives the output base from --output and the input file. A
// known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if _, err := render.ParseFormats(ext); err == nil && ext != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

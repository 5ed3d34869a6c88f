// Package pipeline runs the visualization headlessly from a dataset file to
// exported artifacts.
//
// The CLI `render` command, tests and any batch job share this code so a
// file rendered offline looks exactly like the interactive view after it
// settles.
//
// # Stages
//
//  1. Load: read a JSON or YAML dataset file
//  2. Filter: optionally keep only links touching movies that match a query
//  3. Settle: render into a headless container and drive the simulation
//     until it cools or the frame budget runs out
//  4. Export: encode the settled scene in every requested format
//
// Settling is deterministic for a given seed, so the runner caches the
// layout and artifacts under a hash of the filtered dataset and skips
// stages 3 and 4 when everything requested is cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "movies.json",
//	    Formats: []render.Format{render.FormatSVG, render.FormatJSON},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/settings"
	"github.com/matzehuels/forcegraph/pkg/simulation"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = settings.DefaultWidth

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = settings.DefaultHeight

	// DefaultMaxFrames bounds the settle stage. A simulation left alone ends
	// well within it because of its own step cap.
	DefaultMaxFrames = 2 * simulation.DefaultMaxSteps

	// DefaultSeed seeds the jiggle generator for reproducible layouts.
	DefaultSeed = simulation.DefaultSeed
)

// DefaultFormats is used when no format is requested.
var DefaultFormats = []render.Format{render.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Input: Path is read unless Dataset is already set.
	Path    string         `json:"path,omitempty"`
	Dataset *graph.Dataset `json:"-"`

	// Query filters the dataset before rendering. Nil keeps everything.
	Query *graph.Query `json:"query,omitempty"`

	// Scene options
	Visual scene.Options `json:"visual"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`

	// Simulation options
	MaxFrames int    `json:"max_frames,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`

	// Export options
	Formats []render.Format `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called after every settle frame with the
	// frame count and the simulation's alpha.
	Progress func(frame int, alpha float64) `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is what was rendered, after filtering.
	Dataset *graph.Dataset

	// Dropped lists links skipped because an endpoint was missing.
	Dropped []graph.Link

	// Layout is the settled snapshot that JSON export serializes.
	Layout graph.Layout

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	LinkCount  int
	Dropped    int
	Frames     int
	Steps      int
	Settled    bool
	Cached     bool // layout and artifacts came from the cache
	LoadTime   time.Duration
	SettleTime time.Duration
	ExportTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. Calling
// it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dataset == nil && o.Path == "" {
		return errors.New(errors.ErrCodePrecondition, "dataset or path is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Query != nil {
		if _, err := graph.ParseOperator(string(o.Query.Operator)); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetRenderDefaults fills in the scene and simulation defaults.
func (o *Options) SetRenderDefaults() {
	o.Visual = o.Visual.WithDefaults()
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.MaxFrames <= 0 {
		o.MaxFrames = DefaultMaxFrames
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]render.Format(nil), DefaultFormats...)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and checks the visual options and
// formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := o.Visual.Validate(); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if _, err := render.ParseFormats(string(f)); err != nil {
			return err
		}
	}
	return nil
}

// FromSettings returns options carrying the filter, visual options and
// viewport of s.
func FromSettings(s *settings.Settings) Options {
	q := s.Query()
	return Options{
		Query:  &q,
		Visual: s.Options(),
		Width:  s.Viewport.Width,
		Height: s.Viewport.Height,
	}
}

// FormatNames returns formats as plain strings for logging and hooks.
func FormatNames(formats []render.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

// Package settings holds the user-adjustable filter and visual options and
// persists them as TOML.
//
// A [Settings] value is what the configuration form produces: a year filter,
// a comparison operator, a result limit and the visual options handed to the
// renderer. The CLI loads one from the config file, overlays command-line
// flags, then calls [Settings.Normalize] and [Settings.Validate].
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Bounds enforced on the filter fields.
const (
	MinYear  = 1900
	MaxYear  = 2025
	MinLimit = 1
	MaxLimit = 1000
)

// Panel defaults.
const (
	DefaultYear     = 2000
	DefaultOperator = graph.OpGreater
	DefaultLimit    = 100
	DefaultWidth    = 960.0
	DefaultHeight   = 600.0
)

// Settings is the complete set of user options.
type Settings struct {
	Year     int      `toml:"year" json:"year" validate:"min=1900,max=2025"`
	Operator string   `toml:"operator" json:"operator" validate:"required,operator"`
	Limit    int      `toml:"limit" json:"limit" validate:"min=1,max=1000"`
	Visual   Visual   `toml:"visual_options" json:"visualOptions"`
	Viewport Viewport `toml:"viewport" json:"viewport"`
}

// Visual mirrors [scene.Options] with file-friendly field types.
type Visual struct {
	ShowLabels        bool   `toml:"show_labels" json:"showLabels"`
	ShowRelationships bool   `toml:"show_relationships" json:"showRelationships"`
	NodeSize          string `toml:"node_size" json:"nodeSize" validate:"required,oneof=small medium large"`
}

// Viewport is the drawing surface size used by headless rendering.
type Viewport struct {
	Width  float64 `toml:"width" json:"width" validate:"gt=0"`
	Height float64 `toml:"height" json:"height" validate:"gt=0"`
}

// Default returns the settings the configuration panel starts with. Note
// these differ from [scene.DefaultOptions], which apply when a caller passes
// no visual options at all.
func Default() *Settings {
	return &Settings{
		Year:     DefaultYear,
		Operator: string(DefaultOperator),
		Limit:    DefaultLimit,
		Visual: Visual{
			ShowLabels:        true,
			ShowRelationships: true,
			NodeSize:          string(scene.SizeMedium),
		},
		Viewport: Viewport{Width: DefaultWidth, Height: DefaultHeight},
	}
}

// ClampLimit forces a limit into [MinLimit, MaxLimit]. Zero and negative
// values become MinLimit.
func ClampLimit(n int) int {
	return max(MinLimit, min(MaxLimit, n))
}

// Normalize clamps the limit and trims string fields. It never fails.
func (s *Settings) Normalize() {
	s.Limit = ClampLimit(s.Limit)
	s.Operator = strings.TrimSpace(s.Operator)
	s.Visual.NodeSize = strings.ToLower(strings.TrimSpace(s.Visual.NodeSize))
}

// Validate checks every field against its allowed range.
func (s *Settings) Validate() error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidSettings, "settings cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Query returns the dataset filter described by the settings.
func (s *Settings) Query() graph.Query {
	return graph.Query{
		Year:     s.Year,
		Operator: graph.Operator(s.Operator),
		Limit:    s.Limit,
	}
}

// Options returns the renderer options described by the settings.
func (s *Settings) Options() scene.Options {
	return scene.Options{
		ShowLabels:        s.Visual.ShowLabels,
		ShowRelationships: s.Visual.ShowRelationships,
		NodeSize:          scene.NodeSize(s.Visual.NodeSize),
	}
}

// =============================================================================
// Persistence
// =============================================================================

// ConfigDir returns the forcegraph config directory, honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "forcegraph")
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads settings from path on top of [Default]. A missing file yields
// the defaults without error; a malformed one is reported.
func Load(path string) (*Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "parse %s", path)
	}
	return s, nil
}

// Save writes settings to path, creating parent directories.
func Save(s *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s)
}

// EnsureExists writes the defaults to path unless a file is already there.
// It reports whether a new file was created.
func EnsureExists(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default(), path)
}

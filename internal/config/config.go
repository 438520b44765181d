// Package config loads the optional qmk2zmk.toml profile.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"qmk2zmk/internal/keycode"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/rewrite"
	"qmk2zmk/internal/zmk"
)

// FileName is looked up from the working directory upwards.
const FileName = "qmk2zmk.toml"

type Config struct {
	Source SourceConfig `toml:"source"`
	Layers LayersConfig `toml:"layers"`
	Keys   KeysConfig   `toml:"keys"`
	Render RenderConfig `toml:"render"`

	// Path of the loaded file; empty when running on defaults.
	Path string `toml:"-"`
}

type SourceConfig struct {
	LayoutMacro string `toml:"layout_macro"`
}

type LayersConfig struct {
	Names    []string `toml:"names"`
	ModLayer string   `toml:"mod_layer"`
}

type KeysConfig struct {
	Renames map[string]string `toml:"renames"`
	None    []string          `toml:"none"`
}

type RenderConfig struct {
	Indent             int  `toml:"indent"`
	ColumnWidth        int  `toml:"column_width"`
	AllowShapeMismatch bool `toml:"allow_shape_mismatch"`
}

// Default is the configuration used when no file is found.
func Default() Config {
	opts := zmk.DefaultOptions()
	return Config{
		Source: SourceConfig{LayoutMacro: rewrite.DefaultLayoutMacro},
		Layers: LayersConfig{
			Names:    slices.Clone(keymap.DefaultLayerNames),
			ModLayer: keymap.DefaultModLayer,
		},
		Render: RenderConfig{
			Indent:             opts.Indent,
			ColumnWidth:        opts.ColumnWidth,
			AllowShapeMismatch: opts.AllowShapeMismatch,
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest FileName above startDir, or Default when there
// is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes path over the defaults. Keys the schema does not know
// are an error.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks value ranges that TOML types cannot express.
func (c Config) Validate() error {
	var errs []error
	if !identRe.MatchString(c.Source.LayoutMacro) {
		errs = append(errs, fmt.Errorf("[source].layout_macro %q is not an identifier", c.Source.LayoutMacro))
	}
	for i, n := range c.Layers.Names {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Errorf("[layers].names[%d] is empty", i))
		}
	}
	if strings.TrimSpace(c.Layers.ModLayer) == "" {
		errs = append(errs, errors.New("[layers].mod_layer is empty"))
	}
	for _, from := range slices.Sorted(maps.Keys(c.Keys.Renames)) {
		if strings.TrimSpace(c.Keys.Renames[from]) == "" {
			errs = append(errs, fmt.Errorf("[keys].renames.%s maps to an empty name", from))
		}
	}
	if c.Render.Indent < 0 {
		errs = append(errs, fmt.Errorf("[render].indent must not be negative, got %d", c.Render.Indent))
	}
	if c.Render.ColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("[render].column_width must be positive, got %d", c.Render.ColumnWidth))
	}
	return errors.Join(errs...)
}

func (c Config) LayerTable() keymap.LayerTable {
	return keymap.NewLayerTable(c.Layers.Names, c.Layers.ModLayer)
}

// Mapper returns the built-in key mapper extended with [keys].
func (c Config) Mapper() *keycode.Mapper {
	if len(c.Keys.Renames) == 0 && len(c.Keys.None) == 0 {
		return keycode.Default
	}
	return keycode.NewMapper(keycode.WithRenames(c.Keys.Renames), keycode.WithNone(c.Keys.None...))
}

func (c Config) RenderOptions() zmk.Options {
	return zmk.Options{
		Indent:             c.Render.Indent,
		ColumnWidth:        c.Render.ColumnWidth,
		AllowShapeMismatch: c.Render.AllowShapeMismatch,
	}
}

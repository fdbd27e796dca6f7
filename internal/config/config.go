// Package config loads flowgen project files: flowgen.toml or flowgen.json
// in the project directory.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"

	"github.com/flowgen/flowgen/internal/options"
)

// FileNames lists the config files Find looks for, in order of preference.
var FileNames = []string{"flowgen.toml", "flowgen.json"}

// Config represents a flowgen project.
type Config struct {
	// Options holds translation option overrides keyed by option name
	// (see options.FromMap).
	Options map[string]any `json:"options,omitempty" toml:"options"`

	Include []string `json:"include" toml:"include"`
	Exclude []string `json:"exclude,omitempty" toml:"exclude"`

	// OutDir receives one .js.flow file per input. Empty means next to the
	// input.
	OutDir string `json:"outDir,omitempty" toml:"outDir"`

	FlowHeader bool `json:"flowHeader,omitempty" toml:"flowHeader"`

	// ModuleName wraps every output in `declare module "name" {…}`, the
	// layout flow-typed expects.
	ModuleName string `json:"moduleName,omitempty" toml:"moduleName"`

	// Dir is the directory the config was loaded from. Relative paths
	// resolve against it.
	Dir string `json:"-" toml:"-"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Include: []string{"**/*.d.ts"},
		Exclude: []string{"node_modules/**"},
	}
}

// TranslationOptions returns the option overrides of the [options] table.
func (c *Config) TranslationOptions() []options.Option {
	return options.FromMap(c.Options)
}

// Find returns the path of the config file in dir, or "" when there is
// none.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads and parses a flowgen config file. The format is chosen by
// extension: .toml or .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}

	config := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %q", path)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %q", path)
		}
	default:
		return nil, errors.WithHint(
			errors.Newf("unsupported config format %q", ext),
			"use flowgen.toml or flowgen.json")
	}

	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		config.Dir = abs
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config in %q", path)
	}
	return &config, nil
}

// Validate checks the config for logical errors.
func (c *Config) Validate() error {
	if len(c.Include) == 0 {
		return errors.WithHint(
			errors.New("include must have at least one pattern"),
			`add include = ["**/*.d.ts"]`)
	}
	for key, v := range c.Options {
		if !options.Known(key) {
			return errors.WithHintf(errors.Newf("unknown option %q", key),
				"known options: %s", strings.Join(options.Names(), ", "))
		}
		if _, ok := v.(bool); !ok {
			return errors.Newf("option %q must be a boolean, got %T", key, v)
		}
	}
	if strings.ContainsAny(c.ModuleName, "\"\n") {
		return errors.Newf("moduleName %q must not contain quotes or newlines", c.ModuleName)
	}
	return nil
}

// Inputs walks the config directory and returns the files matching
// include and not exclude, relative paths resolved against Dir. The walk
// skips excluded directories.
func (c *Config) Inputs() ([]string, error) {
	root := c.Dir
	if root == "" {
		root = "."
	}
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && MatchesGlob(rel+"/", c.Exclude, nil) {
				return filepath.SkipDir
			}
			return nil
		}
		if MatchesGlob(rel, c.Include, c.Exclude) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "collect inputs under %s", root)
	}
	return out, nil
}

// OutputPath returns where the translation of input is written: the input
// path with its TypeScript extension replaced by .js.flow, moved under
// OutDir when one is set.
func (c *Config) OutputPath(input string) string {
	return OutputPath(input, c.resolve(c.OutDir), c.Dir)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// OutputPath maps input to its .js.flow file. With outDir set, the path
// relative to base is kept under outDir; inputs outside base keep only
// their file name.
func OutputPath(input, outDir, base string) string {
	name := FlowFileName(input)
	if outDir == "" {
		return name
	}
	if base != "" {
		if rel, err := filepath.Rel(base, name); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.Join(outDir, rel)
		}
	}
	return filepath.Join(outDir, filepath.Base(name))
}

// FlowFileName replaces a .d.ts, .ts or .tsx suffix with .js.flow.
func FlowFileName(path string) string {
	for _, ext := range []string{".d.ts", ".d.mts", ".d.cts", ".tsx", ".ts", ".mts", ".cts"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".js.flow"
		}
	}
	return path + ".js.flow"
}

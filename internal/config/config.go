// Package config loads pystyle.toml: per-project thresholds and output
// defaults. The file is discovered by walking up from the start
// directory; absence is not an error, defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"pystyle/internal/rules"
)

// FileName is the manifest discovered by the walk-up search.
const FileName = "pystyle.toml"

// Config is the full manifest shape.
type Config struct {
	Style   StyleConfig   `toml:"style"`
	Imports ImportsConfig `toml:"imports"`
	Output  OutputConfig  `toml:"output"`
}

// StyleConfig tunes rule thresholds.
type StyleConfig struct {
	MaxLineLength int `toml:"max_line_length"`
	IndentWidth   int `toml:"indent_width"`
	MaxViolations int `toml:"max_violations"`
}

// ImportsConfig tunes import-order classification.
type ImportsConfig struct {
	// LocalPrefixes lists module roots sorted into the local group
	// alongside relative imports.
	LocalPrefixes []string `toml:"local_prefixes"`
}

// OutputConfig tunes report rendering.
type OutputConfig struct {
	Format string `toml:"format"` // pretty | short | json
	Color  string `toml:"color"`  // auto | always | never
}

// Manifest is a loaded config with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Style: StyleConfig{
			MaxLineLength: 100,
			IndentWidth:   4,
			MaxViolations: 1000,
		},
		Output: OutputConfig{
			Format: "pretty",
			Color:  "auto",
		},
	}
}

// RuleOptions converts the style section into rule thresholds.
func (c Config) RuleOptions() rules.Options {
	opts := rules.DefaultOptions()
	if c.Style.MaxLineLength > 0 {
		opts.MaxLineLen = c.Style.MaxLineLength
	}
	if c.Style.IndentWidth > 0 {
		opts.IndentWidth = c.Style.IndentWidth
	}
	opts.LocalPrefixes = c.Imports.LocalPrefixes
	return opts
}

// Find walks up from startDir looking for pystyle.toml.
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

// Load discovers and parses the manifest. The second return is false
// when no manifest was found; the defaults are returned in that case.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	cfg, err := parseFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parseFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if len(meta.Undecoded()) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, meta.Undecoded()[0].String())
	}
	if err := validate(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(path string, cfg Config) error {
	switch cfg.Output.Format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("%s: [output].format must be pretty, short or json", path)
	}
	switch cfg.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: [output].color must be auto, always or never", path)
	}
	if cfg.Style.MaxLineLength < 0 || cfg.Style.IndentWidth < 0 || cfg.Style.MaxViolations < 0 {
		return fmt.Errorf("%s: [style] values must be non-negative", path)
	}
	return nil
}

// WriteDefault writes a starter manifest into dir. Fails if one exists.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	const starter = `[style]
max_line_length = 100
indent_width = 4
max_violations = 1000

[imports]
local_prefixes = []

[output]
format = "pretty"
color = "auto"
`
	if err := os.WriteFile(path, []byte(starter), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

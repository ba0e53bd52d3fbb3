// Package config loads the settings of the lark command from TOML, YAML or
// JSON-with-comments files
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/isaacev/Lark/frontend"
)

// Validation and format errors, test with errors.Is
var (
	ErrInvalidTabWidth  = errors.New("tab_width must be between 1 and 16")
	ErrInvalidMaxErrors = errors.New("max_errors must not be negative")
	ErrUnknownFormat    = errors.New("unknown config format")
	ErrUnknownKey       = errors.New("unknown config key")
)

// Format is the encoding of a config file
type Format int

// Supported formats
const (
	FormatTOML Format = iota
	FormatYAML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Config holds every setting of the lark command. MaxErrors of zero prints
// every diagnostic
type Config struct {
	Color                bool `toml:"color" yaml:"color" json:"color"`
	MaxErrors            int  `toml:"max_errors" yaml:"max_errors" json:"max_errors"`
	TabWidth             int  `toml:"tab_width" yaml:"tab_width" json:"tab_width"`
	LexicalErrorsAtStart bool `toml:"lexical_errors_at_start" yaml:"lexical_errors_at_start" json:"lexical_errors_at_start"`
	Verbose              bool `toml:"verbose" yaml:"verbose" json:"verbose"`
}

// Default returns the settings used when no config file is found
func Default() Config {
	return Config{
		Color:     true,
		MaxErrors: 20,
		TabWidth:  frontend.DefaultTabWidth,
	}
}

// DiscoveryNames are the file names Discover looks for, in order
var DiscoveryNames = []string{"lark.toml", "lark.yaml", "lark.yml", "lark.json"}

// DetectFormat picks a format from a file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".hujson":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads a config file on top of the defaults and validates the result
func Load(path string) (Config, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Config{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(content, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes config content on top of the defaults and validates the
// result. Keys that do not name a setting are rejected
func Parse(content []byte, format Format) (Config, error) {
	cfg := Default()

	switch format {
	case FormatTOML:
		meta, err := toml.Decode(string(content), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parsing toml: %w", err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}

			sort.Strings(keys)
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)

		// an empty document leaves the defaults in place
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON:
		standard, err := hujson.Standardize(content)
		if err != nil {
			return Config{}, fmt.Errorf("parsing json: %w", err)
		}

		dec := json.NewDecoder(bytes.NewReader(standard))
		dec.DisallowUnknownFields()

		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parsing json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Discover loads the first of DiscoveryNames found in dir. When none exists
// the defaults are returned along with an empty path
func Discover(dir string) (Config, string, error) {
	for _, name := range DiscoveryNames {
		path := filepath.Join(dir, name)

		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return Config{}, "", fmt.Errorf("looking for config file: %w", err)
		}

		if info.IsDir() {
			continue
		}

		cfg, err := Load(path)
		return cfg, path, err
	}

	return Default(), "", nil
}

// Validate checks that every setting is in range
func (c Config) Validate() error {
	if c.TabWidth < 1 || c.TabWidth > 16 {
		return fmt.Errorf("%w, got %d", ErrInvalidTabWidth, c.TabWidth)
	}

	if c.MaxErrors < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidMaxErrors, c.MaxErrors)
	}

	return nil
}

// ParserOptions maps the settings onto the options of the front-end
func (c Config) ParserOptions() frontend.Options {
	return frontend.Options{
		TabWidth:             c.TabWidth,
		LexicalErrorsAtStart: c.LexicalErrorsAtStart,
	}
}

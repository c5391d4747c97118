// Package config loads vuec.toml, the per-project compiler settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"vuec/internal/buildpipeline"
	"vuec/internal/codegen"
	"vuec/internal/flags"
	"vuec/internal/parser"
)

// FileName is the manifest looked up from the working directory upwards.
const FileName = "vuec.toml"

const defaultMaxDiagnostics = 100

type Compile struct {
	Mode               string   `toml:"mode"`
	Dev                bool     `toml:"dev"`
	Comments           bool     `toml:"comments"`
	HoistStatic        *bool    `toml:"hoist_static"`
	StringifyThreshold int      `toml:"stringify_threshold"`
	Whitespace         string   `toml:"whitespace"`
	SelfName           string   `toml:"self_name"`
	KnownConstants     []string `toml:"known_constants"`
	RuntimeModule      string   `toml:"runtime_module"`
	RuntimeGlobal      string   `toml:"runtime_global"`
	CustomElements     []string `toml:"custom_elements"`
}

type Helpers struct {
	// Custom names helper ids from flags.ReservedMax upwards.
	Custom []string `toml:"custom"`
	// Inject lists helpers (built-in or custom) every render imports.
	Inject []string `toml:"inject"`
}

type Diagnostics struct {
	Max int `toml:"max"`
}

// Config mirrors vuec.toml.
type Config struct {
	Compile     Compile     `toml:"compile"`
	Helpers     Helpers     `toml:"helpers"`
	Diagnostics Diagnostics `toml:"diagnostics"`
}

// Manifest is a loaded vuec.toml with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the settings used when no manifest exists.
func Default() Config {
	hoist := true
	return Config{
		Compile:     Compile{Mode: "module", HoistStatic: &hoist, StringifyThreshold: 20},
		Diagnostics: Diagnostics{Max: defaultMaxDiagnostics},
	}
}

// Find walks from startDir to the filesystem root looking for vuec.toml.
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

// Discover finds and loads the nearest manifest; ok is false when none exists.
func Discover(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compile", "stringify_threshold") && cfg.Compile.StringifyThreshold <= 0 {
		return Config{}, fmt.Errorf("%s: [compile].stringify_threshold must be positive", path)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// имена из конфига сравниваются с тегами и идентификаторами шаблона
func (c *Config) normalize() {
	c.Compile.SelfName = norm.NFC.String(strings.TrimSpace(c.Compile.SelfName))
	for i, s := range c.Compile.KnownConstants {
		c.Compile.KnownConstants[i] = norm.NFC.String(strings.TrimSpace(s))
	}
	for i, s := range c.Helpers.Custom {
		c.Helpers.Custom[i] = strings.TrimSpace(s)
	}
	for i, s := range c.Helpers.Inject {
		c.Helpers.Inject[i] = strings.TrimSpace(s)
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := codegen.ParseMode(c.Compile.Mode); err != nil {
		errs = append(errs, fmt.Errorf("[compile].mode: %w", err))
	}
	if _, err := whitespace(c.Compile.Whitespace); err != nil {
		errs = append(errs, err)
	}
	if c.Compile.StringifyThreshold < 0 {
		errs = append(errs, errors.New("[compile].stringify_threshold must be positive"))
	}
	if c.Diagnostics.Max < 0 {
		errs = append(errs, errors.New("[diagnostics].max must not be negative"))
	}
	if limit := flags.MaxHelpers - int(flags.ReservedMax); len(c.Helpers.Custom) > limit {
		errs = append(errs, fmt.Errorf("[helpers].custom: %d names, at most %d fit", len(c.Helpers.Custom), limit))
	}
	seen := make(map[string]bool, len(c.Helpers.Custom))
	for _, name := range c.Helpers.Custom {
		switch {
		case name == "":
			errs = append(errs, errors.New("[helpers].custom: empty name"))
		case seen[name]:
			errs = append(errs, fmt.Errorf("[helpers].custom: duplicate %q", name))
		default:
			if _, builtin := flags.LookupHelper(name); builtin {
				errs = append(errs, fmt.Errorf("[helpers].custom: %q shadows a built-in helper", name))
			}
		}
		seen[name] = true
	}
	for _, name := range c.Helpers.Inject {
		if _, ok := c.helper(name); !ok {
			errs = append(errs, fmt.Errorf("[helpers].inject: unknown helper %q", name))
		}
	}
	return errors.Join(errs...)
}

func (c Config) helper(name string) (flags.RuntimeHelper, bool) {
	if h, ok := flags.LookupHelper(name); ok {
		return h, true
	}
	for i, custom := range c.Helpers.Custom {
		if custom == name && int(flags.ReservedMax)+i < flags.MaxHelpers {
			return flags.CustomHelper(i), true
		}
	}
	return 0, false
}

func whitespace(s string) (parser.WhitespaceMode, error) {
	switch s {
	case "", "condense":
		return parser.WhitespaceCondense, nil
	case "preserve":
		return parser.WhitespacePreserve, nil
	}
	return 0, fmt.Errorf("[compile].whitespace: unknown mode %q (expected: condense|preserve)", s)
}

// Options turns a validated config into pipeline options.
func (c Config) Options() (buildpipeline.Options, error) {
	if err := c.Validate(); err != nil {
		return buildpipeline.Options{}, err
	}
	mode, _ := codegen.ParseMode(c.Compile.Mode)
	ws, _ := whitespace(c.Compile.Whitespace)
	var opts buildpipeline.Options

	opts.Parse.Whitespace = ws
	// комментарии живут только в dev-сборке
	opts.Parse.Comments = c.Compile.Comments && c.Compile.Dev
	if len(c.Compile.CustomElements) > 0 {
		custom := make(map[string]bool, len(c.Compile.CustomElements))
		for _, tag := range c.Compile.CustomElements {
			custom[tag] = true
		}
		opts.Parse.IsCustomElement = func(tag string) bool { return custom[tag] }
	}

	opts.Convert.SelfName = c.Compile.SelfName
	for _, name := range c.Helpers.Inject {
		h, _ := c.helper(name)
		opts.Convert.Inject = append(opts.Convert.Inject, h)
	}

	opts.Transform.Dev = c.Compile.Dev
	opts.Transform.HoistStatic = c.Compile.HoistStatic == nil || *c.Compile.HoistStatic
	opts.Transform.StringifyThreshold = c.Compile.StringifyThreshold
	opts.Transform.KnownConstants = c.Compile.KnownConstants
	opts.Transform.SelfName = c.Compile.SelfName

	opts.Codegen.Mode = mode
	opts.Codegen.Dev = c.Compile.Dev
	opts.Codegen.RuntimeModule = c.Compile.RuntimeModule
	opts.Codegen.RuntimeGlobal = c.Compile.RuntimeGlobal
	opts.Codegen.CustomHelpers = c.Helpers.Custom
	return opts, nil
}

// MaxDiagnostics is the diagnostic cap; zero means the default.
func (c Config) MaxDiagnostics() int {
	if c.Diagnostics.Max == 0 {
		return defaultMaxDiagnostics
	}
	return c.Diagnostics.Max
}

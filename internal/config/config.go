package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"chamber/internal/analyzer"
	"chamber/internal/format"
)

// ErrNotFound is returned by Find and Discover when no config file exists
// between the start directory and the filesystem root.
var ErrNotFound = errors.New("config: no chamber.toml or chamber.yaml found")

// FileNames are probed in this order in every directory.
var FileNames = []string{"chamber.toml", "chamber.yaml", "chamber.yml"}

// Check holds the [check] table.
type Check struct {
	// Jobs limits parallel workers; 0 means GOMAXPROCS.
	Jobs           int  `toml:"jobs" yaml:"jobs"`
	Cache          bool `toml:"cache" yaml:"cache"`
	MaxDiagnostics int  `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

// Config is the decoded file. Path is empty for the built-in defaults.
type Config struct {
	Format   format.Config   `toml:"format" yaml:"format"`
	Analyzer analyzer.Config `toml:"analyzer" yaml:"analyzer"`
	Check    Check           `toml:"check" yaml:"check"`

	Path string `toml:"-" yaml:"-"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Format:   format.Default(),
		Analyzer: analyzer.DefaultConfig(),
		Check:    Check{Cache: true, MaxDiagnostics: 100},
	}
}

// Find walks up from startDir and returns the first config file path.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("config: resolve %q: %w", startDir, err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("config: stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Discover finds and loads the nearest config file. Missing files are not an
// error: the defaults come back together with ErrNotFound so callers can
// tell the two apart with errors.Is.
func Discover(startDir string) (Config, error) {
	path, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	return Load(path)
}

// Load reads path, choosing the decoder by extension. Keys absent from the
// file keep their default values.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Decode(data, formatOf(path))
	if err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Syntax names a config file format.
type Syntax uint8

const (
	SyntaxTOML Syntax = iota
	SyntaxYAML
)

func formatOf(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	default:
		return SyntaxTOML
	}
}

// Decode parses data over Default and validates the result.
func Decode(data []byte, syntax Syntax) (Config, error) {
	cfg := Default()
	switch syntax {
	case SyntaxYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// пустой YAML-документ даёт io.EOF, это не ошибка
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Default(), fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Default(), fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks values the decoders accept but chamber does not.
func (c Config) Validate() error {
	if c.Check.Jobs < 0 {
		return fmt.Errorf("check.jobs must be >= 0, got %d", c.Check.Jobs)
	}
	if c.Check.MaxDiagnostics < 0 {
		return fmt.Errorf("check.max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics)
	}
	if c.Format.MaxLineWidth < 0 {
		return fmt.Errorf("format.max_line_width must be >= 0, got %d", c.Format.MaxLineWidth)
	}
	return analyzer.Builtin().Validate(c.Analyzer)
}

// EncodeTOML renders cfg the way "chamber init" writes it.
func EncodeTOML(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# chamber configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

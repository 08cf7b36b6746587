package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/csvsum/internal/engine"
	csvio "github.com/peekknuf/csvsum/internal/io"
	"github.com/peekknuf/csvsum/internal/parser"
	"github.com/peekknuf/csvsum/internal/profiler"
)

// EnvPrefix prefixes every environment variable, e.g. CSVSUM_SEPARATOR
const EnvPrefix = "CSVSUM"

// DefaultFileName is looked up in the home directory when no config file is given
const DefaultFileName = ".csvsum.yaml"

// AutoSeparator asks for the separator to be detected from the file
const AutoSeparator = "auto"

// Settings represents the complete application configuration
type Settings struct {
	Separator string `yaml:"separator" envconfig:"SEPARATOR"`
	LineBreak string `yaml:"line_break" envconfig:"LINE_BREAK"`
	Escape    string `yaml:"escape_char" envconfig:"ESCAPE_CHAR"`
	Quote     string `yaml:"quote_char" envconfig:"QUOTE_CHAR"`
	NoHeader  bool   `yaml:"no_header" envconfig:"NO_HEADER"`
	TopK      int    `yaml:"no_most_freq" envconfig:"NO_MOST_FREQ"`
	Samples   int    `yaml:"sample" envconfig:"SAMPLE"`
	BlockRead int    `yaml:"block_read" envconfig:"BLOCK_READ"`
	Seed      uint64 `yaml:"seed" envconfig:"SEED"`

	Scan    ScanSettings  `yaml:"scan" envconfig:"SCAN"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOG"`
}

// ScanSettings contains directory scan configuration
type ScanSettings struct {
	SampleThreshold int64 `yaml:"sample_threshold" envconfig:"SAMPLE_THRESHOLD"`
	Workers         int   `yaml:"workers" envconfig:"WORKERS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Separator: ",",
		LineBreak: "\n",
		Escape:    "\\",
		Quote:     "",
		TopK:      profiler.DefaultTopK,
		BlockRead: csvio.DefaultBlockSize,
		Scan: ScanSettings{
			SampleThreshold: engine.DefaultSampleThreshold,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load layers defaults, the YAML file, a .env file and the environment.
// An empty path falls back to $HOME/.csvsum.yaml when it exists.
func Load(path string) (Settings, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = defaultPath()
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(path string, cfg *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ParseChar converts a one-character setting. The notations \t, \n, \r and
// \0 are accepted for characters that are awkward to pass on a command
// line. An empty value yields 0, meaning "disabled".
func ParseChar(field, value string) (byte, error) {
	switch value {
	case "":
		return 0, nil
	case `\t`:
		return '\t', nil
	case `\n`:
		return '\n', nil
	case `\r`:
		return '\r', nil
	case `\0`:
		return 0, nil
	}
	if len(value) > 1 {
		return 0, &engine.ConfigError{
			Field:  field,
			Value:  value,
			Reason: "only a single character can be specified",
		}
	}
	return value[0], nil
}

// Dialect converts the character settings. An "auto" separator is
// returned as 0 and must be resolved by the caller.
func (s Settings) Dialect() (parser.Dialect, error) {
	var d parser.Dialect
	var err error

	if s.Separator != AutoSeparator {
		if d.Separator, err = ParseChar("separator", s.Separator); err != nil {
			return d, err
		}
	}
	if d.LineBreak, err = ParseChar("line_break", s.LineBreak); err != nil {
		return d, err
	}
	if d.Escape, err = ParseChar("escape_char", s.Escape); err != nil {
		return d, err
	}
	if d.Quote, err = ParseChar("quote_char", s.Quote); err != nil {
		return d, err
	}
	return d, nil
}

// Engine builds the summarization config for path. A positive sample
// count selects sampling mode, which does not support quoting.
func (s Settings) Engine(path string) (engine.Config, error) {
	cfg := engine.DefaultConfig(path)

	dialect, err := s.Dialect()
	if err != nil {
		return cfg, err
	}
	cfg.Dialect = dialect
	cfg.Header = !s.NoHeader
	cfg.TopK = s.TopK
	cfg.BlockSize = s.BlockRead
	cfg.Seed = s.Seed

	if s.Samples < 0 {
		return cfg, &engine.ConfigError{Field: "sample", Value: fmt.Sprint(s.Samples), Reason: "must not be negative"}
	}
	if s.Samples > 0 {
		cfg.Mode = engine.ModeSample
		cfg.Samples = s.Samples
		if dialect.Quote != 0 {
			return cfg, &engine.ConfigError{
				Field:  "quote_char",
				Value:  s.Quote,
				Reason: "quote characters are not supported in sampling mode",
			}
		}
	}
	return cfg, nil
}

package engine

import (
	"fmt"
	"log/slog"
	"strconv"

	csvio "github.com/peekknuf/csvsum/internal/io"
	"github.com/peekknuf/csvsum/internal/parser"
	"github.com/peekknuf/csvsum/internal/profiler"
)

// Mode selects how the file is read
type Mode int

const (
	// ModeFull reads every row; counts are exact
	ModeFull Mode = iota
	// ModeSample reads lines at random offsets; counts are estimates
	ModeSample
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeSample:
		return "sample"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// DefaultSamples is the sample count used when sampling without an explicit count
const DefaultSamples = 1000

// ProgressFunc receives the amount of work done out of total. Full scans
// report bytes, sampling reports lines drawn.
type ProgressFunc func(done, total int64)

// Config holds everything one summarization needs
type Config struct {
	Path    string
	Dialect parser.Dialect
	Header  bool
	TopK    int

	Mode      Mode
	Samples   int
	BlockSize int
	// Seed for the offset generator; 0 picks a random seed
	Seed uint64

	BufferSize int
	Progress   ProgressFunc
	Logger     *slog.Logger
}

// DefaultConfig returns a full-scan configuration for path
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		Dialect:    parser.DefaultDialect(),
		Header:     true,
		TopK:       profiler.DefaultTopK,
		Mode:       ModeFull,
		Samples:    DefaultSamples,
		BlockSize:  csvio.DefaultBlockSize,
		BufferSize: csvio.DefaultBufferSize,
	}
}

// Validate checks the configuration before any file is touched
func (c Config) Validate() error {
	if c.Path == "" {
		return &ConfigError{Field: "path", Reason: "must not be empty"}
	}
	if c.Dialect.Separator == 0 {
		return &ConfigError{Field: "separator", Reason: "must be set"}
	}
	if c.Dialect.LineBreak == 0 {
		return &ConfigError{Field: "line break", Reason: "must be set"}
	}

	chars := []struct {
		field string
		c     byte
	}{
		{"separator", c.Dialect.Separator},
		{"line break", c.Dialect.LineBreak},
		{"escape character", c.Dialect.Escape},
		{"quote character", c.Dialect.Quote},
	}
	for i := range chars {
		for j := i + 1; j < len(chars); j++ {
			if chars[i].c != 0 && chars[i].c == chars[j].c {
				return &ConfigError{
					Field:  chars[j].field,
					Value:  string(chars[j].c),
					Reason: fmt.Sprintf("same as the %s", chars[i].field),
				}
			}
		}
	}

	if c.TopK < 1 {
		return &ConfigError{Field: "number of frequent values", Value: strconv.Itoa(c.TopK), Reason: "must be positive"}
	}

	switch c.Mode {
	case ModeFull:
	case ModeSample:
		if c.Samples < 1 {
			return &ConfigError{Field: "sample size", Value: strconv.Itoa(c.Samples), Reason: "must be positive"}
		}
		if c.BlockSize < 1 {
			return &ConfigError{Field: "block size", Value: strconv.Itoa(c.BlockSize), Reason: "must be positive"}
		}
	default:
		return &ConfigError{Field: "mode", Value: c.Mode.String(), Reason: "unknown"}
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c Config) progress(done, total int64) {
	if c.Progress != nil {
		c.Progress(done, total)
	}
}

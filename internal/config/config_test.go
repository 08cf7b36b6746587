package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/csvsum/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "csvsum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
separator: ";"
no_most_freq: 5
sample: 200
scan:
  workers: 2
logging:
  level: debug
`)
	t.Setenv("CSVSUM_NO_MOST_FREQ", "7")
	t.Setenv("CSVSUM_SCAN_SAMPLE_THRESHOLD", "1024")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ";", cfg.Separator)
	assert.Equal(t, 7, cfg.TopK)
	assert.Equal(t, 200, cfg.Samples)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, int64(1024), cfg.Scan.SampleThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched settings keep their defaults
	assert.Equal(t, "\n", cfg.LineBreak)
	assert.Equal(t, "\\", cfg.Escape)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().TopK, cfg.TopK)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "sample: [not a number"))
	assert.Error(t, err)
}

func TestParseChar(t *testing.T) {
	tests := []struct {
		in   string
		want byte
	}{
		{",", ','},
		{"", 0},
		{`\t`, '\t'},
		{`\n`, '\n'},
		{`\r`, '\r'},
		{`\0`, 0},
		{"\\", '\\'},
	}
	for _, tc := range tests {
		got, err := ParseChar("sep", tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseChar("sep", ",,")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrConfig)
	assert.Contains(t, err.Error(), "single character")
}

func TestSettingsEngine(t *testing.T) {
	s := Defaults()
	s.Separator = `\t`
	s.NoHeader = true
	s.TopK = 4

	cfg, err := s.Engine("data.tsv")
	require.NoError(t, err)
	assert.Equal(t, byte('\t'), cfg.Dialect.Separator)
	assert.False(t, cfg.Header)
	assert.Equal(t, 4, cfg.TopK)
	assert.Equal(t, engine.ModeFull, cfg.Mode)
	assert.NoError(t, cfg.Validate())

	s.Samples = 100
	cfg, err = s.Engine("data.tsv")
	require.NoError(t, err)
	assert.Equal(t, engine.ModeSample, cfg.Mode)
	assert.Equal(t, 100, cfg.Samples)
}

func TestSettingsEngineErrors(t *testing.T) {
	s := Defaults()
	s.Samples = 10
	s.Quote = `"`
	_, err := s.Engine("x.csv")
	assert.ErrorIs(t, err, engine.ErrConfig)

	s = Defaults()
	s.Escape = "ab"
	_, err = s.Engine("x.csv")
	assert.ErrorIs(t, err, engine.ErrConfig)

	s = Defaults()
	s.Samples = -1
	_, err = s.Engine("x.csv")
	assert.ErrorIs(t, err, engine.ErrConfig)
}

func TestSettingsAutoSeparator(t *testing.T) {
	s := Defaults()
	s.Separator = AutoSeparator

	d, err := s.Dialect()
	require.NoError(t, err)
	assert.Zero(t, d.Separator)
}

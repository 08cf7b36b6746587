package engine

import (
	"time"

	"github.com/peekknuf/csvsum/internal/profiler"
)

// Result contains the complete analysis of one file
type Result struct {
	Path  string
	Mode  Mode
	Names []string
	Stats []profiler.CellStats
	// RowCount is exact for full scans and estimated when sampling
	RowCount int64
	Exact    bool
	Samples  int
	FileSize int64
	// DataSize is FileSize without the header line
	DataSize int64
	Warnings []string

	ReadTime  time.Duration
	StatsTime time.Duration
}

// Summarize reads the file with the configured mode and reduces every
// column to its statistics. Configuration and I/O errors abort the whole
// call; no partial result is returned with them.
func Summarize(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger()

	start := time.Now()
	var scan *Scan
	var err error
	switch cfg.Mode {
	case ModeSample:
		scan, err = Sample(cfg)
	default:
		scan, err = FullScan(cfg)
	}
	if err != nil {
		return nil, err
	}
	readTime := time.Since(start)

	start = time.Now()
	stats := profiler.ReduceAll(scan.Tables, cfg.TopK)
	statsTime := time.Since(start)

	logger.Debug("Summarized file",
		"path", cfg.Path,
		"mode", cfg.Mode.String(),
		"read_time", readTime,
		"stats_time", statsTime)

	return &Result{
		Path:      cfg.Path,
		Mode:      cfg.Mode,
		Names:     scan.Names,
		Stats:     stats,
		RowCount:  scan.RowCount,
		Exact:     scan.Exact,
		Samples:   scan.Samples,
		FileSize:  scan.FileSize,
		DataSize:  scan.DataSize,
		Warnings:  scan.Warnings,
		ReadTime:  readTime,
		StatsTime: statsTime,
	}, nil
}

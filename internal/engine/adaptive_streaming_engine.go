package engine

import (
	"fmt"
	"os"
)

// DefaultSampleThreshold is the file size above which scan samples instead
// of reading everything
const DefaultSampleThreshold = 50 * 1024 * 1024

// FileStats contains file metadata for adaptive processing
type FileStats struct {
	Path string
	Size int64
	Mode Mode
}

// ChooseMode samples files larger than threshold. A threshold <= 0 always
// reads the whole file.
func ChooseMode(size, threshold int64) Mode {
	if threshold > 0 && size > threshold {
		return ModeSample
	}
	return ModeFull
}

// PlanFile determines the read strategy for path based on its size
func PlanFile(path string, threshold int64) (FileStats, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return FileStats{}, &IOError{Path: path, Op: "stat", Err: err}
	}
	if fileInfo.IsDir() {
		return FileStats{}, &IOError{Path: path, Op: "stat", Err: fmt.Errorf("is a directory")}
	}

	size := fileInfo.Size()
	return FileStats{
		Path: path,
		Size: size,
		Mode: ChooseMode(size, threshold),
	}, nil
}

// Apply sets the planned mode on cfg, keeping its sampling parameters
func (f FileStats) Apply(cfg Config) Config {
	cfg.Path = f.Path
	cfg.Mode = f.Mode
	if cfg.Mode == ModeSample && cfg.Samples < 1 {
		cfg.Samples = DefaultSamples
	}
	return cfg
}

package engine

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"

	csvio "github.com/peekknuf/csvsum/internal/io"
	"github.com/peekknuf/csvsum/internal/parser"
	"github.com/peekknuf/csvsum/internal/profiler"
)

// Sample estimates column statistics from cfg.Samples lines drawn at
// uniformly random byte offsets. A line containing a random offset is
// picked with probability proportional to its length, so each sampled
// row is weighted by 1/length. Quoting is disabled: the quote state at an
// arbitrary offset cannot be known without reading from the file start.
func Sample(cfg Config) (*Scan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dialect.Quote != 0 {
		cfg.logger().Warn("Quote character ignored in sampling mode", "quote", string(cfg.Dialect.Quote))
	}
	cfg.Dialect = cfg.Dialect.WithoutQuote()
	logger := cfg.logger().With("path", cfg.Path, "mode", ModeSample.String())

	src, err := csvio.Open(cfg.Path)
	if err != nil {
		return nil, &IOError{Path: cfg.Path, Op: "open", Err: err}
	}
	defer src.Close()

	builder := profiler.NewBuilder(cfg.Header)

	var minOffset int64
	if cfg.Header {
		names, n, err := readHeader(src, cfg)
		if err != nil {
			return nil, &IOError{Path: cfg.Path, Op: "read header", Err: err}
		}
		if names != nil {
			builder.SetNames(names)
		}
		minOffset = n
	}
	maxOffset := src.Size()
	dataSize := maxOffset - minOffset

	logger.Debug("Sampling file",
		"size", src.Size(),
		"data_start", minOffset,
		"samples", cfg.Samples,
		"block", cfg.BlockSize)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	locator := csvio.NewLineLocator(src, minOffset, maxOffset, cfg.BlockSize,
		cfg.Dialect.LineBreak, cfg.Dialect.Escape)

	var weight float64
	tok := parser.NewTokenizer(cfg.Dialect, func(row []string) {
		builder.Add(row, weight)
	})

	var lengths []float64
	if dataSize > 0 {
		lengths = make([]float64, 0, cfg.Samples)
		for i := 0; i < cfg.Samples; i++ {
			offset := minOffset + rng.Int64N(dataSize)
			line, err := locator.LineAt(offset)
			if err != nil {
				return nil, &IOError{Path: cfg.Path, Op: "sample", Err: err}
			}

			weight = 1 / float64(len(line))
			lengths = append(lengths, float64(len(line)))

			tok.Reset()
			tok.Write(line)
			tok.Flush()

			cfg.progress(int64(i+1), int64(cfg.Samples))
		}
	} else {
		logger.Warn("No data rows to sample")
	}

	rows, err := estimateRows(dataSize, lengths)
	if err != nil {
		return nil, err
	}

	scan := &Scan{
		Names:    builder.Names(),
		Tables:   builder.Tables(),
		RowCount: rows,
		FileSize: src.Size(),
		DataSize: dataSize,
		Samples:  len(lengths),
	}
	if builder.Overflow() {
		scan.Warnings = append(scan.Warnings, overflowWarning)
		logger.Warn("Rows wider than header",
			"header_columns", len(scan.Names),
			"columns", len(scan.Tables))
	}

	logger.Debug("Sampling complete", "estimated_rows", rows, "columns", len(scan.Tables), "seed", seed)
	return scan, nil
}

// estimateRows divides the data size by the average line width. Offsets
// over-represent long lines, so the unbiased average width is the harmonic
// mean of the sampled widths.
func estimateRows(dataSize int64, lengths []float64) (int64, error) {
	if len(lengths) == 0 {
		return 0, nil
	}
	width, err := stats.HarmonicMean(lengths)
	if err != nil {
		return 0, fmt.Errorf("estimating row width: %w", err)
	}
	return int64(math.Round(float64(dataSize) / width)), nil
}

// readHeader tokenizes the first line and returns its cells and length
func readHeader(src *csvio.Source, cfg Config) ([]string, int64, error) {
	var names []string
	done := false
	tok := parser.NewTokenizer(cfg.Dialect, func(row []string) {
		names = row
		done = true
	})

	r := src.Reader(0, cfg.BlockSize)
	for !done {
		c, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			tok.Flush()
			break
		}
		if err != nil {
			return nil, 0, err
		}
		tok.WriteByte(c)
	}
	return names, tok.Consumed(), nil
}

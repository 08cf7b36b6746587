package engine

import (
	"errors"
	"fmt"
	"io"

	csvio "github.com/peekknuf/csvsum/internal/io"
	"github.com/peekknuf/csvsum/internal/parser"
	"github.com/peekknuf/csvsum/internal/profiler"
)

// Scan is the outcome of reading a file, before reduction
type Scan struct {
	Names    []string
	Tables   []profiler.FrequencyTable
	RowCount int64
	Exact    bool
	FileSize int64
	// DataSize excludes the header line
	DataSize int64
	// Samples is the number of lines drawn in sampling mode
	Samples  int
	Warnings []string
}

const overflowWarning = "some rows contain more values than the header declares; " +
	"the separator, quote or escape character may be misconfigured"

const openQuoteWarning = "the file ends inside a quoted value; " +
	"the quote character may be misconfigured"

func isBlankRow(row []string) bool {
	return len(row) == 1 && row[0] == ""
}

// FullScan reads every row of the file with unit weights
func FullScan(cfg Config) (*Scan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger().With("path", cfg.Path, "mode", ModeFull.String())

	src, err := csvio.Open(cfg.Path)
	if err != nil {
		return nil, &IOError{Path: cfg.Path, Op: "open", Err: err}
	}
	defer src.Close()

	size := src.Size()
	logger.Debug("Reading file", "size", size)

	builder := profiler.NewBuilder(cfg.Header)

	// A blank row is held back so that one produced by a trailing line
	// break can be dropped once the input ends.
	var blank []string
	var tok *parser.Tokenizer
	headerSize := int64(-1)
	tok = parser.NewTokenizer(cfg.Dialect, func(row []string) {
		if cfg.Header && headerSize < 0 {
			headerSize = tok.Consumed()
		}
		if blank != nil {
			builder.Add(blank, 1)
			blank = nil
		}
		if isBlankRow(row) {
			blank = row
			return
		}
		builder.Add(row, 1)
	})

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = csvio.DefaultBufferSize
	}
	r := src.Reader(0, bufferSize)
	buf := make([]byte, bufferSize)

	var done int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			tok.Write(buf[:n])
			done += int64(n)
			cfg.progress(done, size)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &IOError{Path: cfg.Path, Op: "read", Err: fmt.Errorf("after %d bytes: %w", done, err)}
		}
	}
	unterminated := tok.State().Quoted
	tok.Flush()

	scan := &Scan{
		Names:    builder.Names(),
		Tables:   builder.Tables(),
		RowCount: builder.Rows(),
		Exact:    true,
		FileSize: size,
		DataSize: size,
	}
	if headerSize > 0 {
		scan.DataSize = size - headerSize
	}
	if builder.Overflow() {
		scan.Warnings = append(scan.Warnings, overflowWarning)
		logger.Warn("Rows wider than header",
			"header_columns", len(scan.Names),
			"columns", len(scan.Tables))
	}

	if unterminated {
		scan.Warnings = append(scan.Warnings, openQuoteWarning)
		logger.Warn("Unterminated quoted value at end of file")
	}

	logger.Debug("Read complete",
		"rows", scan.RowCount,
		"tokenized_rows", tok.Rows(),
		"data_size", scan.DataSize,
		"columns", len(scan.Tables))
	return scan, nil
}

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/peekknuf/csvsum/internal/config"
	"github.com/peekknuf/csvsum/internal/engine"
	csvio "github.com/peekknuf/csvsum/internal/io"
	"github.com/peekknuf/csvsum/internal/parser"
	"github.com/peekknuf/csvsum/internal/profiler"
	"github.com/peekknuf/csvsum/internal/report"
)

// Bytes inspected when the separator is detected
const detectBytes = 64 * 1024

var (
	sepFlag       string
	lineBreakFlag string
	escapeFlag    string
	quoteFlag     string
	sampleFlag    int
	noHeaderFlag  bool
	topKFlag      int
	blockReadFlag int
	seedFlag      uint64
	workersFlag   int

	verbose      bool
	outputFile   string
	outputFormat string
)

func addReadFlags(fs *pflag.FlagSet) {
	fs.StringVar(&sepFlag, "sep", ",",
		`Separator character, or "auto" to detect it`)
	fs.StringVarP(&lineBreakFlag, "line-break", "l", `\n`,
		"Line break character")
	fs.StringVarP(&escapeFlag, "escape-char", "e", `\`,
		"Escape character, empty to disable")
	fs.StringVarP(&quoteFlag, "quote-char", "q", "",
		"Quote character, empty to disable (not supported when sampling)")
	fs.IntVarP(&sampleFlag, "sample", "s", 0,
		"Number of lines to sample instead of reading the whole file")
	fs.BoolVar(&noHeaderFlag, "no-header", false,
		"The first line holds data, not column names")
	fs.IntVarP(&topKFlag, "no-most-freq", "n", profiler.DefaultTopK,
		"Number of most frequent values to report")
	fs.IntVarP(&blockReadFlag, "block-read", "b", csvio.DefaultBlockSize,
		"Bytes read per step when searching for line boundaries")
	fs.Uint64Var(&seedFlag, "seed", 0,
		"Seed for sampling offsets (0 picks a random seed)")
	fs.IntVar(&workersFlag, "workers", 0,
		"Files summarized in parallel (default: number of CPUs)")
}

func addOutputFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false,
		"Show processing time")
	fs.StringVarP(&outputFile, "output", "o", "",
		"Write results to a file; .xlsx and .json select the format")
	fs.StringVarP(&outputFormat, "format", "f", "table",
		"Output format (table, json)")
}

// applyFlags overlays explicitly set flags onto s
func applyFlags(fs *pflag.FlagSet, s *config.Settings) {
	if fs.Changed("sep") {
		s.Separator = sepFlag
	}
	if fs.Changed("line-break") {
		s.LineBreak = lineBreakFlag
	}
	if fs.Changed("escape-char") {
		s.Escape = escapeFlag
	}
	if fs.Changed("quote-char") {
		s.Quote = quoteFlag
	}
	if fs.Changed("sample") {
		s.Samples = sampleFlag
	}
	if fs.Changed("no-header") {
		s.NoHeader = noHeaderFlag
	}
	if fs.Changed("no-most-freq") {
		s.TopK = topKFlag
	}
	if fs.Changed("block-read") {
		s.BlockRead = blockReadFlag
	}
	if fs.Changed("seed") {
		s.Seed = seedFlag
	}
	if fs.Changed("workers") {
		s.Scan.Workers = workersFlag
	}
}

// resolveFormat picks the renderer from the output file extension and
// the --format flag
func resolveFormat(output, format string) (string, error) {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".xlsx":
		return "xlsx", nil
	case ".json":
		return "json", nil
	}

	switch f := strings.ToLower(format); f {
	case "", "table", "text":
		return "table", nil
	case "json":
		return f, nil
	case "xlsx":
		if output == "" {
			return "", fmt.Errorf("xlsx output needs --output")
		}
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

// writeReports renders reps to --output, or to w when no file is given
func writeReports(w io.Writer, reps []report.Report) error {
	format, err := resolveFormat(outputFile, outputFormat)
	if err != nil {
		return err
	}
	if format == "xlsx" {
		if err := report.WriteXLSX(outputFile, reps); err != nil {
			return err
		}
		logger.Info("Results saved", "path", outputFile)
		return nil
	}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		err = report.WriteJSON(w, reps)
	} else {
		for _, rep := range reps {
			if err = report.WriteTable(w, rep, verbose); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	if outputFile != "" {
		logger.Info("Results saved", "path", outputFile)
	}
	return nil
}

// engineConfig builds the summarization config for one file, resolving
// an automatic separator from the first bytes of the file
func engineConfig(s config.Settings, path string) (engine.Config, error) {
	cfg, err := s.Engine(path)
	if err != nil {
		return cfg, err
	}
	cfg.Logger = logger

	if cfg.Dialect.Separator == 0 && s.Separator == config.AutoSeparator {
		sep, err := detectSeparator(path, cfg.Dialect.LineBreak)
		if err != nil {
			return cfg, err
		}
		logger.Debug("Detected separator", "path", path, "separator", string(sep))
		cfg.Dialect.Separator = sep
	}
	return cfg, nil
}

func detectSeparator(path string, lineBreak byte) (byte, error) {
	src, err := csvio.Open(path)
	if err != nil {
		return 0, &engine.IOError{Path: path, Op: "open", Err: err}
	}
	defer src.Close()

	buf := make([]byte, min(src.Size(), detectBytes))
	n, err := src.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, &engine.IOError{Path: path, Op: "read", Err: err}
	}
	return parser.DetectDelimiter(buf[:n], lineBreak), nil
}

func newProgressBar(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] "+description),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// trackProgress drives bar from engine progress callbacks
func trackProgress(bar *progressbar.ProgressBar) engine.ProgressFunc {
	return func(done, total int64) {
		if bar.GetMax64() != total {
			bar.ChangeMax64(total)
		}
		_ = bar.Set64(done)
	}
}

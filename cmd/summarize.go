package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peekknuf/csvsum/internal/config"
	"github.com/peekknuf/csvsum/internal/engine"
	"github.com/peekknuf/csvsum/internal/report"
)

var summarizeCmd = &cobra.Command{
	Use:     "summarize [files...]",
	Aliases: []string{"describe"},
	Short:   "Print column statistics for CSV files",
	Long: `Print per-column statistics for one or more CSV files.

By default every row is read. With --sample N, N lines are drawn at random
byte offsets and weighted by their length, which keeps the run time
independent of the file size. Row counts are then estimates.

Examples:
  csvsum summarize data.csv
  csvsum summarize data.csv --sep ';' --no-most-freq 5
  csvsum summarize huge.csv --sample 10000 --seed 7
  csvsum summarize a.csv b.csv --output summary.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings
		applyFlags(cmd.Flags(), &s)

		reps, err := summarizeFiles(cmd.Context(), cmd.ErrOrStderr(), s, args, engineConfig)
		if err != nil {
			return err
		}
		return writeReports(cmd.OutOrStdout(), reps)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	addReadFlags(summarizeCmd.Flags())
	addOutputFlags(summarizeCmd.Flags())
}

type configFunc func(s config.Settings, path string) (engine.Config, error)

func workerCount(s config.Settings, files int) int {
	workers := s.Scan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, files))
}

// summarizeFiles runs one independent summarization per path, at most
// workerCount at a time. Reports keep the order of paths; the first
// failure cancels files not yet started.
func summarizeFiles(ctx context.Context, progress io.Writer, s config.Settings, paths []string, configure configFunc) ([]report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var bar *progressbar.ProgressBar
	if len(paths) > 1 {
		bar = newProgressBar(progress, int64(len(paths)), "Summarizing files...")
		defer bar.Finish()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(s, len(paths)))

	reps := make([]report.Report, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cfg, err := configure(s, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if bar == nil {
				fileBar := newProgressBar(progress, -1, "Reading "+filepath.Base(path)+"...")
				defer fileBar.Finish()
				cfg.Progress = trackProgress(fileBar)
			}

			res, err := engine.Summarize(cfg)
			if err != nil {
				return fmt.Errorf("failed to summarize %s: %w", path, err)
			}
			logger.Info("Summarized file",
				"path", path,
				"mode", res.Mode.String(),
				"rows", res.RowCount,
				"columns", len(res.Stats))

			reps[i] = report.Assemble(res)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reps, nil
}

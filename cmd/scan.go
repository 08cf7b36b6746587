package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/peekknuf/csvsum/internal/config"
	"github.com/peekknuf/csvsum/internal/connectors"
	"github.com/peekknuf/csvsum/internal/engine"
)

var (
	dirPath         string
	fileExt         string
	recursive       bool
	minSize         int64
	maxSize         int64
	sampleThreshold int64
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Summarize every CSV file in a directory",
	Long: `Discover CSV files in a directory and summarize each of them.
Files larger than --sample-threshold are sampled instead of read in full.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings
		applyFlags(cmd.Flags(), &s)
		if cmd.Flags().Changed("sample-threshold") {
			s.Scan.SampleThreshold = sampleThreshold
		}

		options := connectors.DiscoveryOptions{
			Recursive: recursive,
			MinSize:   minSize,
			MaxSize:   maxSize,
		}
		files, totalSize, err := connectors.DiscoverFiles(dirPath, fileExt, options)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		logger.Info("Discovered files",
			"dir", dirPath,
			"count", len(files),
			"size", humanize.Bytes(uint64(totalSize)))
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %s files (%s)\n",
			humanize.Comma(int64(len(files))), humanize.Bytes(uint64(totalSize)))

		paths := make([]string, len(files))
		for i, f := range files {
			paths[i] = f.Path
		}

		reps, err := summarizeFiles(cmd.Context(), cmd.ErrOrStderr(), s, paths, plannedConfig)
		if err != nil {
			return err
		}
		return writeReports(cmd.OutOrStdout(), reps)
	},
}

// plannedConfig reads small files in full and samples the ones above the
// threshold. An explicit sample size only sets how many lines are drawn.
func plannedConfig(s config.Settings, path string) (engine.Config, error) {
	samples := s.Samples
	s.Samples = 0

	cfg, err := engineConfig(s, path)
	if err != nil {
		return cfg, err
	}
	plan, err := engine.PlanFile(path, s.Scan.SampleThreshold)
	if err != nil {
		return cfg, err
	}
	if samples > 0 {
		cfg.Samples = samples
	}
	return plan.Apply(cfg), nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVarP(&dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringVar(&fileExt, "ext", "csv",
		"File extension to look for")
	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().Int64Var(&minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&maxSize, "max-size", 0,
		"Maximum file size in bytes")
	scanCmd.Flags().Int64Var(&sampleThreshold, "sample-threshold", engine.DefaultSampleThreshold,
		"Sample files larger than this many bytes (0 reads every file in full)")
	addReadFlags(scanCmd.Flags())
	addOutputFlags(scanCmd.Flags())

	scanCmd.MarkFlagRequired("dir")
}

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peekknuf/csvsum/internal/config"
	"github.com/peekknuf/csvsum/internal/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	settings config.Settings
	logger   = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "csvsum",
	Short: "Column statistics for CSV files",
	Long: `Summarize CSV files column by column: numeric share, min, max,
average, distinct count and most frequent values. Large files can be
sampled at random offsets instead of read in full.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			s.Logging.Level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			s.Logging.Format = logFormat
		}

		l, err := logging.New(s.Logging, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		settings, logger = s, l
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/"+config.DefaultFileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")
}

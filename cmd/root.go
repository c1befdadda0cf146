package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wav2mp3",
	Short: "Batch WAV to MP3 transcoder",
	Long: `wav2mp3 - converts every WAV file in a directory to MP3 on a pool of
worker goroutines.

Features:
  - RIFF/WAVE parsing with unknown chunk skipping
  - 8/16/24/32-bit integer PCM, 32/64-bit IEEE float, A-law and mu-law input
  - WAVE_FORMAT_EXTENSIBLE sub-format resolution
  - SoXR resampling for rates the MP3 encoder cannot take
  - Per-file error isolation: one bad file never stops the batch

Commands:
  - convert: Convert all .wav files in a directory
  - probe: Print the format of WAV files without converting them`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

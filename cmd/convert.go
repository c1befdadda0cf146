package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/drgolem/wav2mp3/internal/batch"
	"github.com/drgolem/wav2mp3/internal/scan"
	"github.com/drgolem/wav2mp3/internal/transcode"
	"github.com/drgolem/wav2mp3/pkg/encoders/mp3"
	"github.com/drgolem/wav2mp3/pkg/resample"

	"github.com/spf13/cobra"
)

// exitStrictFailure is returned with --strict when any file failed.
const exitStrictFailure = 2

var (
	workers     int
	resampleOn  bool
	qualityName string
	strict      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [directory]",
	Short: "Convert all WAV files in a directory to MP3",
	Long: `Convert every regular file ending in .wav (any case) in the given directory
to MP3. Subdirectories are not visited. Each output is written next to its
input with the .wav suffix replaced by .mp3; existing outputs are replaced.

Examples:
  # Convert the current directory using one worker per CPU
  wav2mp3 convert

  # Convert with 4 workers and debug logging
  wav2mp3 convert ./recordings -j 4 -v

  # Fail files with unsupported sample rates instead of resampling
  wav2mp3 convert ./recordings --resample=false

Supported Input:
  - Integer PCM: 8, 16, 24, 32 bit
  - IEEE float: 32, 64 bit
  - G.711 A-law and mu-law
  - WAVE_FORMAT_EXTENSIBLE carrying any of the above
  - Mono or stereo

Worker Count:
  --workers 0 uses $WAV2MP3_WORKERS when set, otherwise the number of CPUs.

Exit Status:
  0 when the batch ran (failed files are logged), 1 on a bad directory or
  flag, 2 with --strict when any file failed.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().IntVarP(&workers, "workers", "j", 0, "Number of worker goroutines (0 = auto)")
	convertCmd.Flags().BoolVar(&resampleOn, "resample", true, "Resample rates the MP3 encoder does not support")
	convertCmd.Flags().StringVar(&qualityName, "quality", "high", "Resampler quality: quick, low, medium, high, veryhigh")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Exit with status 2 if any file fails")
}

func runConvert(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if workers < 0 {
		slog.Error("Invalid worker count", "workers", workers)
		os.Exit(1)
	}

	quality, err := resample.ParseQuality(qualityName)
	if err != nil {
		slog.Error("Invalid resampler quality", "error", err)
		os.Exit(1)
	}

	files, err := scan.WAVFiles(dir)
	if err != nil {
		slog.Error("Failed to scan directory", "path", dir, "error", err)
		os.Exit(1)
	}

	if len(files) == 0 {
		slog.Info("No WAV files found", "path", dir)
		return
	}

	transcoder := transcode.New(mp3.NewEncoder(), transcode.Options{
		Resample: resampleOn,
		Quality:  quality,
	}, slog.Default())

	process := func(file string) error {
		status, err := transcoder.ConvertFile(file)
		if err != nil {
			return err
		}
		slog.Info("File converted",
			"file", status.FileName,
			"output", status.OutputName,
			"sample_rate", status.SampleRate,
			"channels", status.Channels,
			"resampled", status.Resampled,
			"bytes", status.OutputBytes,
			"duration", status.Elapsed.Round(time.Millisecond))
		return nil
	}

	dispatcher := batch.New(batch.Config{Workers: workers}, process, slog.Default())
	result := dispatcher.Run(files)

	printSummary(result)

	if strict && len(result.Failed) > 0 {
		os.Exit(exitStrictFailure)
	}
}

func printSummary(result batch.Result) {
	fmt.Printf("Converted %d of %d files with %d workers in %v\n",
		result.Succeeded, result.Total, result.Workers, result.Elapsed.Round(time.Millisecond))
	if len(result.Failed) == 0 {
		return
	}
	fmt.Printf("Failed (%d):\n", len(result.Failed))
	for _, fe := range result.Failed {
		fmt.Printf("  %s: %v\n", fe.File, fe.Err)
	}
}

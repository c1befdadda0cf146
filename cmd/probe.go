package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/drgolem/wav2mp3/pkg/wave"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Print the format of WAV files",
	Long: `Walk the RIFF chunks of each file and print its fmt descriptor, data size and
the chunk list, without loading sample data.

Example:
  wav2mp3 probe take1.wav take2.wav`,
	Args: cobra.MinimumNArgs(1),
	Run:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) {
	failed := 0
	for _, fileName := range args {
		info, err := wave.ProbeFile(fileName)
		if err != nil {
			slog.Error("Failed to probe file", "file", fileName, "error", err)
			failed++
			continue
		}
		printInfo(fileName, info)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printInfo(fileName string, info *wave.Info) {
	f := info.Fmt
	fmt.Printf("%s\n", fileName)
	fmt.Printf("  Format:          %v", f.FormatCode)
	if f.FormatCode == wave.FormatExtensible {
		fmt.Printf(" (%v)", f.EffectiveFormat())
	}
	fmt.Println()
	fmt.Printf("  Channels:        %d\n", f.Channels)
	fmt.Printf("  Sample rate:     %d Hz\n", f.SampleRate)
	fmt.Printf("  Byte rate:       %d\n", f.ByteRate)
	fmt.Printf("  Block align:     %d\n", f.BlockAlign)
	fmt.Printf("  Bits per sample: %d\n", f.BitsPerSample)
	if f.Extensible() {
		fmt.Printf("  Valid bits:      %d\n", f.ValidBits)
		fmt.Printf("  Channel mask:    0x%08X\n", f.ChannelMask)
	}
	fmt.Printf("  Data size:       %d bytes\n", info.DataSize)
	if f.BlockAlign > 0 {
		frames := info.DataSize / uint32(f.BlockAlign)
		fmt.Printf("  Frames:          %d", frames)
		if f.SampleRate > 0 {
			fmt.Printf(" (%.2fs)", float64(frames)/float64(f.SampleRate))
		}
		fmt.Println()
	}
	fmt.Printf("  Chunks:\n")
	for _, c := range info.Chunks {
		fmt.Printf("    %v\n", c)
	}
}

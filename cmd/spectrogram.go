package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/internal/app"
)

var (
	// Spectrogram command flags
	spectrogramFFTSize int
	spectrogramRows    int
	spectrogramWindow  string
	spectrogramDCMode  string
	spectrogramSource  string
	spectrogramCapture string
	spectrogramRawData bool
	spectrogramTimeout time.Duration
)

// spectrogramCmd represents the spectrogram command
var spectrogramCmd = &cobra.Command{
	Use:   "spectrogram",
	Short: "Compute a multi-row spectrogram",
	Long: `Read rows * fft-size IQ samples and compute a time-frequency grid.

Each row is an independently windowed power spectrum of the next
FFT-size slice of the stream, laid out row-major with the oldest slice
first. Input shorter than the grid is zero-padded, so trailing rows of
a short capture converge to the -100 dB floor.

Examples:
  # 64-row waterfall of the synthetic source
  radio-dsp spectrogram

  # 128 rows over a capture file
  radio-dsp spectrogram --source file --capture capture.iq --rows 128

  # Full grid data for plotting
  radio-dsp spectrogram --include-raw-data --output-file waterfall.json`,
	RunE: runSpectrogram,
}

func init() {
	rootCmd.AddCommand(spectrogramCmd)

	spectrogramCmd.Flags().IntVar(&spectrogramFFTSize, "fft-size", 0,
		"FFT size, a power of two (default from config)")
	spectrogramCmd.Flags().IntVar(&spectrogramRows, "rows", 0,
		"number of spectrogram rows (default from config)")
	spectrogramCmd.Flags().StringVar(&spectrogramWindow, "window", "",
		"window function (hann, hamming, blackman)")
	spectrogramCmd.Flags().StringVar(&spectrogramDCMode, "dc-mode", "",
		"DC correction mode (none, static, iir)")
	spectrogramCmd.Flags().StringVar(&spectrogramSource, "source", "",
		"sample source (synthetic, file)")
	spectrogramCmd.Flags().StringVar(&spectrogramCapture, "capture", "",
		"IQ capture file for the file source")
	spectrogramCmd.Flags().BoolVar(&spectrogramRawData, "include-raw-data", false,
		"include the full row-major grid in the output")
	spectrogramCmd.Flags().DurationVar(&spectrogramTimeout, "timeout", 60*time.Second,
		"overall timeout")
}

func runSpectrogram(cmd *cobra.Command, args []string) error {
	setIfChanged(cmd, "fft-size", "dsp.fft_size", spectrogramFFTSize)
	setIfChanged(cmd, "rows", "dsp.rows", spectrogramRows)
	setIfChanged(cmd, "window", "dsp.window_function", spectrogramWindow)
	setIfChanged(cmd, "dc-mode", "dsp.dc_mode", spectrogramDCMode)
	setIfChanged(cmd, "source", "iq.source", spectrogramSource)
	setIfChanged(cmd, "capture", "iq.capture_path", spectrogramCapture)
	setIfChanged(cmd, "include-raw-data", "output.include_raw_data", spectrogramRawData)

	ctx, cancel := context.WithTimeout(context.Background(), spectrogramTimeout)
	defer cancel()

	application, err := app.NewApp(newAppContext())
	if err != nil {
		return err
	}
	defer application.Close()

	return application.RunSpectrogram(ctx)
}

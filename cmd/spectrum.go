package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/internal/app"
)

var (
	// Spectrum command flags
	spectrumFFTSize    int
	spectrumWindow     string
	spectrumDCMode     string
	spectrumBackend    string
	spectrumValidate   bool
	spectrumSource     string
	spectrumCapture    string
	spectrumSampleRate int
	spectrumRawData    bool
	spectrumTimeout    time.Duration
)

// spectrumCmd represents the spectrum command
var spectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Compute one centered dB power spectrum frame",
	Long: `Read one FFT-size block of IQ samples and compute its power spectrum.

The spectrum is frequency-centered: negative frequencies occupy the
lower half of the output and DC sits at the middle bin. Values are in
dB relative to full scale, floored at -100 dB.

Examples:
  # Spectrum of the built-in synthetic quarter-rate tone
  radio-dsp spectrum

  # 2048-bin spectrum of a capture file with Blackman windowing
  radio-dsp spectrum --source file --capture capture.iq --fft-size 2048 --window blackman

  # Force the scalar path
  radio-dsp spectrum --backend scalar

  # Run the vector path with scalar cross-validation
  radio-dsp spectrum --cross-validate --include-raw-data`,
	RunE: runSpectrum,
}

func init() {
	rootCmd.AddCommand(spectrumCmd)

	spectrumCmd.Flags().IntVar(&spectrumFFTSize, "fft-size", 0,
		"FFT size, a power of two (default from config)")
	spectrumCmd.Flags().StringVar(&spectrumWindow, "window", "",
		"window function (hann, hamming, blackman)")
	spectrumCmd.Flags().StringVar(&spectrumDCMode, "dc-mode", "",
		"DC correction mode (none, static, iir)")
	spectrumCmd.Flags().StringVar(&spectrumBackend, "backend", "",
		"execution backend (auto, scalar, vector)")
	spectrumCmd.Flags().BoolVar(&spectrumValidate, "cross-validate", false,
		"re-run every stage on the scalar reference and compare")
	spectrumCmd.Flags().StringVar(&spectrumSource, "source", "",
		"sample source (synthetic, file)")
	spectrumCmd.Flags().StringVar(&spectrumCapture, "capture", "",
		"IQ capture file for the file source")
	spectrumCmd.Flags().IntVar(&spectrumSampleRate, "sample-rate", 0,
		"sample rate in Hz, used for frequency annotation")
	spectrumCmd.Flags().BoolVar(&spectrumRawData, "include-raw-data", false,
		"include the full spectrum buffer in the output")
	spectrumCmd.Flags().DurationVar(&spectrumTimeout, "timeout", 30*time.Second,
		"overall timeout")
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	setIfChanged(cmd, "fft-size", "dsp.fft_size", spectrumFFTSize)
	setIfChanged(cmd, "window", "dsp.window_function", spectrumWindow)
	setIfChanged(cmd, "dc-mode", "dsp.dc_mode", spectrumDCMode)
	setIfChanged(cmd, "backend", "dsp.backend", spectrumBackend)
	setIfChanged(cmd, "cross-validate", "dsp.cross_validate", spectrumValidate)
	setIfChanged(cmd, "source", "iq.source", spectrumSource)
	setIfChanged(cmd, "capture", "iq.capture_path", spectrumCapture)
	setIfChanged(cmd, "sample-rate", "iq.sample_rate", spectrumSampleRate)
	setIfChanged(cmd, "include-raw-data", "output.include_raw_data", spectrumRawData)

	ctx, cancel := context.WithTimeout(context.Background(), spectrumTimeout)
	defer cancel()

	application, err := app.NewApp(newAppContext())
	if err != nil {
		return err
	}
	defer application.Close()

	return application.RunSpectrum(ctx)
}

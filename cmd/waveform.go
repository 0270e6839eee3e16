package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/internal/app"
)

var (
	// Waveform command flags
	waveformCount   int
	waveformDCMode  string
	waveformSource  string
	waveformCapture string
	waveformRawData bool
	waveformTimeout time.Duration
)

// waveformCmd represents the waveform command
var waveformCmd = &cobra.Command{
	Use:   "waveform",
	Short: "Extract per-sample amplitude and phase",
	Long: `Read a block of IQ samples and extract its amplitude envelope and
instantaneous phase.

Amplitude is the complex magnitude of each sample; phase is its angle
in radians in (-pi, pi]. No windowing is applied; DC correction runs
first when configured.

Examples:
  # Envelope of one default-size buffer from the synthetic source
  radio-dsp waveform

  # 4096 samples from a capture with the DC blocker engaged
  radio-dsp waveform --source file --capture capture.iq --count 4096 --dc-mode iir`,
	RunE: runWaveform,
}

func init() {
	rootCmd.AddCommand(waveformCmd)

	waveformCmd.Flags().IntVarP(&waveformCount, "count", "n", 0,
		"number of samples to process (default is the IQ buffer size)")
	waveformCmd.Flags().StringVar(&waveformDCMode, "dc-mode", "",
		"DC correction mode (none, static, iir)")
	waveformCmd.Flags().StringVar(&waveformSource, "source", "",
		"sample source (synthetic, file)")
	waveformCmd.Flags().StringVar(&waveformCapture, "capture", "",
		"IQ capture file for the file source")
	waveformCmd.Flags().BoolVar(&waveformRawData, "include-raw-data", false,
		"include the full amplitude and phase buffers in the output")
	waveformCmd.Flags().DurationVar(&waveformTimeout, "timeout", 30*time.Second,
		"overall timeout")
}

func runWaveform(cmd *cobra.Command, args []string) error {
	setIfChanged(cmd, "dc-mode", "dsp.dc_mode", waveformDCMode)
	setIfChanged(cmd, "source", "iq.source", waveformSource)
	setIfChanged(cmd, "capture", "iq.capture_path", waveformCapture)
	setIfChanged(cmd, "include-raw-data", "output.include_raw_data", waveformRawData)

	ctx, cancel := context.WithTimeout(context.Background(), waveformTimeout)
	defer cancel()

	appCtx := newAppContext()
	appCtx.Count = waveformCount

	application, err := app.NewApp(appCtx)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.RunWaveform(ctx)
}

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/internal/app"
)

var (
	// Benchmark command flags
	benchmarkFrames   int
	benchmarkDuration time.Duration
	benchmarkFFTSize  int
	benchmarkWindow   string
	benchmarkDCMode   string
	benchmarkBackend  string
	benchmarkValidate bool
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Measure pipeline throughput",
	Long: `Run the frame pipeline in a tight loop and report throughput.

The benchmark processes frames from the configured source for a fixed
frame count or wall-clock duration and reports samples per second,
frames per second, and per-frame latency statistics (mean, median, p95)
in microseconds. Metrics are also forwarded to the statsd collector.

Examples:
  # 1000 frames on the auto-detected backend
  radio-dsp benchmark

  # Compare the two execution paths
  radio-dsp benchmark --backend scalar --frames 5000
  radio-dsp benchmark --backend vector --frames 5000

  # Time-boxed run with cross-validation overhead included
  radio-dsp benchmark --duration 10s --cross-validate`,
	RunE: runBenchmarkCmd,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().IntVar(&benchmarkFrames, "frames", 0,
		"number of frames to process (default 1000 when no duration is set)")
	benchmarkCmd.Flags().DurationVar(&benchmarkDuration, "duration", 0,
		"wall-clock duration to run for")
	benchmarkCmd.Flags().IntVar(&benchmarkFFTSize, "fft-size", 0,
		"FFT size, a power of two (default from config)")
	benchmarkCmd.Flags().StringVar(&benchmarkWindow, "window", "",
		"window function (hann, hamming, blackman)")
	benchmarkCmd.Flags().StringVar(&benchmarkDCMode, "dc-mode", "",
		"DC correction mode (none, static, iir)")
	benchmarkCmd.Flags().StringVar(&benchmarkBackend, "backend", "",
		"execution backend (auto, scalar, vector)")
	benchmarkCmd.Flags().BoolVar(&benchmarkValidate, "cross-validate", false,
		"include scalar cross-validation in the measured loop")
}

func runBenchmarkCmd(cmd *cobra.Command, args []string) error {
	setIfChanged(cmd, "fft-size", "dsp.fft_size", benchmarkFFTSize)
	setIfChanged(cmd, "window", "dsp.window_function", benchmarkWindow)
	setIfChanged(cmd, "dc-mode", "dsp.dc_mode", benchmarkDCMode)
	setIfChanged(cmd, "backend", "dsp.backend", benchmarkBackend)
	setIfChanged(cmd, "cross-validate", "dsp.cross_validate", benchmarkValidate)

	timeout := 5 * time.Minute
	if benchmarkDuration > 0 {
		timeout = benchmarkDuration + time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	appCtx := newAppContext()
	appCtx.Frames = benchmarkFrames
	appCtx.Duration = benchmarkDuration

	application, err := app.NewApp(appCtx)
	if err != nil {
		return err
	}
	defer application.Close()

	return application.RunBenchmark(ctx)
}

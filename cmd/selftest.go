package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/internal/app"
)

var (
	// Selftest command flags
	selftestBackend string
	selftestTimeout time.Duration
)

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run execution path conformance checks",
	Long: `Run the built-in conformance checks for the processing pipeline.

The checks cover:
- The radix-2 FFT against an independent reference transform
- Scalar/vector backend equivalence, including lengths that are not
  multiples of the vector width
- The -100 dB spectrum floor on all-zero input
- DC blocker state continuity across split buffers

The command exits non-zero if any check fails.

Examples:
  # Check the auto-detected backend
  radio-dsp selftest

  # Check the vector path explicitly
  radio-dsp selftest --backend vector`,
	RunE: runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)

	selftestCmd.Flags().StringVar(&selftestBackend, "backend", "",
		"execution backend (auto, scalar, vector)")
	selftestCmd.Flags().DurationVar(&selftestTimeout, "timeout", 30*time.Second,
		"overall timeout")
}

func runSelftest(cmd *cobra.Command, args []string) error {
	setIfChanged(cmd, "backend", "dsp.backend", selftestBackend)

	ctx, cancel := context.WithTimeout(context.Background(), selftestTimeout)
	defer cancel()

	application, err := app.NewApp(newAppContext())
	if err != nil {
		return err
	}
	defer application.Close()

	return application.RunSelftest(ctx)
}

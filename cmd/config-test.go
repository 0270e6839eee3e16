package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexthemitchell/rad.io/configs"
	"github.com/alexthemitchell/rad.io/internal/app"
)

var configTestExample bool

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly.

Examples:
  # Test with default config file
  radio-dsp config-test

  # Test with specific config file
  radio-dsp --config /path/to/config.yaml config-test

  # Print an example processing profile
  radio-dsp config-test --example`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)

	configTestCmd.Flags().BoolVar(&configTestExample, "example", false,
		"print an example processing profile and exit")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	if configTestExample {
		data, err := app.ExampleScanProfile()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	fmt.Println("RADIO DSP CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 80))

	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if profileFile != "" {
		profile, err := app.LoadScanProfile(profileFile)
		if err != nil {
			return err
		}
		profile.Apply(config)
		printSection("PROFILE")
		printKeyValue("Name", profile.Name)
		printKeyValue("Description", profile.Description)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)

	printSection("DSP CONFIGURATION")
	printKeyValue("FFT Size", fmt.Sprintf("%d", config.DSP.FFTSize))
	printKeyValue("Window Function", config.DSP.WindowFunction)
	printKeyValue("DC Mode", config.DSP.DCMode)
	printKeyValue("DC Alpha", fmt.Sprintf("%.3f", config.DSP.DCAlpha))
	printKeyValue("Backend", config.DSP.Backend)
	printKeyValue("Cross Validate", fmt.Sprintf("%t", config.DSP.CrossValidate))
	printKeyValue("Spectrogram Rows", fmt.Sprintf("%d", config.DSP.Rows))

	printSection("IQ SOURCE CONFIGURATION")
	printKeyValue("Sample Rate", fmt.Sprintf("%d Hz", config.IQ.SampleRate))
	printKeyValue("Buffer Size", fmt.Sprintf("%d samples", config.IQ.BufferSize))
	printKeyValue("Source", config.IQ.Source)
	printKeyValue("Capture Path", config.IQ.CapturePath)
	printKeyValue("Frequency", fmt.Sprintf("%.4f cycles/sample", config.IQ.Frequency))
	printKeyValue("Amplitude", fmt.Sprintf("%.3f", config.IQ.Amplitude))
	printKeyValue("DC Offset", fmt.Sprintf("%.3f", config.IQ.DCOffset))
	printKeyValue("Noise Amplitude", fmt.Sprintf("%.3f", config.IQ.NoiseAmplitude))

	printSection("OUTPUT CONFIGURATION")
	printKeyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue("Include Metadata", fmt.Sprintf("%t", config.Output.IncludeMetadata))
	printKeyValue("Include Raw Data", fmt.Sprintf("%t", config.Output.IncludeRawData))
	printKeyValue("Timestamps", fmt.Sprintf("%t", config.Output.Timestamps))

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Printf("Configuration is INVALID: %v\n", err)
		return err
	}
	fmt.Println("Configuration loaded and validated successfully!")

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// DSP pipeline configuration
	DSP DSPConfig `mapstructure:"dsp"`

	// IQ source configuration
	IQ IQConfig `mapstructure:"iq"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// DSPConfig contains transform pipeline settings
type DSPConfig struct {
	FFTSize        int     `mapstructure:"fft_size"`
	WindowFunction string  `mapstructure:"window_function"`
	DCMode         string  `mapstructure:"dc_mode"`
	DCAlpha        float64 `mapstructure:"dc_alpha"`
	Backend        string  `mapstructure:"backend"`
	CrossValidate  bool    `mapstructure:"cross_validate"`
	Rows           int     `mapstructure:"rows"`
}

// IQConfig contains sample source settings
type IQConfig struct {
	SampleRate     int     `mapstructure:"sample_rate"`
	BufferSize     int     `mapstructure:"buffer_size"`
	Source         string  `mapstructure:"source"`
	CapturePath    string  `mapstructure:"capture_path"`
	Frequency      float64 `mapstructure:"frequency"`
	Amplitude      float64 `mapstructure:"amplitude"`
	DCOffset       float64 `mapstructure:"dc_offset"`
	NoiseAmplitude float64 `mapstructure:"noise_amplitude"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
	IncludeRawData  bool `mapstructure:"include_raw_data"`
	Timestamps      bool `mapstructure:"timestamps"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.DSP.FFTSize < 2 || config.DSP.FFTSize&(config.DSP.FFTSize-1) != 0 {
		return fmt.Errorf("dsp fft_size must be a power of two, got %d", config.DSP.FFTSize)
	}

	if config.DSP.Rows <= 0 {
		return fmt.Errorf("dsp rows must be positive")
	}

	if config.DSP.DCMode == "iir" && (config.DSP.DCAlpha <= 0 || config.DSP.DCAlpha >= 1) {
		return fmt.Errorf("dsp dc_alpha must be between 0 and 1 exclusive")
	}

	switch config.DSP.Backend {
	case "auto", "scalar", "vector":
	default:
		return fmt.Errorf("dsp backend must be auto, scalar, or vector, got %q", config.DSP.Backend)
	}

	if config.IQ.SampleRate <= 0 {
		return fmt.Errorf("iq sample rate must be positive")
	}

	if config.IQ.BufferSize <= 0 {
		return fmt.Errorf("iq buffer size must be positive")
	}

	if config.IQ.Frequency < -0.5 || config.IQ.Frequency > 0.5 {
		return fmt.Errorf("iq frequency is normalized and must be between -0.5 and 0.5")
	}

	return nil
}

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexthemitchell/rad.io/configs"
)

// ScanProfile is a reusable processing profile loaded from a YAML or
// JSON file. A profile overrides the base configuration for one run;
// zero values leave the corresponding setting untouched.
type ScanProfile struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	FFTSize     int     `yaml:"fft_size,omitempty" json:"fft_size,omitempty"`
	Rows        int     `yaml:"rows,omitempty" json:"rows,omitempty"`
	Window      string  `yaml:"window,omitempty" json:"window,omitempty"`
	DCMode      string  `yaml:"dc_mode,omitempty" json:"dc_mode,omitempty"`
	DCAlpha     float64 `yaml:"dc_alpha,omitempty" json:"dc_alpha,omitempty"`
	SampleRate  int     `yaml:"sample_rate,omitempty" json:"sample_rate,omitempty"`
	Source      string  `yaml:"source,omitempty" json:"source,omitempty"`
	CapturePath string  `yaml:"capture_path,omitempty" json:"capture_path,omitempty"`
	Frequency   float64 `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

// LoadScanProfile loads a processing profile from a file, accepting
// YAML or JSON by extension and trying YAML first otherwise.
func LoadScanProfile(filePath string) (*ScanProfile, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	profile := &ScanProfile{}
	switch filepath.Ext(filePath) {
	case ".json":
		err = json.Unmarshal(data, profile)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, profile)
	default:
		if err = yaml.Unmarshal(data, profile); err != nil {
			err = json.Unmarshal(data, profile)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", filePath, err)
	}
	return profile, nil
}

// Validate checks the profile for internally inconsistent settings.
// Full validation happens after the profile is merged into the base
// configuration.
func (p *ScanProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if p.FFTSize != 0 && (p.FFTSize < 2 || p.FFTSize&(p.FFTSize-1) != 0) {
		return fmt.Errorf("fft_size must be a power of two, got %d", p.FFTSize)
	}
	if p.Rows < 0 {
		return fmt.Errorf("rows cannot be negative")
	}
	if p.Source == "file" && p.CapturePath == "" {
		return fmt.Errorf("capture_path is required for a file source")
	}
	return nil
}

// Apply merges the profile into the base configuration, overriding
// only the settings the profile names.
func (p *ScanProfile) Apply(config *configs.Config) {
	if p.FFTSize != 0 {
		config.DSP.FFTSize = p.FFTSize
	}
	if p.Rows != 0 {
		config.DSP.Rows = p.Rows
	}
	if p.Window != "" {
		config.DSP.WindowFunction = p.Window
	}
	if p.DCMode != "" {
		config.DSP.DCMode = p.DCMode
	}
	if p.DCAlpha != 0 {
		config.DSP.DCAlpha = p.DCAlpha
	}
	if p.SampleRate != 0 {
		config.IQ.SampleRate = p.SampleRate
	}
	if p.Source != "" {
		config.IQ.Source = p.Source
	}
	if p.CapturePath != "" {
		config.IQ.CapturePath = p.CapturePath
	}
	if p.Frequency != 0 {
		config.IQ.Frequency = p.Frequency
	}
}

// ExampleScanProfile returns a commented starting-point profile in
// YAML form, used by `radio-dsp config-test --example`.
func ExampleScanProfile() ([]byte, error) {
	example := &ScanProfile{
		Name:        "wideband-survey",
		Description: "2.048 MS/s capture survey with Blackman windowing",
		FFTSize:     2048,
		Rows:        128,
		Window:      "blackman",
		DCMode:      "iir",
		DCAlpha:     0.99,
		SampleRate:  2048000,
		Source:      "file",
		CapturePath: "capture.iq",
	}
	data, err := yaml.Marshal(example)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal example profile: %w", err)
	}
	return data, nil
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alexthemitchell/rad.io/configs"
)

func writeTempProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScanProfileYAML(t *testing.T) {
	path := writeTempProfile(t, "survey.yaml", `
name: survey
fft_size: 2048
rows: 128
window: blackman
dc_mode: iir
dc_alpha: 0.995
`)

	profile, err := LoadScanProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "survey", profile.Name)
	assert.Equal(t, 2048, profile.FFTSize)
	assert.Equal(t, 128, profile.Rows)
	assert.Equal(t, "blackman", profile.Window)
	assert.Equal(t, "iir", profile.DCMode)
	assert.InDelta(t, 0.995, profile.DCAlpha, 1e-9)
}

func TestLoadScanProfileJSON(t *testing.T) {
	path := writeTempProfile(t, "survey.json",
		`{"name": "survey", "fft_size": 512, "window": "hamming"}`)

	profile, err := LoadScanProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 512, profile.FFTSize)
	assert.Equal(t, "hamming", profile.Window)
}

func TestLoadScanProfileMissingFile(t *testing.T) {
	_, err := LoadScanProfile("/nonexistent/profile.yaml")
	assert.Error(t, err)
}

func TestLoadScanProfileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "fft_size: 1024\n"},
		{"bad fft size", "name: x\nfft_size: 1000\n"},
		{"file source without path", "name: x\nsource: file\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempProfile(t, "bad.yaml", tt.content)
			_, err := LoadScanProfile(path)
			assert.Error(t, err)
		})
	}
}

func TestScanProfileApplyOverridesOnlyNamedSettings(t *testing.T) {
	config := &configs.Config{
		DSP: configs.DSPConfig{
			FFTSize:        1024,
			WindowFunction: "hann",
			DCMode:         "none",
			DCAlpha:        0.99,
			Rows:           64,
		},
		IQ: configs.IQConfig{
			SampleRate: 2048000,
			Source:     "synthetic",
		},
	}

	profile := &ScanProfile{
		Name:    "partial",
		FFTSize: 4096,
		DCMode:  "static",
	}
	profile.Apply(config)

	assert.Equal(t, 4096, config.DSP.FFTSize)
	assert.Equal(t, "static", config.DSP.DCMode)
	// Untouched settings keep their base values.
	assert.Equal(t, "hann", config.DSP.WindowFunction)
	assert.Equal(t, 64, config.DSP.Rows)
	assert.Equal(t, "synthetic", config.IQ.Source)
}

func TestExampleScanProfileRoundTrips(t *testing.T) {
	data, err := ExampleScanProfile()
	require.NoError(t, err)

	profile := &ScanProfile{}
	require.NoError(t, yaml.Unmarshal(data, profile))
	require.NoError(t, profile.Validate())
	assert.Equal(t, "wideband-survey", profile.Name)
	assert.Equal(t, 2048, profile.FFTSize)
}

package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexthemitchell/rad.io/pkg/dsp"
)

// DCMode selects the pre-conditioning stage applied before windowing.
type DCMode string

const (
	// DCModeNone leaves the samples untouched.
	DCModeNone DCMode = "none"
	// DCModeStatic subtracts the whole-buffer mean.
	DCModeStatic DCMode = "static"
	// DCModeIIR runs the one-pole DC blocker with carried filter state.
	DCModeIIR DCMode = "iir"
)

// ParseDCMode maps a configuration string to a DCMode.
func ParseDCMode(name string) (DCMode, error) {
	switch DCMode(strings.ToLower(strings.TrimSpace(name))) {
	case DCModeNone, "":
		return DCModeNone, nil
	case DCModeStatic:
		return DCModeStatic, nil
	case DCModeIIR:
		return DCModeIIR, nil
	default:
		return DCModeNone, fmt.Errorf("unknown dc mode: %q", name)
	}
}

// EngineConfig contains configuration for the frame engine.
type EngineConfig struct {
	FFTSize       int
	Window        dsp.Window
	DCMode        DCMode
	DCAlpha       float32
	CrossValidate bool
	SampleRate    int
}

// FrameResult holds one processed spectrum frame plus derived stats.
type FrameResult struct {
	Spectrum       []float32     `json:"spectrum,omitempty"`
	FFTSize        int           `json:"fft_size"`
	PeakBin        int           `json:"peak_bin"`
	PeakDB         float32       `json:"peak_db"`
	PeakFrequency  float64       `json:"peak_frequency_hz"`
	NoiseFloorDB   float32       `json:"noise_floor_db"`
	SNRDB          float32       `json:"snr_db"`
	ProcessingTime time.Duration `json:"processing_time"`
	Timestamp      time.Time     `json:"timestamp"`
}

// SpectrogramResult holds a row-major time-frequency buffer.
type SpectrogramResult struct {
	Data           []float32     `json:"data,omitempty"`
	FFTSize        int           `json:"fft_size"`
	Rows           int           `json:"rows"`
	SamplesUsed    int           `json:"samples_used"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// WaveformResult holds parallel amplitude and phase sequences.
type WaveformResult struct {
	Amplitude      []float32     `json:"amplitude,omitempty"`
	Phase          []float32     `json:"phase,omitempty"`
	Count          int           `json:"count"`
	ProcessingTime time.Duration `json:"processing_time"`
}

package configs

import (
	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// DSP pipeline defaults
	if !v.IsSet("dsp.fft_size") {
		v.Set("dsp.fft_size", 1024)
	}
	if !v.IsSet("dsp.window_function") {
		v.Set("dsp.window_function", "hann")
	}
	if !v.IsSet("dsp.dc_mode") {
		v.Set("dsp.dc_mode", "none")
	}
	if !v.IsSet("dsp.dc_alpha") {
		v.Set("dsp.dc_alpha", 0.99)
	}
	if !v.IsSet("dsp.backend") {
		v.Set("dsp.backend", "auto")
	}
	if !v.IsSet("dsp.cross_validate") {
		v.Set("dsp.cross_validate", false)
	}
	if !v.IsSet("dsp.rows") {
		v.Set("dsp.rows", 64)
	}

	// IQ source defaults: a 2.048 MS/s synthetic quarter-rate tone
	if !v.IsSet("iq.sample_rate") {
		v.Set("iq.sample_rate", 2048000)
	}
	if !v.IsSet("iq.buffer_size") {
		v.Set("iq.buffer_size", 16384)
	}
	if !v.IsSet("iq.source") {
		v.Set("iq.source", "synthetic")
	}
	if !v.IsSet("iq.frequency") {
		v.Set("iq.frequency", 0.25)
	}
	if !v.IsSet("iq.amplitude") {
		v.Set("iq.amplitude", 1.0)
	}
	if !v.IsSet("iq.dc_offset") {
		v.Set("iq.dc_offset", 0.0)
	}
	if !v.IsSet("iq.noise_amplitude") {
		v.Set("iq.noise_amplitude", 0.0)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.Set("output.precision", 3)
	}
	if !v.IsSet("output.include_metadata") {
		v.Set("output.include_metadata", true)
	}
	if !v.IsSet("output.include_raw_data") {
		v.Set("output.include_raw_data", false)
	}
	if !v.IsSet("output.timestamps") {
		v.Set("output.timestamps", true)
	}
}

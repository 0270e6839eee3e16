// Package dsp implements the numerical transform pipeline that turns raw
// in-phase/quadrature (IQ) sample buffers into spectral, waveform, and
// spectrogram representations.
//
// The pipeline stages are DC offset correction, windowing, a radix-2
// Cooley-Tukey FFT with centered dB magnitude output, per-sample
// amplitude/phase extraction, and a multi-row spectrogram driver. All
// stages operate synchronously on caller-provided float32 buffers; the
// only stateful entity is the IIR DC-blocker state, which the caller
// threads explicitly between calls over a continuous stream.
//
// Every hot-loop primitive ships in two implementations behind the
// Backend interface: a scalar reference loop and a 4-lane unrolled loop
// with a scalar tail. The two are numerically equivalent within float32
// rounding tolerance; the active backend is chosen at startup by
// DetectBackend and can be overridden by configuration.
package dsp

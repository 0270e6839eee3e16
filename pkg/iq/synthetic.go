package iq

import (
	"context"
	"math"
	"math/rand"
)

// SyntheticConfig describes the generated test signal: a complex
// exponential at a normalized frequency (cycles per sample, -0.5..0.5)
// with optional constant DC offset and additive noise.
type SyntheticConfig struct {
	SampleRate          int
	NormalizedFrequency float64
	Amplitude           float64
	DCOffset            float64
	NoiseAmplitude      float64
	Seed                int64
}

// SyntheticSource generates a deterministic complex exponential. Phase
// is carried across reads, so successive buffers form one continuous
// stream. Not safe for concurrent use.
type SyntheticSource struct {
	cfg   SyntheticConfig
	rng   *rand.Rand
	phase float64
}

// NewSynthetic creates a generator for the configured signal.
func NewSynthetic(cfg SyntheticConfig) *SyntheticSource {
	if cfg.Amplitude == 0 {
		cfg.Amplitude = 1
	}
	return &SyntheticSource{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Metadata describes the source.
func (s *SyntheticSource) Metadata() *SourceMetadata {
	return &SourceMetadata{
		Name:       "synthetic",
		Type:       SourceTypeSynthetic,
		SampleRate: s.cfg.SampleRate,
	}
}

// ReadIQ fills i and q with the next block of the signal. It always
// fills the full buffers and never returns io.EOF; the generator is an
// endless stream.
func (s *SyntheticSource) ReadIQ(ctx context.Context, i, q []float32) (int, error) {
	if len(i) != len(q) {
		return 0, ErrMismatchedBuffers
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	step := 2 * math.Pi * s.cfg.NormalizedFrequency
	for n := range i {
		re := s.cfg.Amplitude*math.Cos(s.phase) + s.cfg.DCOffset
		im := s.cfg.Amplitude*math.Sin(s.phase) + s.cfg.DCOffset
		if s.cfg.NoiseAmplitude > 0 {
			re += s.cfg.NoiseAmplitude * (s.rng.Float64()*2 - 1)
			im += s.cfg.NoiseAmplitude * (s.rng.Float64()*2 - 1)
		}
		i[n] = float32(re)
		q[n] = float32(im)
		s.phase += step
		if s.phase > math.Pi {
			s.phase -= 2 * math.Pi
		} else if s.phase < -math.Pi {
			s.phase += 2 * math.Pi
		}
	}
	return len(i), nil
}

// Close is a no-op for the generator.
func (s *SyntheticSource) Close() error {
	return nil
}

package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformKnownValues(t *testing.T) {
	i := []float32{3, 0, -1, 0}
	q := []float32{4, 0, 0, 2}
	amp := make([]float32, 4)
	phase := make([]float32, 4)

	require.NoError(t, Waveform(i, q, 4, amp, phase))

	assert.InDelta(t, 5, float64(amp[0]), 1e-6)
	assert.InDelta(t, math.Atan2(4, 3), float64(phase[0]), 1e-6)

	// atan2(0, 0) is 0 by convention; amplitude of a zero sample is 0.
	assert.Zero(t, amp[1])
	assert.Zero(t, phase[1])

	assert.InDelta(t, 1, float64(amp[2]), 1e-6)
	assert.InDelta(t, math.Pi, float64(phase[2]), 1e-6)

	assert.InDelta(t, 2, float64(amp[3]), 1e-6)
	assert.InDelta(t, math.Pi/2, float64(phase[3]), 1e-6)
}

func TestWaveformConstantEnvelopeTone(t *testing.T) {
	const size = 300
	i, q := makeTone(size, 25, 0.75)
	amp, phase, err := WaveformOut(i, q, size)
	require.NoError(t, err)
	require.Len(t, amp, size)
	require.Len(t, phase, size)

	for n := 0; n < size; n++ {
		assert.InDelta(t, 0.75, float64(amp[n]), 1e-5, "amp[%d]", n)
	}
}

func TestWaveformArgumentValidation(t *testing.T) {
	i, q := AllocateIQ(8)

	err := Waveform(i, q, 16, make([]float32, 16), make([]float32, 16))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	err = Waveform(i, q, 8, make([]float32, 4), make([]float32, 8))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShortOutput)
}

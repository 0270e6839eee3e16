package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name    string
		want    Window
		wantErr bool
	}{
		{"hann", WindowHann, false},
		{"Hanning", WindowHann, false},
		{"HAMMING", WindowHamming, false},
		{" blackman ", WindowBlackman, false},
		{"kaiser", WindowHann, true},
		{"", WindowHann, true},
	}
	for _, tt := range tests {
		got, err := ParseWindow(tt.name)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestWindowCoefficientsMatchReference(t *testing.T) {
	const size = 257
	hann := window.Hann(size)
	hamming := window.Hamming(size)

	gotHann, err := WindowCoefficients(WindowHann, size)
	require.NoError(t, err)
	gotHamming, err := WindowCoefficients(WindowHamming, size)
	require.NoError(t, err)

	for n := 0; n < size; n++ {
		assert.InDelta(t, hann[n], float64(gotHann[n]), 1e-5, "hann n=%d", n)
		assert.InDelta(t, hamming[n], float64(gotHamming[n]), 1e-5, "hamming n=%d", n)
	}
}

func TestBlackmanCoefficientFormula(t *testing.T) {
	const size = 64
	coeffs, err := WindowCoefficients(WindowBlackman, size)
	require.NoError(t, err)
	for n := 0; n < size; n++ {
		x := 2 * math.Pi * float64(n) / float64(size-1)
		want := 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		assert.InDelta(t, want, float64(coeffs[n]), 1e-6, "n=%d", n)
	}
}

func TestApplyWindowRejectsDegenerateSizes(t *testing.T) {
	i, q := AllocateIQ(8)

	err := ApplyWindow(WindowHann, i, q, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWindowTooShort)

	err = ApplyWindow(WindowHann, i, q, 16)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestApplyWindowInPlace(t *testing.T) {
	const size = 128
	rng := rand.New(rand.NewSource(3))
	i, q := makeNoise(rng, size)
	origI := copyBuffer(i)
	origQ := copyBuffer(q)

	require.NoError(t, ApplyWindow(WindowHamming, i, q, size))

	for n := 0; n < size; n++ {
		w := float32(windowCoefficient(WindowHamming, n, size))
		assert.InDelta(t, float64(origI[n]*w), float64(i[n]), 1e-6)
		assert.InDelta(t, float64(origQ[n]*w), float64(q[n]), 1e-6)
	}
}

func TestApplyWindowDoubleApplicationRatio(t *testing.T) {
	// Windowing is not idempotent: a second pass multiplies by the
	// coefficient again, so double-applied output relates to the input
	// by w(n)^2.
	const size = 64
	i := make([]float32, size)
	q := make([]float32, size)
	for n := range i {
		i[n] = 1
		q[n] = 1
	}
	require.NoError(t, ApplyWindow(WindowHann, i, q, size))
	once := copyBuffer(i)
	require.NoError(t, ApplyWindow(WindowHann, i, q, size))

	for n := 0; n < size; n++ {
		w := windowCoefficient(WindowHann, n, size)
		assert.InDelta(t, w*w, float64(i[n]), 1e-5, "n=%d", n)
		assert.InDelta(t, float64(once[n])*w, float64(i[n]), 1e-5, "n=%d", n)
	}
}

package dsp

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

func TestValidateFFTAgainstGoDSP(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for _, size := range []int{64, 256, 1024} {
		i, q := makeNoise(rng, size)
		require.NoError(t, ValidateFFT(i, q, size), "size %d", size)
	}
}

func TestValidateFFTRejectsBadSize(t *testing.T) {
	i, q := AllocateIQ(48)
	err := ValidateFFT(i, q, 48)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPowerOfTwo)
}

func TestFFTBinsMatchGonum(t *testing.T) {
	const size = 512
	rng := rand.New(rand.NewSource(37))
	i, q := makeNoise(rng, size)

	plan, err := NewPlan(size)
	require.NoError(t, err)
	got := plan.bins(i, q)

	src := make([]complex128, size)
	for n := 0; n < size; n++ {
		src[n] = complex(float64(i[n]), float64(q[n]))
	}
	want := fourier.NewCmplxFFT(size).Coefficients(nil, src)

	for k := 0; k < size; k++ {
		assert.InDelta(t, cmplx.Abs(want[k]), cmplx.Abs(got[k]), 1e-6, "bin %d", k)
	}
}

func TestValidatingBackendSeesNoDivergence(t *testing.T) {
	vb := NewValidatingBackend(Vector(), Scalar(), nil)
	inner := vb.(*validatingBackend)

	const size = 513
	rng := rand.New(rand.NewSource(41))
	i := make([]float32, size)
	q := make([]float32, size)
	for n := range i {
		i[n] = float32(rng.Float64()*2 - 1)
		q[n] = float32(rng.Float64()*2 - 1)
	}

	require.NoError(t, vb.ApplyWindow(WindowBlackman, i, q, size))
	require.NoError(t, vb.DCRemoveStatic(i, q, size))
	amp := make([]float32, size)
	phase := make([]float32, size)
	require.NoError(t, vb.Waveform(i, q, size, amp, phase))

	var state BlockerState
	require.NoError(t, vb.DCRemoveIIR(i, q, size, 0.99, &state))

	assert.Zero(t, inner.divergence)
}

func TestVerifyBackends(t *testing.T) {
	for _, size := range []int{2, 7, 64, 255, 1024} {
		assert.NoError(t, VerifyBackends(size, int64(size)), "size %d", size)
	}
}

func TestVerifyBackendsRejectsShortInput(t *testing.T) {
	assert.Error(t, VerifyBackends(1, 0))
}

func TestRelativeDiff(t *testing.T) {
	assert.Zero(t, relativeDiff(1.5, 1.5))
	assert.InDelta(t, 0.5, relativeDiff(0.5, 1.0), 1e-9) // below scale 1: absolute
	assert.InDelta(t, 0.5, relativeDiff(1.0, 2.0), 1e-9)
}

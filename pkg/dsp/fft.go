package dsp

import (
	"math"
	"math/cmplx"
)

// DBFloor is the dB value substituted for zero-magnitude bins so the
// spectrum never carries -Inf into downstream consumers.
const DBFloor = -100.0

// MinFFTSize is the smallest accepted transform size.
const MinFFTSize = 2

// IsPowerOfTwo reports whether n is an exact power of two, n >= 2.
func IsPowerOfTwo(n int) bool {
	return n >= MinFFTSize && n&(n-1) == 0
}

// Plan holds the precomputed bit-reversal table and scratch buffer for
// a fixed transform size. Reusing a Plan across calls avoids
// per-invocation allocation on the hot path. A Plan is not safe for
// concurrent use; create one per goroutine.
type Plan struct {
	size int
	rev  []int
	work []complex128
}

// NewPlan validates the transform size and precomputes the bit-reversal
// permutation. A non-power-of-two size is a hard failure, never rounded
// or truncated: silent coercion would desynchronize caller expectations
// about the output buffer length.
func NewPlan(fftSize int) (*Plan, error) {
	if !IsPowerOfTwo(fftSize) {
		return nil, newProcessError("fft", ErrNotPowerOfTwo, "size %d", fftSize)
	}
	bits := 0
	for 1<<bits < fftSize {
		bits++
	}
	rev := make([]int, fftSize)
	for i := range rev {
		rev[i] = reverseBits(i, bits)
	}
	return &Plan{
		size: fftSize,
		rev:  rev,
		work: make([]complex128, fftSize),
	}, nil
}

// Size returns the transform size the plan was built for.
func (p *Plan) Size() int {
	return p.size
}

func reverseBits(x, bits int) int {
	r := 0
	for b := 0; b < bits; b++ {
		r = r<<1 | x&1
		x >>= 1
	}
	return r
}

// Transform runs the forward FFT over the first fftSize samples of i
// and q and writes the zero-frequency-centered dB magnitude spectrum
// into out. Inputs shorter than the transform size are zero-padded.
// out must hold at least fftSize values and must not alias i or q.
func (p *Plan) Transform(i, q []float32, out []float32) error {
	if len(out) < p.size {
		return newProcessError("fft", ErrShortOutput, "need %d, have %d", p.size, len(out))
	}
	p.load(i, q)
	p.butterfly()
	p.store(out)
	return nil
}

// load fills the complex working array from the float32 IQ buffers in
// bit-reversed order, zero-padding past the end of either input.
func (p *Plan) load(i, q []float32) {
	for n := 0; n < p.size; n++ {
		var re, im float64
		if n < len(i) {
			re = float64(i[n])
		}
		if n < len(q) {
			im = float64(q[n])
		}
		p.work[p.rev[n]] = complex(re, im)
	}
}

// butterfly runs the iterative radix-2 decimation-in-time stages. The
// twiddle factor W_m is computed once per stage and rotated
// incrementally, not recomputed per sample.
func (p *Plan) butterfly() {
	work := p.work
	for m := 2; m <= p.size; m <<= 1 {
		half := m >> 1
		angle := -2 * math.Pi / float64(m)
		wm := complex(math.Cos(angle), math.Sin(angle))
		for start := 0; start < p.size; start += m {
			w := complex(1, 0)
			for k := start; k < start+half; k++ {
				t := w * work[k+half]
				u := work[k]
				work[k] = u + t
				work[k+half] = u - t
				w *= wm
			}
		}
	}
}

// store converts the complex bins to dB magnitude and writes them
// frequency-shifted so that index size/2 corresponds to zero frequency.
func (p *Plan) store(out []float32) {
	half := p.size / 2
	for k := 0; k < p.size; k++ {
		db := float32(DBFloor)
		if mag := cmplx.Abs(p.work[k]); mag > 0 {
			db = float32(20 * math.Log10(mag))
		}
		dst := k + half
		if k >= half {
			dst = k - half
		}
		out[dst] = db
	}
}

// bins recomputes the raw complex spectrum without the dB/shift output
// pass. Used by the cross-validation path and conformance tests.
func (p *Plan) bins(i, q []float32) []complex128 {
	p.load(i, q)
	p.butterfly()
	result := make([]complex128, p.size)
	copy(result, p.work)
	return result
}

// FFT is the single-call form of Plan.Transform: it validates fftSize,
// runs the transform over i and q, and writes the centered dB spectrum
// into out. Callers on the hot path should hold a Plan instead.
func FFT(i, q []float32, fftSize int, out []float32) error {
	plan, err := NewPlan(fftSize)
	if err != nil {
		return err
	}
	return plan.Transform(i, q, out)
}

// FFTOut is the allocating convenience variant of FFT.
func FFTOut(i, q []float32, fftSize int) ([]float32, error) {
	plan, err := NewPlan(fftSize)
	if err != nil {
		return nil, err
	}
	out := AllocateBuffer(fftSize)
	if err := plan.Transform(i, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

package dsp

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/RyanBlaney/latency-benchmark-common/logging"
	gofft "github.com/mjibson/go-dsp/fft"
)

// EquivalenceTolerance is the relative tolerance within which the
// scalar and vector paths must agree. Divergence beyond it is a
// correctness bug, not a recoverable runtime condition.
const EquivalenceTolerance = 1e-5

// validatingBackend executes every primitive on the primary backend and
// re-runs it on the reference backend over a copy of the input,
// comparing the two results. It is the runtime form of the
// cross-validation toggle; the same comparison runs unconditionally in
// the property-test suite.
type validatingBackend struct {
	primary    Backend
	reference  Backend
	logger     logging.Logger
	divergence int
}

// NewValidatingBackend wraps primary so that every call is checked
// against reference. Divergence is logged and counted, and the primary
// result is kept; visualization consumers prefer a suspect frame over a
// dropped one.
func NewValidatingBackend(primary, reference Backend, logger logging.Logger) Backend {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &validatingBackend{
		primary:   primary,
		reference: reference,
		logger: logger.WithFields(logging.Fields{
			"component": "backend_validator",
			"primary":   primary.Name(),
			"reference": reference.Name(),
		}),
	}
}

func (v *validatingBackend) Name() string {
	return v.primary.Name() + "+validate"
}

func (v *validatingBackend) ApplyWindow(kind Window, i, q []float32, size int) error {
	refI, refQ := copyBuffer(i), copyBuffer(q)
	if err := v.primary.ApplyWindow(kind, i, q, size); err != nil {
		return err
	}
	if err := v.reference.ApplyWindow(kind, refI, refQ, size); err != nil {
		return err
	}
	v.compare("window", i[:size], refI[:size])
	v.compare("window", q[:size], refQ[:size])
	return nil
}

func (v *validatingBackend) DCRemoveStatic(i, q []float32, size int) error {
	refI, refQ := copyBuffer(i), copyBuffer(q)
	if err := v.primary.DCRemoveStatic(i, q, size); err != nil {
		return err
	}
	if err := v.reference.DCRemoveStatic(refI, refQ, size); err != nil {
		return err
	}
	v.compare("dc_static", i[:size], refI[:size])
	v.compare("dc_static", q[:size], refQ[:size])
	return nil
}

// DCRemoveIIR is passed through unchecked: both backends share one
// serial loop, and running the reference would need a second state
// tuple that desynchronizes on the first divergence.
func (v *validatingBackend) DCRemoveIIR(i, q []float32, size int, alpha float32, state *BlockerState) error {
	return v.primary.DCRemoveIIR(i, q, size, alpha, state)
}

func (v *validatingBackend) Waveform(i, q []float32, count int, amp, phase []float32) error {
	if err := v.primary.Waveform(i, q, count, amp, phase); err != nil {
		return err
	}
	refAmp := AllocateBuffer(count)
	refPhase := AllocateBuffer(count)
	if err := v.reference.Waveform(i, q, count, refAmp, refPhase); err != nil {
		return err
	}
	v.compare("waveform_amp", amp[:count], refAmp)
	v.compare("waveform_phase", phase[:count], refPhase)
	return nil
}

// compare logs the worst relative deviation when two result buffers
// disagree beyond tolerance.
func (v *validatingBackend) compare(op string, got, want []float32) {
	idx, diff := maxRelativeDiff(got, want)
	if diff <= EquivalenceTolerance {
		return
	}
	v.divergence++
	v.logger.Error(nil, "cross-path divergence", logging.Fields{
		"operation": op,
		"index":     idx,
		"rel_diff":  diff,
		"got":       got[idx],
		"want":      want[idx],
	})
}

// maxRelativeDiff returns the index and value of the largest relative
// difference between two equal-length buffers.
func maxRelativeDiff(a, b []float32) (int, float64) {
	worstIdx := 0
	worst := 0.0
	for n := range a {
		d := relativeDiff(a[n], b[n])
		if d > worst {
			worst = d
			worstIdx = n
		}
	}
	return worstIdx, worst
}

// relativeDiff computes |a-b| scaled by the larger magnitude, falling
// back to the absolute difference near zero.
func relativeDiff(a, b float32) float64 {
	diff := math.Abs(float64(a) - float64(b))
	scale := math.Max(math.Abs(float64(a)), math.Abs(float64(b)))
	if scale < 1 {
		return diff
	}
	return diff / scale
}

func copyBuffer(src []float32) []float32 {
	dst := make([]float32, len(src))
	copy(dst, src)
	return dst
}

// VerifyBackends runs every dual-path primitive over deterministic
// pseudo-random data of the given length on both the scalar and vector
// backends and reports the first divergence beyond tolerance. The
// selftest command calls this at several lengths, including ones that
// are not multiples of 4.
func VerifyBackends(size int, seed int64) error {
	if size < 2 {
		return newProcessError("verify", ErrWindowTooShort, "size %d", size)
	}
	rng := rand.New(rand.NewSource(seed))
	i := make([]float32, size)
	q := make([]float32, size)
	for n := range i {
		i[n] = float32(rng.Float64()*4 - 2)
		q[n] = float32(rng.Float64()*4 - 2)
	}

	for _, kind := range []Window{WindowHann, WindowHamming, WindowBlackman} {
		sI, sQ := copyBuffer(i), copyBuffer(q)
		vI, vQ := copyBuffer(i), copyBuffer(q)
		if err := Scalar().ApplyWindow(kind, sI, sQ, size); err != nil {
			return err
		}
		if err := Vector().ApplyWindow(kind, vI, vQ, size); err != nil {
			return err
		}
		if err := verifyEquivalent("window/"+kind.String(), sI, vI); err != nil {
			return err
		}
		if err := verifyEquivalent("window/"+kind.String(), sQ, vQ); err != nil {
			return err
		}
	}

	sI, sQ := copyBuffer(i), copyBuffer(q)
	vI, vQ := copyBuffer(i), copyBuffer(q)
	if err := Scalar().DCRemoveStatic(sI, sQ, size); err != nil {
		return err
	}
	if err := Vector().DCRemoveStatic(vI, vQ, size); err != nil {
		return err
	}
	if err := verifyEquivalent("dc_static", sI, vI); err != nil {
		return err
	}
	if err := verifyEquivalent("dc_static", sQ, vQ); err != nil {
		return err
	}

	sAmp := make([]float32, size)
	sPhase := make([]float32, size)
	vAmp := make([]float32, size)
	vPhase := make([]float32, size)
	if err := Scalar().Waveform(i, q, size, sAmp, sPhase); err != nil {
		return err
	}
	if err := Vector().Waveform(i, q, size, vAmp, vPhase); err != nil {
		return err
	}
	if err := verifyEquivalent("waveform/amp", sAmp, vAmp); err != nil {
		return err
	}
	return verifyEquivalent("waveform/phase", sPhase, vPhase)
}

func verifyEquivalent(op string, scalar, vector []float32) error {
	idx, diff := maxRelativeDiff(scalar, vector)
	if diff > EquivalenceTolerance {
		return fmt.Errorf("%s: scalar/vector divergence at index %d: %g vs %g (rel %g)",
			op, idx, scalar[idx], vector[idx], diff)
	}
	return nil
}

// ValidateFFT cross-checks the in-repo radix-2 engine against the
// go-dsp reference transform over the same complex input. Used by the
// selftest command and the conformance tests; not part of the per-frame
// hot path.
func ValidateFFT(i, q []float32, fftSize int) error {
	plan, err := NewPlan(fftSize)
	if err != nil {
		return err
	}
	got := plan.bins(i, q)

	input := make([]complex128, fftSize)
	for n := range input {
		var re, im float64
		if n < len(i) {
			re = float64(i[n])
		}
		if n < len(q) {
			im = float64(q[n])
		}
		input[n] = complex(re, im)
	}
	want := gofft.FFT(input)

	for k := range got {
		gm := cmplx.Abs(got[k])
		wm := cmplx.Abs(want[k])
		if d := relativeDiff(float32(gm), float32(wm)); d > EquivalenceTolerance {
			return fmt.Errorf("fft bin %d diverges from reference: got %g, want %g (rel %g)", k, gm, wm, d)
		}
	}
	return nil
}
